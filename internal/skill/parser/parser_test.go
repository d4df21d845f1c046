package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const validSkillFull = `---
name: convex
description: Guidelines for building Convex backends with schema design and queries
---
# Convex Guidelines

Use this skill when working with Convex.

## Schema Design

Keep schemas in one file.
`

const validSkillMinimal = `---
name: minimal-skill
description: A minimal test skill
---
`

const skillWithUnknownFields = `---
name: extra-fields
version: "1.0.0"
description: Skill with fields outside the recognized set
author: Somebody
---
Body content.
`

const validSkillBodyOnly = `# Just Instructions

No frontmatter here at all.
`

const malformedYAML = `---
name: bad-yaml
description: [unclosed bracket
---
Body content.
`

const sequenceFrontmatter = `---
- name
- description
---
Body content.
`

const emptyFile = ``

const unterminatedFrontmatter = `---
name: unclosed-frontmatter
description: Missing closing delimiter
body starts here without delimiter
`

const validRule = `---
title: No secrets in code
impact: CRITICAL
tags:
  - security
  - secrets
---
Never commit credentials.
`

const ruleWithUnknownFields = `---
title: Prefer batching
impact: LOW
severity: minor
tags: []
---
Batch writes where possible.
`

func TestParser_ParseBytes(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		errContains string
		checkResult func(t *testing.T, res *Result)
	}{
		{
			name:    "valid skill with body",
			input:   validSkillFull,
			wantErr: false,
			checkResult: func(t *testing.T, res *Result) {
				t.Helper()
				if res.Meta.Name != "convex" {
					t.Errorf("Name = %q, want %q", res.Meta.Name, "convex")
				}
				if !strings.HasPrefix(res.Meta.Description, "Guidelines for building") {
					t.Errorf("Description = %q, want prefix %q", res.Meta.Description, "Guidelines for building")
				}
				if !strings.Contains(res.Body, "# Convex Guidelines") {
					t.Errorf("Body should contain heading, got %q", res.Body)
				}
				if !strings.Contains(res.Body, "Schema Design") {
					t.Errorf("Body should contain 'Schema Design', got %q", res.Body)
				}
				if res.BodyLineCount != 7 {
					t.Errorf("BodyLineCount = %d, want 7", res.BodyLineCount)
				}
				if len(res.Unknown) != 0 {
					t.Errorf("Unknown = %v, want empty", res.Unknown)
				}
			},
		},
		{
			name:    "valid skill with only required fields",
			input:   validSkillMinimal,
			wantErr: false,
			checkResult: func(t *testing.T, res *Result) {
				t.Helper()
				if res.Meta.Name != "minimal-skill" {
					t.Errorf("Name = %q, want %q", res.Meta.Name, "minimal-skill")
				}
				if res.Body != "" {
					t.Errorf("Body = %q, want empty", res.Body)
				}
				if res.BodyLineCount != 0 {
					t.Errorf("BodyLineCount = %d, want 0", res.BodyLineCount)
				}
			},
		},
		{
			name:    "unrecognized fields are reported, not fatal",
			input:   skillWithUnknownFields,
			wantErr: false,
			checkResult: func(t *testing.T, res *Result) {
				t.Helper()
				if res.Meta.Name != "extra-fields" {
					t.Errorf("Name = %q, want %q", res.Meta.Name, "extra-fields")
				}
				want := []string{"version", "author"}
				if !reflect.DeepEqual(res.Unknown, want) {
					t.Errorf("Unknown = %v, want %v", res.Unknown, want)
				}
			},
		},
		{
			name:        "body only, no frontmatter",
			input:       validSkillBodyOnly,
			wantErr:     true,
			errContains: "missing frontmatter",
		},
		{
			name:        "malformed YAML",
			input:       malformedYAML,
			wantErr:     true,
			errContains: "",
		},
		{
			name:        "sequence instead of mapping",
			input:       sequenceFrontmatter,
			wantErr:     true,
			errContains: "must be a YAML mapping",
		},
		{
			name:        "empty file",
			input:       emptyFile,
			wantErr:     true,
			errContains: "missing frontmatter",
		},
		{
			name:        "unclosed frontmatter",
			input:       unterminatedFrontmatter,
			wantErr:     true,
			errContains: "missing closing frontmatter delimiter",
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.ParseBytes([]byte(tt.input), "test.md")

			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseBytes() expected error, got nil")
				}
				var parseErr *ParseError
				if !errors.As(err, &parseErr) {
					t.Errorf("expected *ParseError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %q, want to contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseBytes() error = %v", err)
			}
			if res == nil {
				t.Fatal("ParseBytes() returned nil result")
			}
			if tt.checkResult != nil {
				tt.checkResult(t, res)
			}
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p := New()

	t.Run("reads from reader successfully", func(t *testing.T) {
		r := bytes.NewReader([]byte(validSkillFull))
		res, err := p.Parse(r, "reader-test.md")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if res.Meta.Name != "convex" {
			t.Errorf("Name = %q, want %q", res.Meta.Name, "convex")
		}
	})

	t.Run("includes path in error", func(t *testing.T) {
		r := bytes.NewReader([]byte(emptyFile))
		_, err := p.Parse(r, "my-path.md")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "my-path.md") {
			t.Errorf("error should contain path, got %q", err.Error())
		}
	})
}

func TestParser_ParseFile(t *testing.T) {
	p := New()

	t.Run("parses file from filesystem", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillPath := filepath.Join(tmpDir, "SKILL.md")
		if err := os.WriteFile(skillPath, []byte(validSkillFull), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		res, err := p.ParseFile(skillPath)
		if err != nil {
			t.Fatalf("ParseFile() error = %v", err)
		}
		if res.Meta.Name != "convex" {
			t.Errorf("Name = %q, want %q", res.Meta.Name, "convex")
		}
	})

	t.Run("returns error for nonexistent file", func(t *testing.T) {
		_, err := p.ParseFile("/nonexistent/path/SKILL.md")
		if err == nil {
			t.Fatal("expected error for nonexistent file")
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("expected *ParseError, got %T", err)
		}
		if parseErr.Path != "/nonexistent/path/SKILL.md" {
			t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, "/nonexistent/path/SKILL.md")
		}
	})
}

func TestParser_ParseHeader(t *testing.T) {
	p := New()

	t.Run("parses only header", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillPath := filepath.Join(tmpDir, "SKILL.md")
		if err := os.WriteFile(skillPath, []byte(validSkillFull), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		meta, err := p.ParseHeader(skillPath)
		if err != nil {
			t.Fatalf("ParseHeader() error = %v", err)
		}
		if meta.Name != "convex" {
			t.Errorf("Name = %q, want %q", meta.Name, "convex")
		}
		if !strings.HasPrefix(meta.Description, "Guidelines for building") {
			t.Errorf("Description = %q, want prefix %q", meta.Description, "Guidelines for building")
		}
	})

	t.Run("returns error for nonexistent file", func(t *testing.T) {
		_, err := p.ParseHeader("/nonexistent/path/SKILL.md")
		if err == nil {
			t.Fatal("expected error for nonexistent file")
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("expected *ParseError, got %T", err)
		}
	})

	t.Run("returns empty metadata for file without frontmatter", func(t *testing.T) {
		tmpDir := t.TempDir()
		skillPath := filepath.Join(tmpDir, "SKILL.md")
		if err := os.WriteFile(skillPath, []byte(validSkillBodyOnly), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		meta, err := p.ParseHeader(skillPath)
		if err != nil {
			t.Fatalf("ParseHeader() error = %v", err)
		}
		if meta.Name != "" {
			t.Errorf("Name = %q, want empty", meta.Name)
		}
	})
}

func TestParser_ParseRuleBytes(t *testing.T) {
	p := New()

	t.Run("valid rule", func(t *testing.T) {
		res, err := p.ParseRuleBytes([]byte(validRule), "rules/no-secrets.md")
		if err != nil {
			t.Fatalf("ParseRuleBytes() error = %v", err)
		}
		if res.Meta.Title != "No secrets in code" {
			t.Errorf("Title = %q, want %q", res.Meta.Title, "No secrets in code")
		}
		if res.Meta.Impact != "CRITICAL" {
			t.Errorf("Impact = %q, want %q", res.Meta.Impact, "CRITICAL")
		}
		want := []string{"security", "secrets"}
		if !reflect.DeepEqual(res.Meta.Tags, want) {
			t.Errorf("Tags = %v, want %v", res.Meta.Tags, want)
		}
		if len(res.Unknown) != 0 {
			t.Errorf("Unknown = %v, want empty", res.Unknown)
		}
	})

	t.Run("unrecognized rule fields are reported", func(t *testing.T) {
		res, err := p.ParseRuleBytes([]byte(ruleWithUnknownFields), "rules/batching.md")
		if err != nil {
			t.Fatalf("ParseRuleBytes() error = %v", err)
		}
		if res.Meta.Title != "Prefer batching" {
			t.Errorf("Title = %q, want %q", res.Meta.Title, "Prefer batching")
		}
		want := []string{"severity"}
		if !reflect.DeepEqual(res.Unknown, want) {
			t.Errorf("Unknown = %v, want %v", res.Unknown, want)
		}
	})

	t.Run("missing frontmatter fails", func(t *testing.T) {
		_, err := p.ParseRuleBytes([]byte("Just a body.\n"), "rules/bare.md")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("expected *ParseError, got %T", err)
		}
	})
}

func TestParser_ParseRuleFile(t *testing.T) {
	p := New()

	t.Run("parses rule from filesystem", func(t *testing.T) {
		tmpDir := t.TempDir()
		rulePath := filepath.Join(tmpDir, "no-secrets.md")
		if err := os.WriteFile(rulePath, []byte(validRule), 0o644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		res, err := p.ParseRuleFile(rulePath)
		if err != nil {
			t.Fatalf("ParseRuleFile() error = %v", err)
		}
		if res.Meta.Impact != "CRITICAL" {
			t.Errorf("Impact = %q, want %q", res.Meta.Impact, "CRITICAL")
		}
	})

	t.Run("returns error for nonexistent file", func(t *testing.T) {
		_, err := p.ParseRuleFile("/nonexistent/rules/missing.md")
		if err == nil {
			t.Fatal("expected error for nonexistent file")
		}
	})
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "single line no newline", input: "one line", want: 1},
		{name: "single line with newline", input: "one line\n", want: 1},
		{name: "two lines", input: "a\nb\n", want: 2},
		{name: "trailing partial line", input: "a\nb\nc", want: 3},
		{name: "blank lines count", input: "a\n\n\nb\n", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLines([]byte(tt.input)); got != tt.want {
				t.Errorf("CountLines(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseError(t *testing.T) {
	t.Run("formats with path", func(t *testing.T) {
		err := &ParseError{
			Path: "/some/path.md",
			Err:  errors.New("underlying error"),
		}
		expected := "parsing skill /some/path.md: underlying error"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("formats without path", func(t *testing.T) {
		err := &ParseError{
			Err: errors.New("underlying error"),
		}
		expected := "parsing skill: underlying error"
		if err.Error() != expected {
			t.Errorf("Error() = %q, want %q", err.Error(), expected)
		}
	})

	t.Run("unwrap returns underlying error", func(t *testing.T) {
		underlying := errors.New("underlying error")
		err := &ParseError{
			Path: "/path.md",
			Err:  underlying,
		}
		if !errors.Is(err, underlying) {
			t.Error("Unwrap() should allow errors.Is to match underlying error")
		}
	})
}

func TestNew(t *testing.T) {
	p := New()
	if p == nil {
		t.Error("New() returned nil")
	}
}
