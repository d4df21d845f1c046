// Package parser provides SKILL.md and rule file parsing.
// It extracts YAML frontmatter and markdown body content from skill files,
// enforcing the closed field sets the skill convention allows.
package parser

import (
	"bytes"
	"io"
	"os"

	"github.com/thoreinstein/skillcheck/internal/skill"
	"github.com/thoreinstein/skillcheck/pkg/fileutil"
	"github.com/thoreinstein/skillcheck/pkg/frontmatter"
)

// skillFields is the closed set of recognized SKILL.md frontmatter keys.
var skillFields = map[string]bool{
	"name":        true,
	"description": true,
}

// ruleFields is the closed set of recognized rule frontmatter keys.
var ruleFields = map[string]bool{
	"title":  true,
	"impact": true,
	"tags":   true,
}

// Result holds the outcome of parsing a SKILL.md.
type Result struct {
	// Meta is the recognized frontmatter. Keys outside the closed set do
	// not populate Meta; they are listed in Unknown.
	Meta skill.Metadata
	// Body is the raw Markdown content below the frontmatter.
	Body string
	// BodyLineCount is the number of lines in Body.
	BodyLineCount int
	// Unknown lists unrecognized frontmatter keys in document order.
	Unknown []string
}

// RuleResult holds the outcome of parsing a rule file's frontmatter.
type RuleResult struct {
	Meta    skill.RuleMeta
	Unknown []string
}

// Parser handles skill file parsing operations.
type Parser struct{}

// New creates a new Parser instance.
func New() *Parser {
	return &Parser{}
}

// ParseFile reads and parses a SKILL.md file from the given path.
// Files over the fileutil read limit fail rather than being truncated.
func (p *Parser) ParseFile(path string) (*Result, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.ParseBytes(data, path)
}

// Parse reads and parses a SKILL.md from the given reader.
// The path parameter is used for error context only.
func (p *Parser) Parse(r io.Reader, path string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.ParseBytes(data, path)
}

// ParseBytes parses SKILL.md content from bytes.
// The path parameter is used for error context only.
//
// A missing or unterminated frontmatter block, invalid YAML, or a
// non-mapping frontmatter document fail with a ParseError wrapping the
// cause. Unrecognized keys do not fail the parse; they are reported in
// Result.Unknown so the audit can flag each one.
func (p *Parser) ParseBytes(data []byte, path string) (*Result, error) {
	fm, body, err := frontmatter.Extract(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	keys, err := frontmatter.Keys(fm)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var meta skill.Metadata
	if err := frontmatter.Decode(fm, &meta); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &Result{
		Meta:          meta,
		Body:          string(body),
		BodyLineCount: CountLines(body),
		Unknown:       unknownKeys(keys, skillFields),
	}, nil
}

// ParseHeader parses only the frontmatter metadata, stopping at the closing ---.
// This is more efficient for listing skills without reading full content.
// A file without frontmatter yields empty metadata and no error.
func (p *Parser) ParseHeader(path string) (*skill.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	var meta skill.Metadata
	if err := frontmatter.ParseHeader(f, &meta); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &meta, nil
}

// ParseRuleFile reads and parses a rule file's frontmatter from the given path.
func (p *Parser) ParseRuleFile(path string) (*RuleResult, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return p.ParseRuleBytes(data, path)
}

// ParseRuleBytes parses rule file content from bytes.
// The path parameter is used for error context only.
func (p *Parser) ParseRuleBytes(data []byte, path string) (*RuleResult, error) {
	fm, _, err := frontmatter.Extract(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	keys, err := frontmatter.Keys(fm)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var meta skill.RuleMeta
	if err := frontmatter.Decode(fm, &meta); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &RuleResult{
		Meta:    meta,
		Unknown: unknownKeys(keys, ruleFields),
	}, nil
}

// CountLines returns the number of lines in data. A trailing newline does
// not start a new line; empty data has zero lines.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte("\n"))
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// unknownKeys returns the keys not present in the allowed set, preserving
// document order.
func unknownKeys(keys []string, allowed map[string]bool) []string {
	var unknown []string
	for _, k := range keys {
		if !allowed[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}
