// Package validator checks skill packages against the authoring conventions.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thoreinstein/skillcheck/internal/finding"
	"github.com/thoreinstein/skillcheck/internal/skill"
)

// Default thresholds from the authoring conventions.
const (
	// DefaultNameLength is the maximum allowed length for skill names.
	DefaultNameLength = 64
	// DefaultDescriptionLength is the maximum description length in characters.
	DefaultDescriptionLength = 1024
	// DefaultBodyLines is the body length at which a SKILL.md should be
	// split into references/.
	DefaultBodyLines = 500
	// DefaultTOCLines is the reference file length above which a
	// table-of-contents heading is expected.
	DefaultTOCLines = 100
)

// nameRegex validates skill names: lowercase alphanumeric, single hyphens allowed
// between segments, no start/end hyphen, no consecutive hyphens.
var nameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// redundantHeading is the body heading prefix that repeats what the
// description field already tells the agent.
const redundantHeading = "when to use"

// Limits holds the numeric thresholds the validator enforces.
type Limits struct {
	NameLength        int
	DescriptionLength int
	BodyLines         int
	TOCLines          int
}

// Option configures a Validator.
type Option func(*Validator)

// Validator validates skill packages against the authoring conventions.
type Validator struct {
	limits Limits
}

// New creates a new Validator with the given options.
func New(opts ...Option) *Validator {
	v := &Validator{
		limits: Limits{
			NameLength:        DefaultNameLength,
			DescriptionLength: DefaultDescriptionLength,
			BodyLines:         DefaultBodyLines,
			TOCLines:          DefaultTOCLines,
		},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WithLimits overrides the default thresholds. Zero fields keep their
// defaults.
func WithLimits(l Limits) Option {
	return func(v *Validator) {
		if l.NameLength > 0 {
			v.limits.NameLength = l.NameLength
		}
		if l.DescriptionLength > 0 {
			v.limits.DescriptionLength = l.DescriptionLength
		}
		if l.BodyLines > 0 {
			v.limits.BodyLines = l.BodyLines
		}
		if l.TOCLines > 0 {
			v.limits.TOCLines = l.TOCLines
		}
	}
}

// Validate checks a loaded package for compliance with the conventions.
// Returns the findings in a fixed order, or nil if the package is clean.
// Validation is purely functional: no I/O happens here, and the same
// package always yields the same findings. Body links are expected to be
// resolved into pkg.Links before calling.
func (v *Validator) Validate(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	findings = append(findings, v.validateName(pkg)...)
	findings = append(findings, v.validateDescription(pkg)...)
	findings = append(findings, v.validateFields(pkg)...)
	findings = append(findings, v.validateBody(pkg)...)
	findings = append(findings, v.validateReferences(pkg)...)
	findings = append(findings, v.validateRules(pkg)...)
	findings = append(findings, v.validateLinks(pkg)...)

	if len(findings) == 0 {
		return nil
	}
	return findings
}

// validateName checks the name field, the folder name, and the contract
// that the two match.
func (v *Validator) validateName(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	name := pkg.Meta.Name
	if name == "" {
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityError,
			Kind:     finding.KindMissingName,
			Message:  "name is required",
			Path:     pkg.SkillFile,
		})
	} else if msg := v.nameProblem("name", name); msg != "" {
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityError,
			Kind:     finding.KindInvalidNameFormat,
			Message:  msg,
			Path:     pkg.SkillFile,
		})
	}

	// When name and folder agree, the name check above covers both. A
	// disagreeing folder gets its own format check so a skill like
	// My_Skill with name my-skill reports both problems.
	if name != pkg.Folder {
		if name != "" {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindNameFolderMismatch,
				Message:  fmt.Sprintf("skill name %q must match directory name %q", name, pkg.Folder),
				Path:     pkg.SkillFile,
			})
		}
		if msg := v.nameProblem("directory name", pkg.Folder); msg != "" {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindInvalidNameFormat,
				Message:  msg,
				Path:     pkg.SkillFile,
			})
		}
	}

	return findings
}

// nameProblem returns how value breaks the naming rule, or "" when it
// conforms. label reads as "name" or "directory name" in messages. At
// most one problem is reported per value.
func (v *Validator) nameProblem(label, value string) string {
	if len(value) > v.limits.NameLength {
		return fmt.Sprintf("%s exceeds maximum length of %d characters", label, v.limits.NameLength)
	}
	if !nameRegex.MatchString(value) {
		msg := label + " must be lowercase alphanumeric with single hyphens between segments"
		if strings.HasPrefix(value, "-") || strings.HasSuffix(value, "-") {
			msg = label + " cannot start or end with a hyphen"
		} else if strings.Contains(value, "--") {
			msg = label + " cannot contain consecutive hyphens"
		} else if strings.ToLower(value) != value {
			msg = label + " must be lowercase"
		}
		return msg
	}
	return ""
}

// validateDescription checks the description field for compliance.
func (v *Validator) validateDescription(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	desc := pkg.Meta.Description
	switch {
	case desc == "":
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityError,
			Kind:     finding.KindMissingDescription,
			Message:  "description is required",
			Path:     pkg.SkillFile,
		})
	case strings.TrimSpace(desc) == "":
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityError,
			Kind:     finding.KindMissingDescription,
			Message:  "description cannot be only whitespace",
			Path:     pkg.SkillFile,
		})
	default:
		if n := utf8.RuneCountInString(desc); n > v.limits.DescriptionLength {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindDescriptionTooLong,
				Message:  fmt.Sprintf("description exceeds maximum length of %d characters (got %d)", v.limits.DescriptionLength, n),
				Path:     pkg.SkillFile,
			})
		}
	}

	return findings
}

// validateFields flags frontmatter keys outside the closed shape.
func (v *Validator) validateFields(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	for _, key := range pkg.Unknown {
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityError,
			Kind:     finding.KindUnrecognizedField,
			Message:  fmt.Sprintf("unrecognized frontmatter field %q (only name and description are allowed)", key),
			Path:     pkg.SkillFile,
		})
	}

	return findings
}

// validateBody checks the Markdown content below the frontmatter.
func (v *Validator) validateBody(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	if pkg.BodyLineCount >= v.limits.BodyLines {
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityWarning,
			Kind:     finding.KindBodyTooLong,
			Message:  fmt.Sprintf("body is %d lines, exceeding the %d line limit; move detail into references/", pkg.BodyLineCount, v.limits.BodyLines),
			Path:     pkg.SkillFile,
		})
	}

	for _, h := range pkg.BodyHeadings {
		heading := strings.TrimSpace(h)
		if strings.HasPrefix(strings.ToLower(heading), redundantHeading) {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityWarning,
				Kind:     finding.KindRedundantSection,
				Message:  fmt.Sprintf("%q section is redundant; the description field already tells the agent when to use the skill", heading),
				Path:     pkg.SkillFile,
			})
			break
		}
	}

	return findings
}

// validateReferences checks that long reference files carry a
// table-of-contents heading.
func (v *Validator) validateReferences(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	for _, ref := range pkg.References {
		if ref.LineCount > v.limits.TOCLines && !ref.HasTOC {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityWarning,
				Kind:     finding.KindMissingTOC,
				Message:  fmt.Sprintf("%s is %d lines but has no table-of-contents heading", ref.Name, ref.LineCount),
				Path:     ref.Path,
			})
		}
	}

	return findings
}

// validateRules checks each rule file's frontmatter shape.
func (v *Validator) validateRules(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	for _, rule := range pkg.Rules {
		if rule.Err != nil {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindInvalidFrontmatter,
				Message:  fmt.Sprintf("invalid rule frontmatter: %v", rule.Err),
				Path:     rule.Path,
			})
			continue
		}

		for _, key := range rule.Unknown {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindUnrecognizedField,
				Message:  fmt.Sprintf("unrecognized frontmatter field %q (only title, impact, and tags are allowed)", key),
				Path:     rule.Path,
			})
		}

		if rule.Meta.Title == "" {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindMissingRuleTitle,
				Message:  "title is required",
				Path:     rule.Path,
			})
		}

		if rule.Meta.Impact == "" {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindInvalidImpact,
				Message:  "impact is required",
				Path:     rule.Path,
			})
		} else if !skill.ValidImpact(rule.Meta.Impact) {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityError,
				Kind:     finding.KindInvalidImpact,
				Message:  fmt.Sprintf("invalid impact %q (valid: CRITICAL, HIGH, MEDIUM, LOW)", rule.Meta.Impact),
				Path:     rule.Path,
			})
		}
	}

	return findings
}

// validateLinks turns unresolved body links into broken-reference errors
// and reports reference files nothing links to.
func (v *Validator) validateLinks(pkg *skill.Package) []finding.Finding {
	var findings []finding.Finding

	linked := make(map[string]bool)
	for _, link := range pkg.Links {
		if link.Exists {
			if name, ok := strings.CutPrefix(link.TargetPath, skill.ReferencesDir+"/"); ok {
				linked[name] = true
			}
			continue
		}
		msg := fmt.Sprintf("%s links to %s, which does not exist", skill.FileName, link.TargetPath)
		if link.Escapes {
			msg = fmt.Sprintf("%s links to %s, which resolves outside the skill folder", skill.FileName, link.TargetPath)
		}
		findings = append(findings, finding.Finding{
			Skill:    pkg.Folder,
			Severity: finding.SeverityError,
			Kind:     finding.KindBrokenReference,
			Message:  msg,
			Path:     link.SourceFile,
		})
	}

	for _, ref := range pkg.References {
		if !linked[ref.Name] {
			findings = append(findings, finding.Finding{
				Skill:    pkg.Folder,
				Severity: finding.SeverityWarning,
				Kind:     finding.KindOrphanFile,
				Message:  fmt.Sprintf("%s is never linked from %s and will not be loaded", ref.Name, skill.FileName),
				Path:     ref.Path,
			})
		}
	}

	return findings
}
