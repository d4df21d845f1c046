// Package finding defines the findings model produced by skill audits.
package finding

import (
	"fmt"
	"sort"
	"strings"
)

// Severity represents the impact of an audit finding.
// Fatal conditions (unreadable root, I/O failures) are ordinary Go errors
// returned by the audit run, not findings.
type Severity int

const (
	// SeverityError indicates a structural contract violation that fails
	// validation.
	SeverityError Severity = iota
	// SeverityWarning indicates a best-practice deviation that fails
	// validation only in strict mode.
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity as its string form for stable reports.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %s", data)
	}
	return nil
}

// Kind identifies the specific check a finding came from.
type Kind string

// Finding kinds, one per check.
const (
	// KindMissingSkillFile flags a candidate folder without a SKILL.md.
	KindMissingSkillFile Kind = "missing-skill-file"
	// KindMissingFrontmatter flags a SKILL.md without a leading frontmatter block.
	KindMissingFrontmatter Kind = "missing-frontmatter"
	// KindInvalidFrontmatter flags frontmatter that is not valid YAML or not a mapping.
	KindInvalidFrontmatter Kind = "invalid-frontmatter"
	// KindUnrecognizedField flags frontmatter keys outside the closed field set.
	KindUnrecognizedField Kind = "unrecognized-field"
	// KindMissingName flags frontmatter without a name.
	KindMissingName Kind = "missing-name"
	// KindMissingDescription flags frontmatter without a description.
	KindMissingDescription Kind = "missing-description"
	// KindDescriptionTooLong flags a description over the length limit.
	KindDescriptionTooLong Kind = "description-too-long"
	// KindInvalidNameFormat flags a name that is not kebab-case within the
	// length limit.
	KindInvalidNameFormat Kind = "invalid-name-format"
	// KindNameFolderMismatch flags a name differing from the folder basename.
	KindNameFolderMismatch Kind = "name-folder-mismatch"
	// KindBodyTooLong flags a SKILL.md body at or over the line limit.
	KindBodyTooLong Kind = "body-too-long"
	// KindRedundantSection flags a "When to Use" heading in the body.
	KindRedundantSection Kind = "redundant-section"
	// KindMissingTOC flags a long reference file without a table of contents.
	KindMissingTOC Kind = "missing-toc"
	// KindBrokenReference flags a relative link to a missing file.
	KindBrokenReference Kind = "broken-reference"
	// KindOrphanFile flags a reference file no link points to.
	KindOrphanFile Kind = "orphan-file"
	// KindMissingRuleTitle flags a rule file without a title.
	KindMissingRuleTitle Kind = "missing-rule-title"
	// KindInvalidImpact flags a rule impact outside the known levels.
	KindInvalidImpact Kind = "invalid-impact"
	// KindFileTooLarge flags a file over the read size limit.
	KindFileTooLarge Kind = "file-too-large"
	// KindUnusedWaiver flags a waiver entry that matched no finding.
	KindUnusedWaiver Kind = "unused-waiver"
)

// Finding represents a single audit finding for one skill.
type Finding struct {
	// Skill is the name of the skill the finding belongs to. Empty for
	// findings that are not tied to a specific skill (unused waivers).
	Skill string `json:"skillName"`
	// Severity indicates whether the finding fails validation.
	Severity Severity `json:"severity"`
	// Kind identifies the check that produced the finding.
	Kind Kind `json:"kind"`
	// Message is a human-readable description of the problem.
	Message string `json:"message"`
	// Path is the offending file, relative to the scan root.
	Path string `json:"filePath"`
}

// String renders the finding in the single-line text report form.
func (f Finding) String() string {
	var sb strings.Builder
	sb.WriteString(f.Severity.String())
	sb.WriteString(": ")
	if f.Skill != "" {
		sb.WriteString(f.Skill)
		sb.WriteString(": ")
	}
	sb.WriteString(f.Message)
	if f.Path != "" {
		fmt.Fprintf(&sb, " (%s)", f.Path)
	}
	return sb.String()
}

// Summary holds the aggregate counts of a report.
type Summary struct {
	Skills   int `json:"skills"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Waived   int `json:"waived"`
}

// Report aggregates the findings of one audit run.
// Reports carry no timestamps so identical trees produce identical output.
type Report struct {
	// Root is the scan root as given on the command line or in config.
	Root string `json:"root"`
	// Skills lists the discovered skill names in sorted order.
	Skills []string `json:"skills"`
	// Findings lists all findings in sorted order.
	Findings []Finding `json:"findings"`
	// Summary holds the aggregate counts.
	Summary Summary `json:"summary"`
}

// Add appends a finding to the report.
func (r *Report) Add(f Finding) {
	r.Findings = append(r.Findings, f)
}

// AddError appends an error finding.
func (r *Report) AddError(skill string, kind Kind, message, path string) {
	r.Add(Finding{Skill: skill, Severity: SeverityError, Kind: kind, Message: message, Path: path})
}

// AddWarning appends a warning finding.
func (r *Report) AddWarning(skill string, kind Kind, message, path string) {
	r.Add(Finding{Skill: skill, Severity: SeverityWarning, Kind: kind, Message: message, Path: path})
}

// HasErrors returns true if any finding has SeverityError.
func (r *Report) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings returns true if any finding has SeverityWarning.
func (r *Report) HasWarnings() bool {
	if r == nil {
		return false
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Errors returns all findings with SeverityError.
func (r *Report) Errors() []Finding {
	if r == nil {
		return nil
	}
	var res []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			res = append(res, f)
		}
	}
	return res
}

// Warnings returns all findings with SeverityWarning.
func (r *Report) Warnings() []Finding {
	if r == nil {
		return nil
	}
	var res []Finding
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			res = append(res, f)
		}
	}
	return res
}

// Failed reports whether the run should exit non-zero: any error finding,
// or any warning finding when strict is set.
func (r *Report) Failed(strict bool) bool {
	return r.HasErrors() || (strict && r.HasWarnings())
}

// Finalize sorts skills and findings into their canonical order and
// recomputes the summary counts. Waived keeps its prior value since waived
// findings are removed before finalizing.
func (r *Report) Finalize() {
	sort.Strings(r.Skills)
	sort.SliceStable(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Skill != b.Skill {
			return a.Skill < b.Skill
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})

	r.Summary.Skills = len(r.Skills)
	r.Summary.Errors = 0
	r.Summary.Warnings = 0
	for _, f := range r.Findings {
		switch f.Severity {
		case SeverityError:
			r.Summary.Errors++
		case SeverityWarning:
			r.Summary.Warnings++
		}
	}
}
