// Package waiver applies recorded finding exemptions to a report.
//
// A waiver file is TOML with one [[waiver]] table per exemption:
//
//	[[waiver]]
//	kind = "body-too-long"
//	skill = "legacy-import"
//	reason = "imported wholesale, slimming tracked separately"
//
//	[[waiver]]
//	kind = "missing-toc"
//	path = "legacy-import/references/*.md"
//	reason = "generated API dumps, a TOC adds nothing"
//
// A finding is waived when every set selector matches it. Waivers that
// match nothing surface as unused-waiver warnings so stale entries get
// cleaned up instead of silently masking future findings.
package waiver

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/skillcheck/internal/finding"
	"github.com/thoreinstein/skillcheck/pkg/fileutil"
)

// Waiver is one exemption entry. Kind matches exactly and is required;
// Skill and Path are optional doublestar globs against the finding's
// skill name and file path.
type Waiver struct {
	Kind   string `toml:"kind"`
	Skill  string `toml:"skill"`
	Path   string `toml:"path"`
	Reason string `toml:"reason"`
}

// String renders the set selectors for messages.
func (w Waiver) String() string {
	var parts []string
	if w.Kind != "" {
		parts = append(parts, "kind="+w.Kind)
	}
	if w.Skill != "" {
		parts = append(parts, "skill="+w.Skill)
	}
	if w.Path != "" {
		parts = append(parts, "path="+w.Path)
	}
	return strings.Join(parts, " ")
}

// matches reports whether f satisfies every selector set on w.
func (w Waiver) matches(f finding.Finding) bool {
	if w.Kind != string(f.Kind) {
		return false
	}
	if w.Skill != "" {
		ok, err := doublestar.Match(w.Skill, f.Skill)
		if err != nil || !ok {
			return false
		}
	}
	if w.Path != "" {
		ok, err := doublestar.Match(w.Path, f.Path)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// file is the TOML document shape.
type file struct {
	Waivers []Waiver `toml:"waiver"`
}

// Set is a validated collection of waivers from one file.
type Set struct {
	entries []Waiver
	source  string
}

// Load reads and parses a waiver file.
func Load(path string) (*Set, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading waiver file %s", path)
	}
	return Parse(data, path)
}

// Parse parses waiver data. The source name is attributed to
// unused-waiver warnings.
func Parse(data []byte, source string) (*Set, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing waiver file %s", source)
	}
	for i, w := range f.Waivers {
		if w.Reason == "" {
			return nil, errors.Newf("waiver %d in %s: reason is required", i+1, source)
		}
		if w.Kind == "" {
			return nil, errors.Newf("waiver %d in %s: kind is required", i+1, source)
		}
		if w.Skill != "" && !doublestar.ValidatePattern(w.Skill) {
			return nil, errors.Newf("waiver %d in %s: invalid skill pattern %q", i+1, source, w.Skill)
		}
		if w.Path != "" && !doublestar.ValidatePattern(w.Path) {
			return nil, errors.Newf("waiver %d in %s: invalid path pattern %q", i+1, source, w.Path)
		}
	}
	return &Set{entries: f.Waivers, source: source}, nil
}

// Len returns the number of waivers in the set.
func (s *Set) Len() int {
	return len(s.entries)
}

// Apply removes waived findings from rep, records the waived count in the
// summary, and appends an unused-waiver warning for every entry that
// matched nothing. The report is re-finalized before returning. Returns
// the number of findings waived.
func (s *Set) Apply(rep *finding.Report) int {
	if len(s.entries) == 0 {
		return 0
	}

	used := make([]bool, len(s.entries))
	kept := rep.Findings[:0]
	waived := 0
	for _, f := range rep.Findings {
		matched := false
		for i, w := range s.entries {
			if w.matches(f) {
				used[i] = true
				matched = true
			}
		}
		if matched {
			waived++
			continue
		}
		kept = append(kept, f)
	}
	rep.Findings = kept

	for i, w := range s.entries {
		if used[i] {
			continue
		}
		rep.Findings = append(rep.Findings, finding.Finding{
			Skill:    w.Skill,
			Severity: finding.SeverityWarning,
			Kind:     finding.KindUnusedWaiver,
			Message:  fmt.Sprintf("waiver matches no findings and can be removed: %s", w),
			Path:     s.source,
		})
	}

	rep.Summary.Waived += waived
	rep.Finalize()
	return waived
}
