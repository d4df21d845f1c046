// Package audit runs the full skill validation pipeline: folder discovery,
// frontmatter parsing, convention checks, and link resolution.
package audit

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/thoreinstein/skillcheck/internal/errors"
	"github.com/thoreinstein/skillcheck/internal/finding"
	"github.com/thoreinstein/skillcheck/internal/skill"
	"github.com/thoreinstein/skillcheck/internal/skill/links"
	"github.com/thoreinstein/skillcheck/internal/skill/parser"
	"github.com/thoreinstein/skillcheck/internal/skill/validator"
	"github.com/thoreinstein/skillcheck/pkg/fileutil"
	"github.com/thoreinstein/skillcheck/pkg/frontmatter"
)

// Option configures an Auditor.
type Option func(*Auditor)

// Auditor coordinates discovery, parsing, validation, and link resolution
// for every skill folder under a root.
type Auditor struct {
	parser    *parser.Parser
	validator *validator.Validator
	logger    *slog.Logger
	jobs      int
}

// New creates a new Auditor with the given options.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		parser: parser.New(),
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})),
		jobs: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.validator == nil {
		a.validator = validator.New()
	}
	return a
}

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		a.logger = logger
	}
}

// WithJobs caps how many skill folders are validated concurrently.
// Values below one fall back to GOMAXPROCS.
func WithJobs(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.jobs = n
		}
	}
}

// WithLimits overrides the validator thresholds.
func WithLimits(l validator.Limits) Option {
	return func(a *Auditor) {
		a.validator = validator.New(validator.WithLimits(l))
	}
}

// result carries one candidate's outcome back from a worker.
type result struct {
	findings []finding.Finding
	err      error
}

// Run validates every skill folder under root and returns the aggregated
// report. Skill folders are independent: one folder's findings never stop
// its siblings. Only an unusable root, a filesystem failure, or context
// cancellation aborts the run, and then no partial report is returned.
func (a *Auditor) Run(ctx context.Context, root string) (*finding.Report, error) {
	candidates, err := skill.Scan(root)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("scanned skills root",
		"root", root,
		"candidates", len(candidates))

	// Each worker writes to its own slot, keeping aggregation order
	// independent of scheduling.
	results := make([]result, len(candidates))

	workers := a.jobs
	if workers < 1 {
		workers = 1
	}
	if len(candidates) < workers {
		workers = len(candidates)
	}

	work := make(chan int, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if err := ctx.Err(); err != nil {
					results[i] = result{err: err}
					continue
				}
				results[i] = a.auditCandidate(root, candidates[i])
			}
		}()
	}

	for i := range candidates {
		work <- i
	}
	close(work)
	wg.Wait()

	rep := &finding.Report{Root: filepath.ToSlash(root)}
	for i, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		rep.Skills = append(rep.Skills, candidates[i].Name)
		rep.Findings = append(rep.Findings, res.findings...)
	}
	rep.Finalize()
	return rep, nil
}

// auditCandidate loads and validates a single skill folder.
func (a *Auditor) auditCandidate(root string, cand skill.Candidate) result {
	if !cand.HasSkill {
		return result{findings: []finding.Finding{missingSkillFile(cand)}}
	}

	pkg, findings, err := a.Load(root, cand)
	if err != nil {
		return result{err: err}
	}
	if pkg != nil {
		a.logger.Debug("validating skill",
			"skill", cand.Name,
			"references", len(pkg.References),
			"rules", len(pkg.Rules))
		findings = append(findings, a.validator.Validate(pkg)...)
	}
	return result{findings: findings}
}

// Load reads and parses one skill folder into a Package with its body
// links resolved. The returned findings cover content problems; a SKILL.md
// that cannot be parsed yields a nil package with the failure recorded,
// since the remaining checks need parsed content. The error return is
// reserved for filesystem failures, which abort the whole run.
func (a *Auditor) Load(root string, cand skill.Candidate) (*skill.Package, []finding.Finding, error) {
	relSkill := path.Join(cand.Dir, skill.FileName)

	data, err := fileutil.ReadFileWithLimit(filepath.Join(root, cand.Name, skill.FileName))
	if err != nil {
		switch {
		case errors.Is(err, fileutil.ErrFileTooLarge):
			return nil, []finding.Finding{{
				Skill:    cand.Name,
				Severity: finding.SeverityError,
				Kind:     finding.KindFileTooLarge,
				Message:  fmt.Sprintf("SKILL.md exceeds the %d byte read limit", fileutil.MaxFileSize),
				Path:     relSkill,
			}}, nil
		case errors.Is(err, fs.ErrNotExist):
			// The folder changed between scan and load.
			return nil, []finding.Finding{missingSkillFile(cand)}, nil
		default:
			return nil, nil, errors.Wrapf(err, "reading %s", relSkill)
		}
	}

	res, err := a.parser.ParseBytes(data, relSkill)
	if err != nil {
		return nil, []finding.Finding{parseFinding(cand.Name, relSkill, err)}, nil
	}

	pkg := &skill.Package{
		Name:          res.Meta.Name,
		Folder:        cand.Name,
		Dir:           cand.Dir,
		SkillFile:     relSkill,
		Meta:          res.Meta,
		Body:          res.Body,
		BodyLineCount: res.BodyLineCount,
		Unknown:       res.Unknown,
	}

	doc := links.Parse([]byte(res.Body))
	pkg.BodyHeadings = doc.Headings
	pkg.BodyLinks = doc.Links

	refFindings, err := a.loadReferences(root, pkg)
	if err != nil {
		return nil, nil, err
	}
	ruleFindings, err := a.loadRules(root, pkg)
	if err != nil {
		return nil, nil, err
	}

	resolved, _ := links.Resolve(pkg)
	pkg.Links = resolved

	return pkg, append(refFindings, ruleFindings...), nil
}

// loadReferences records every Markdown file under references/ with the
// line count and heading data the TOC check needs.
func (a *Auditor) loadReferences(root string, pkg *skill.Package) ([]finding.Finding, error) {
	dir := filepath.Join(root, pkg.Folder, skill.ReferencesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", pkg.RelPath(skill.ReferencesDir))
	}

	var findings []finding.Finding
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}
		relPath := pkg.RelPath(skill.ReferencesDir, name)

		data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, fileutil.ErrFileTooLarge) {
				findings = append(findings, finding.Finding{
					Skill:    pkg.Folder,
					Severity: finding.SeverityError,
					Kind:     finding.KindFileTooLarge,
					Message:  fmt.Sprintf("%s exceeds the %d byte read limit", name, fileutil.MaxFileSize),
					Path:     relPath,
				})
				continue
			}
			return nil, errors.Wrapf(err, "reading %s", relPath)
		}

		refDoc := links.Parse(data)
		pkg.References = append(pkg.References, skill.ReferenceFile{
			Path:      relPath,
			Name:      name,
			LineCount: parser.CountLines(data),
			HasTOC:    links.HasTOC(refDoc.Headings),
		})
	}
	return findings, nil
}

// loadRules parses the frontmatter of each rule file under rules/. The
// underscore files (_sections.md, _template.md) are recorded as link
// targets but carry no rule frontmatter to parse.
func (a *Auditor) loadRules(root string, pkg *skill.Package) ([]finding.Finding, error) {
	dir := filepath.Join(root, pkg.Folder, skill.RulesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", pkg.RelPath(skill.RulesDir))
	}

	var findings []finding.Finding
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}
		pkg.RuleFiles = append(pkg.RuleFiles, name)
		if strings.HasPrefix(name, "_") {
			continue
		}
		relPath := pkg.RelPath(skill.RulesDir, name)

		data, err := fileutil.ReadFileWithLimit(filepath.Join(dir, name))
		if err != nil {
			if errors.Is(err, fileutil.ErrFileTooLarge) {
				findings = append(findings, finding.Finding{
					Skill:    pkg.Folder,
					Severity: finding.SeverityError,
					Kind:     finding.KindFileTooLarge,
					Message:  fmt.Sprintf("%s exceeds the %d byte read limit", name, fileutil.MaxFileSize),
					Path:     relPath,
				})
				continue
			}
			return nil, errors.Wrapf(err, "reading %s", relPath)
		}

		rule := skill.Rule{Path: relPath, Name: name}
		res, err := a.parser.ParseRuleBytes(data, relPath)
		if err != nil {
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				rule.Err = perr.Err
			} else {
				rule.Err = err
			}
		} else {
			rule.Meta = res.Meta
			rule.Unknown = res.Unknown
		}
		pkg.Rules = append(pkg.Rules, rule)
	}
	return findings, nil
}

// missingSkillFile is the finding for a folder with no SKILL.md inside.
func missingSkillFile(cand skill.Candidate) finding.Finding {
	return finding.Finding{
		Skill:    cand.Name,
		Severity: finding.SeverityWarning,
		Kind:     finding.KindMissingSkillFile,
		Message:  "folder has no SKILL.md and will not be recognized as a skill",
		Path:     cand.Dir,
	}
}

// parseFinding classifies a SKILL.md content failure. Filesystem errors
// never reach here; ParseBytes only fails on the content itself.
func parseFinding(name, relPath string, err error) finding.Finding {
	f := finding.Finding{
		Skill:    name,
		Severity: finding.SeverityError,
		Path:     relPath,
	}
	switch {
	case errors.Is(err, frontmatter.ErrMissingFrontmatter):
		f.Kind = finding.KindMissingFrontmatter
		f.Message = "SKILL.md has no frontmatter block and will not be recognized"
	case errors.Is(err, frontmatter.ErrUnterminatedFrontmatter):
		f.Kind = finding.KindInvalidFrontmatter
		f.Message = "frontmatter is missing its closing delimiter"
	default:
		cause := err
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			cause = perr.Err
		}
		f.Kind = finding.KindInvalidFrontmatter
		f.Message = fmt.Sprintf("invalid frontmatter: %v", cause)
	}
	return f
}
