package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillcheck/internal/audit"
	"github.com/thoreinstein/skillcheck/internal/errors"
	"github.com/thoreinstein/skillcheck/internal/finding"
	"github.com/thoreinstein/skillcheck/internal/logging"
	"github.com/thoreinstein/skillcheck/internal/paths"
	"github.com/thoreinstein/skillcheck/internal/skill"
	"github.com/thoreinstein/skillcheck/internal/skill/parser"
)

const defaultBodyPreviewLength = 200

var (
	showJSON bool
	showFull bool
	showRoot string
)

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showFull, "full", false, "Show the complete body (default truncated)")
	showCmd.Flags().StringVar(&showRoot, "root", "", "skills root directory (default: configured root)")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [folder]",
	Short: "Display detailed skill information",
	Long: `Display detailed information about one skill.

The skill is addressed by its folder name under the root. When the
folder is omitted and stdout is a terminal, an interactive picker is
opened instead.

Shows frontmatter, body size, references/ documents, rules/ metadata,
resolved body links, and any findings for this skill.

Examples:
  skillcheck show convex
  skillcheck show convex --full
  skillcheck show convex --json
  skillcheck show --root ./packages`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	root := paths.ResolveRoot(showRoot, currentConfig().Root)

	candidates, err := skill.Scan(root)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRoot) {
			return errors.NewUserError(err, "Pass a directory whose immediate subdirectories are skills")
		}
		return errors.NewExitError(err, errors.ExitSystem)
	}

	var folder string
	if len(args) > 0 {
		folder = args[0]
	} else {
		folder, err = pickSkill(cmd.OutOrStdout(), root, candidates)
		if err != nil {
			return err
		}
		if folder == "" {
			// Picker aborted
			return nil
		}
	}

	var cand *skill.Candidate
	for i := range candidates {
		if candidates[i].Name == folder {
			cand = &candidates[i]
			break
		}
	}
	if cand == nil {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s under %s", folder, root),
			"Run 'skillcheck list' to see available skills")
	}
	if !cand.HasSkill {
		return errors.NewUserError(errors.Newf("folder %s has no %s", folder, skill.FileName),
			"Run 'skillcheck init' to scaffold one")
	}

	auditor := audit.New(audit.WithLogger(logging.FromContext(cmd.Context())))
	pkg, findings, err := auditor.Load(root, *cand)
	if err != nil {
		return errors.NewExitError(err, errors.ExitSystem)
	}
	if pkg == nil {
		// Parsing failed; the findings carry the diagnosis.
		for _, f := range findings {
			fmt.Fprintf(cmd.OutOrStdout(), "✗ %s: %s\n", f.Skill, f.Message)
		}
		return errors.NewUserError(nil, "Run 'skillcheck validate' for the full report")
	}

	if showJSON {
		return outputShowJSON(cmd.OutOrStdout(), pkg, findings)
	}
	return outputShowText(cmd.OutOrStdout(), pkg, findings)
}

// pickSkill opens an interactive picker over the scanned candidates.
// Returns the chosen folder name, or "" when the picker was aborted.
func pickSkill(w io.Writer, root string, candidates []skill.Candidate) (string, error) {
	if !logging.IsTTY(os.Stdout) {
		return "", errors.NewUserError(nil, "Pass a skill folder name (interactive picking needs a terminal)")
	}
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No skills found.")
		return "", nil
	}

	// Preload headers so the preview has something to show
	headers := make([]skill.Metadata, len(candidates))
	p := parser.New()
	for i, cand := range candidates {
		if !cand.HasSkill {
			continue
		}
		if meta, err := p.ParseHeader(filepath.Join(root, cand.Dir, skill.FileName)); err == nil {
			headers[i] = *meta
		}
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i].Name
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			if !candidates[i].HasSkill {
				return fmt.Sprintf("Folder: %s\n\n(no %s)", candidates[i].Name, skill.FileName)
			}
			return fmt.Sprintf("Folder: %s\nName: %s\n\nDescription:\n%s",
				candidates[i].Name,
				headers[i].Name,
				headers[i].Description,
			)
		}),
	)

	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", nil
		}
		return "", errors.Wrap(err, "interactive skill picking failed")
	}

	return candidates[idx].Name, nil
}

// showOutput is the JSON output shape of the show command.
type showOutput struct {
	Skill    *skill.Package    `json:"skill"`
	Findings []finding.Finding `json:"findings,omitempty"`
}

func outputShowJSON(w io.Writer, pkg *skill.Package, findings []finding.Finding) error {
	data, err := json.MarshalIndent(showOutput{Skill: pkg, Findings: findings}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func outputShowText(w io.Writer, pkg *skill.Package, findings []finding.Finding) error {
	fmt.Fprintf(w, "Skill: %s\n", pkg.Name)
	fmt.Fprintf(w, "Folder: %s\n", pkg.Folder)

	if pkg.Meta.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", pkg.Meta.Description)
	}
	fmt.Fprintf(w, "Body: %d line(s)\n", pkg.BodyLineCount)

	if len(pkg.References) > 0 {
		fmt.Fprintln(w, "\nReferences:")
		for _, ref := range pkg.References {
			extra := ""
			if ref.HasTOC {
				extra = ", TOC"
			}
			fmt.Fprintf(w, "  - %s (%d lines%s)\n", ref.Name, ref.LineCount, extra)
		}
	}

	if len(pkg.Rules) > 0 {
		fmt.Fprintln(w, "\nRules:")
		for _, rule := range pkg.Rules {
			if rule.Err != nil {
				fmt.Fprintf(w, "  - %s (unparseable: %v)\n", rule.Name, rule.Err)
				continue
			}
			line := fmt.Sprintf("  - %s [%s] %s", rule.Name, rule.Meta.Impact, rule.Meta.Title)
			if len(rule.Meta.Tags) > 0 {
				line += fmt.Sprintf(" (tags: %s)", strings.Join(rule.Meta.Tags, ", "))
			}
			fmt.Fprintln(w, line)
		}
	}

	if len(pkg.Links) > 0 {
		fmt.Fprintln(w, "\nLinks:")
		for _, link := range pkg.Links {
			if link.Exists {
				fmt.Fprintf(w, "  ✓ %s\n", link.TargetPath)
			} else {
				fmt.Fprintf(w, "  ✗ %s (broken)\n", link.TargetPath)
			}
		}
	}

	if body := strings.TrimSpace(pkg.Body); body != "" {
		if !showFull && len(body) > defaultBodyPreviewLength {
			body = body[:defaultBodyPreviewLength]
		}
		fmt.Fprintln(w, "\nBody Preview:")
		for _, line := range strings.Split(body, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		if !showFull && len(strings.TrimSpace(pkg.Body)) > defaultBodyPreviewLength {
			fmt.Fprintln(w, "  [truncated, use --full for complete output]")
		}
	}

	if len(findings) > 0 {
		fmt.Fprintf(w, "\nFindings: %d (run 'skillcheck validate' for the full report)\n", len(findings))
	}

	return nil
}
