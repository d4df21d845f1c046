package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillcheck/internal/paths"
	"github.com/thoreinstein/skillcheck/internal/skill"
	"github.com/thoreinstein/skillcheck/internal/skill/parser"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List skills under a root directory",
	Long: `List the skills found under a root directory.

Each immediate subdirectory holding a SKILL.md is listed with the name
and description from its frontmatter. Folders without a SKILL.md and
files that fail to parse are shown so nothing silently disappears; run
'skillcheck validate' for the full diagnosis.

The root defaults to the configured root (skills/ when unset).

Examples:
  # List skills under the default root
  skillcheck list

  # List skills under another root
  skillcheck list ./packages

  # Output as JSON
  skillcheck list --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

// listEntry represents a skill in JSON output format.
type listEntry struct {
	Folder      string `json:"folder"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
}

// Status values for listEntry.
const (
	statusOK                 = "ok"
	statusNoSkillFile        = "no skill file"
	statusInvalidFrontmatter = "invalid frontmatter"
)

func runList(cmd *cobra.Command, args []string) error {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	root := paths.ResolveRoot(arg, currentConfig().Root)
	return runListWithWriter(cmd.OutOrStdout(), root)
}

// runListWithWriter allows injecting a writer for testing.
func runListWithWriter(w io.Writer, root string) error {
	candidates, err := skill.Scan(root)
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(candidates))
	p := parser.New()
	for _, cand := range candidates {
		entry := listEntry{Folder: cand.Name, Status: statusOK}
		if !cand.HasSkill {
			entry.Status = statusNoSkillFile
			entries = append(entries, entry)
			continue
		}

		meta, err := p.ParseHeader(filepath.Join(root, cand.Dir, skill.FileName))
		if err != nil {
			entry.Status = statusInvalidFrontmatter
			entries = append(entries, entry)
			continue
		}

		entry.Name = meta.Name
		entry.Description = meta.Description
		entries = append(entries, entry)
	}

	if listJSON {
		return outputListJSON(w, entries)
	}
	return outputListTabular(w, root, entries)
}

// outputListJSON outputs skills in JSON format.
func outputListJSON(w io.Writer, entries []listEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// outputListTabular outputs skills in tabular format.
func outputListTabular(w io.Writer, root string, entries []listEntry) error {
	fmt.Fprintf(w, "%sRoot: %s%s\n", colorCyan+colorBold, root, colorReset)

	if len(entries) == 0 {
		fmt.Fprintf(w, "  %s(no skills found)%s\n", colorGray, colorReset)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	// Table headers
	fmt.Fprintf(tw, "  %sFOLDER%s\t%sNAME%s\t%sDESCRIPTION%s\n",
		colorBold, colorReset, colorBold, colorReset, colorBold, colorReset)

	for _, e := range entries {
		switch e.Status {
		case statusOK:
			desc := truncate(e.Description, 80)
			fmt.Fprintf(tw, "  %s%s%s\t%s\t%s\n", colorGreen, e.Folder, colorReset, e.Name, desc)
		default:
			fmt.Fprintf(tw, "  %s%s%s\t%s(%s)%s\t\n", colorYellow, e.Folder, colorReset, colorGray, e.Status, colorReset)
		}
	}
	return tw.Flush()
}
