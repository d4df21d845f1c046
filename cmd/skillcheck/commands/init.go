package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillcheck/internal/skill"
	"github.com/thoreinstein/skillcheck/pkg/fileutil"
	"github.com/thoreinstein/skillcheck/pkg/frontmatter"
)

var (
	initName        string
	initDescription string
	initDirs        string
	initForce       bool
)

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "skill name (required)")
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "", "skill description")
	initCmd.Flags().StringVar(&initDirs, "dirs", "", "comma-separated list of optional directories to create (references, rules)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing SKILL.md")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [folder]",
	Short: "Create a new skill interactively",
	Long: `Create a new skill folder with a scaffolded SKILL.md file.

If [folder] is provided, the skill is created there and the folder
basename becomes the skill name. If no folder is provided, a folder
named after the skill is created in the current directory.

The command is interactive and will prompt for skill details unless
they are provided via flags.`,
	Example: `  # Create ./my-skill, interactive prompts
  skillcheck init

  # Create a specific folder with optional subdirectories
  skillcheck init my-skill --dirs references,rules

  # Non-interactive creation
  skillcheck init my-skill --name my-skill --description "Convex schema guidance"

  See Also:
    skillcheck validate - Validate skills under a root
    skillcheck show     - Display one skill`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

// skillNameRegex enforces kebab-case names: lowercase alphanumeric
// segments separated by single hyphens. No leading, trailing, or
// consecutive hyphens are allowed.
var skillNameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// skillNameSanitizer matches characters that are not allowed in a skill name.
var skillNameSanitizer = regexp.MustCompile(`[^a-z0-9-]+`)

// errInitFailed is a sentinel error that signals non-zero exit.
var errInitFailed = errors.New("skill initialization failed")

func sanitizeDefaultName(name string) string {
	// Normalize to lowercase and replace invalid characters with hyphens.
	sanitized := strings.ToLower(name)
	sanitized = skillNameSanitizer.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")

	// Fallback to a safe default if the result is empty or still invalid.
	if sanitized == "" || !skillNameRegex.MatchString(sanitized) {
		return "new-skill"
	}

	return sanitized
}

func runInit(_ *cobra.Command, args []string) error {
	// Determine default name
	defaultName := "my-skill"
	if len(args) > 0 {
		defaultName = sanitizeDefaultName(filepath.Base(args[0]))
	}

	// Interactive prompts
	scanner := bufio.NewScanner(os.Stdin)

	name := initName
	if name == "" {
		name = prompt(scanner, "Skill Name", defaultName)
	}

	// Validate name immediately
	if err := validateSkillName(name); err != nil {
		fmt.Printf("Error: %s\n", err)
		return errInitFailed
	}

	// Determine final path
	var absPath string
	var err error
	if len(args) > 0 {
		// User provided a folder, use it directly
		absPath, err = filepath.Abs(args[0])
	} else {
		// User provided no folder, create a subdirectory with the skill name
		absPath, err = filepath.Abs(name)
	}
	if err != nil {
		return errors.Wrap(err, "resolving path")
	}
	targetDir := absPath // for display purposes

	// The folder name is the skill identity on disk; a mismatch would
	// fail validation immediately.
	if filepath.Base(absPath) != name {
		fmt.Printf("Error: skill name %q does not match folder name %q\n", name, filepath.Base(absPath))
		return errInitFailed
	}

	description := initDescription
	if description == "" {
		description = prompt(scanner, "Description", "A helpful skill")
	}

	// Determine optional directories
	knownDirs := []string{skill.ReferencesDir, skill.RulesDir}
	selectedDirs := make(map[string]bool)

	if initDirs != "" {
		for _, d := range strings.Split(initDirs, ",") {
			d = strings.TrimSpace(d)
			if d != "" {
				selectedDirs[d] = true
			}
		}
	} else {
		fmt.Println("\nOptional Directories:")
		for _, d := range knownDirs {
			if promptBool(scanner, fmt.Sprintf("Create '%s' directory?", d), false) {
				selectedDirs[d] = true
			}
		}
	}

	// Create directory if it doesn't exist
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		fmt.Printf("Creating directory %s...\n", targetDir)
		if err := os.MkdirAll(absPath, 0o755); err != nil {
			return errors.Wrap(err, "creating directory")
		}
	}

	skillFile := filepath.Join(absPath, skill.FileName)
	if _, err := os.Stat(skillFile); err == nil {
		if !initForce {
			fmt.Printf("Error: %s/%s already exists (use --force to overwrite)\n", targetDir, skill.FileName)
			return errInitFailed
		}
	}

	fmt.Printf("Writing %s...\n", skill.FileName)

	// Generate content
	body := `# Instructions

Describe what this skill covers and how to apply it.

## Guidelines

- Guideline 1
- Guideline 2

## Examples

When asked to [do something], you should...
`

	meta := skill.Metadata{
		Name:        name,
		Description: description,
	}

	content, err := frontmatter.Format(meta, body)
	if err != nil {
		return errors.Wrap(err, "generating template")
	}

	if err := fileutil.AtomicWriteFile(skillFile, content, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", skill.FileName)
	}

	// Create optional directories
	if len(selectedDirs) > 0 {
		fmt.Println("Creating optional directories...")
		for dir := range selectedDirs {
			fullPath := filepath.Join(absPath, dir)
			if err := os.MkdirAll(fullPath, 0o755); err != nil {
				return errors.Wrapf(err, "creating %s", dir)
			}
			if dir == skill.RulesDir {
				// Seed authoring files; underscore files are skipped
				// by validation.
				sectionsFile := filepath.Join(fullPath, skill.SectionsFile)
				if err := fileutil.AtomicWriteFile(sectionsFile, []byte(sectionsTemplate), 0o644); err != nil {
					return errors.Wrapf(err, "creating %s in %s", skill.SectionsFile, dir)
				}
				templateFile := filepath.Join(fullPath, skill.TemplateFile)
				if err := fileutil.AtomicWriteFile(templateFile, []byte(ruleTemplate), 0o644); err != nil {
					return errors.Wrapf(err, "creating %s in %s", skill.TemplateFile, dir)
				}
				continue
			}
			keepFile := filepath.Join(fullPath, ".keep")
			if err := os.WriteFile(keepFile, []byte(""), 0o644); err != nil {
				return errors.Wrapf(err, "creating .keep in %s", dir)
			}
		}
	}

	// Print success message
	fmt.Printf("✓ Skill '%s' created at %s\n", name, skillFile)
	fmt.Println()
	fmt.Println("  Next steps:")
	fmt.Printf("    1. Edit %s with your skill's instructions\n", skillFile)
	fmt.Printf("    2. Run: skillcheck validate %s\n", filepath.Dir(targetDir))

	return nil
}

// ruleTemplate seeds rules/_template.md for new skills.
const ruleTemplate = `---
title: <short imperative, e.g. "Never commit secrets">
impact: <CRITICAL | HIGH | MEDIUM | LOW>
tags: []
---

Explain the rule, why it matters, and what to do instead.
`

// sectionsTemplate seeds rules/_sections.md for new skills.
const sectionsTemplate = `# Sections

List the rule groupings in reading order, one per line.

1. Safety
2. Conventions
`

func prompt(scanner *bufio.Scanner, label, def string) string {
	fmt.Printf("%s", label)
	if def != "" {
		fmt.Printf(" [%s]", def)
	}
	fmt.Print(": ")

	if !scanner.Scan() {
		return def
	}
	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return def
	}
	return input
}

func promptBool(scanner *bufio.Scanner, label string, def bool) bool {
	defStr := "y/N"
	if def {
		defStr = "Y/n"
	}
	fmt.Printf("%s [%s]: ", label, defStr)

	if !scanner.Scan() {
		return def
	}
	input := strings.TrimSpace(strings.ToLower(scanner.Text()))
	if input == "" {
		return def
	}
	return input == "y" || input == "yes"
}

// validateSkillName checks that a name can pass validation later.
func validateSkillName(name string) error {
	if name == "" {
		return errors.New("skill name is required")
	}

	if len(name) > 64 {
		return errors.Newf("skill name must be at most 64 characters (got %d)", len(name))
	}

	if !skillNameRegex.MatchString(name) {
		return errors.New("skill name must be kebab-case: lowercase letters, digits, and single hyphens")
	}

	return nil
}
