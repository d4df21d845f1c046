package commands

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillcheck/internal/audit"
	"github.com/thoreinstein/skillcheck/internal/config"
	"github.com/thoreinstein/skillcheck/internal/errors"
	"github.com/thoreinstein/skillcheck/internal/finding"
	"github.com/thoreinstein/skillcheck/internal/logging"
	"github.com/thoreinstein/skillcheck/internal/paths"
	"github.com/thoreinstein/skillcheck/internal/skill/validator"
	"github.com/thoreinstein/skillcheck/internal/waiver"
	"github.com/thoreinstein/skillcheck/pkg/fileutil"
)

var (
	validateStrict  bool
	validateJSON    bool
	validateJobs    int
	validateWaivers string
	validateOutput  string
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false,
		"treat warnings as errors")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false,
		"output the report as JSON")
	validateCmd.Flags().IntVar(&validateJobs, "jobs", 0,
		"number of skills validated concurrently (0 uses all CPUs)")
	validateCmd.Flags().StringVar(&validateWaivers, "waivers", "",
		"TOML file of findings to waive")
	validateCmd.Flags().StringVar(&validateOutput, "output", "",
		"write the report to a file instead of stdout")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [root]",
	Short: "Validate every skill under a root directory",
	Long: `Validate every skill package under a root directory.

Each immediate subdirectory of the root is treated as a skill candidate.
A candidate must contain a SKILL.md with YAML frontmatter; skillcheck
checks its name and description, body length, reference links,
references/ orphans, and rules/ metadata. Findings from one skill never
stop the others from being checked.

The root defaults to the configured root (skills/ when unset).

Exit codes:
  0 - No errors (warnings allowed unless --strict)
  1 - Findings failed the run
  2 - The run itself failed`,
	Example: `  skillcheck validate
  skillcheck validate ./packages --strict
  skillcheck validate --json --jobs 4
  skillcheck validate --json --output report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()

	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	root := paths.ResolveRoot(arg, cfg.Root)

	strict := cfg.Strict
	if cmd.Flags().Changed("strict") {
		strict = validateStrict
	}
	format := cfg.Format
	if validateJSON {
		format = config.FormatJSON
	}
	jobs := cfg.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs = validateJobs
	}
	waiversPath := cfg.Waivers
	if cmd.Flags().Changed("waivers") {
		waiversPath = validateWaivers
	}

	opts := []audit.Option{
		audit.WithLogger(logging.FromContext(cmd.Context())),
	}
	if jobs > 0 {
		opts = append(opts, audit.WithJobs(jobs))
	}
	if lim := limitsFromConfig(cfg.Limits); lim != (validator.Limits{}) {
		opts = append(opts, audit.WithLimits(lim))
	}

	rep, err := audit.New(opts...).Run(cmd.Context(), root)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidRoot) {
			return errors.NewUserError(err, "Pass a directory whose immediate subdirectories are skills")
		}
		return errors.NewExitError(err, errors.ExitSystem)
	}

	if waiversPath != "" {
		set, err := waiver.Load(waiversPath)
		if err != nil {
			return errors.NewUserError(errors.Wrapf(err, "loading waivers from %s", waiversPath),
				"Check the waivers file syntax")
		}
		set.Apply(rep)
	}

	out := cmd.OutOrStdout()
	var buf bytes.Buffer
	if validateOutput != "" {
		out = &buf
	}
	reporter := finding.NewReporter(out, finding.Format(format))
	reporter.Strict = strict
	if err := reporter.Report(rep); err != nil {
		return errors.NewExitError(err, errors.ExitSystem)
	}
	if validateOutput != "" {
		if err := fileutil.AtomicWriteFile(validateOutput, buf.Bytes(), 0644); err != nil {
			return errors.NewExitError(errors.Wrapf(err, "writing report to %s", validateOutput), errors.ExitSystem)
		}
	}

	if rep.Failed(strict) {
		// The report already went to stdout; signal the exit code only.
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}

// limitsFromConfig maps configured limit overrides onto the validator.
// Zero fields keep the validator defaults.
func limitsFromConfig(l config.Limits) validator.Limits {
	return validator.Limits{
		NameLength:        l.NameLength,
		DescriptionLength: l.DescriptionLength,
		BodyLines:         l.BodyLines,
		TOCLines:          l.TOCLines,
	}
}
