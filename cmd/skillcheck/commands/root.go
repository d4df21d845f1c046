// Package commands implements the CLI commands for skillcheck.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/skillcheck/cmd"
	"github.com/thoreinstein/skillcheck/internal/config"
	"github.com/thoreinstein/skillcheck/internal/errors"
	"github.com/thoreinstein/skillcheck/internal/logging"
	"github.com/thoreinstein/skillcheck/internal/paths"
)

// cfgFile holds the value of the --config flag.
var cfgFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// loadedCfg holds the configuration loaded during initialization.
var loadedCfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches . and the user config dir)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	// Add version flag
	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("skillcheck version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	loadedCfg, configLoadErr = config.Load(cfgFile)
}

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Validate and manage skill packages",
	Long: `skillcheck validates skill packages: folders holding a SKILL.md with
YAML frontmatter, optional references/ documents, and optional rules/
files.

It checks naming and frontmatter conventions, body length, reference
links, and rule metadata, and reports findings as text or JSON. Each
skill is checked in isolation, so one broken skill never hides problems
in another.

Point it at a root directory whose immediate subdirectories are skills,
or rely on the configured root (skills/ by default).`,
	Example: `  # Validate the default skills/ root
  skillcheck validate

  # Validate another root and fail on warnings
  skillcheck validate ./packages --strict

  # Machine-readable report for CI
  skillcheck validate --json

  # Scaffold a new skill
  skillcheck init my-skill

  See Also: skillcheck list, skillcheck show, skillcheck config`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("SKILLCHECK_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces configuration load errors before a command runs.
func checkConfig(cmd *cobra.Command, _ []string) error {
	// Skip the check for commands that never read the config
	switch cmd.Name() {
	case "help", "version", "gen-doc":
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}

	return nil
}

// currentConfig returns the loaded configuration, falling back to
// defaults when loading never ran.
func currentConfig() *config.Config {
	if loadedCfg != nil {
		return loadedCfg
	}
	return &config.Config{
		Version: config.CurrentVersion,
		Root:    paths.DefaultRoot,
		Format:  config.FormatText,
	}
}

// Execute runs the root command.
func Execute() error {
	return errors.Wrap(rootCmd.Execute(), "executing root command")
}
