package commands

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/skillcheck/internal/config"
	"github.com/thoreinstein/skillcheck/internal/paths"
	"github.com/thoreinstein/skillcheck/pkg/fileutil"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage skillcheck configuration",
	Long: `Manage skillcheck configuration stored in ~/.config/skillcheck/config.yaml.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  skillcheck config

  # Get a specific value
  skillcheck config get root

  # Set a value
  skillcheck config set strict true

See Also: skillcheck validate`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys like limits.body_lines.`,
	Example: `  # Get the skills root
  skillcheck config get root

  # Get a nested limit
  skillcheck config get limits.body_lines

See Also: skillcheck config set, skillcheck config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

Numeric keys (version, jobs, limits.*) take integers, strict takes a
boolean, and format must be one of text, json.`,
	Example: `  # Point at another skills root
  skillcheck config set root ./packages

  # Fail on warnings by default
  skillcheck config set strict true

  # Raise the body length limit
  skillcheck config set limits.body_lines 800

See Also: skillcheck config get, skillcheck config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  # List all configuration
  skillcheck config list

See Also: skillcheck config get, skillcheck config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR environment variable, or falls back to vi.
If no configuration file exists, one is written with the current values
first.`,
	Example: `  # Open config in default editor
  skillcheck config edit

  # Open with specific editor
  EDITOR=nano skillcheck config edit

See Also: skillcheck config list`,
	RunE: runConfigEdit,
}

// intKeys are configuration keys that hold integers.
var intKeys = map[string]bool{
	"version":                   true,
	"jobs":                      true,
	"limits.name_length":        true,
	"limits.description_length": true,
	"limits.body_lines":         true,
	"limits.toc_lines":          true,
}

func runConfigGet(_ *cobra.Command, args []string) error {
	key := args[0]

	// Check if value exists
	if !viper.IsSet(key) {
		fmt.Println("not set")
		return nil
	}

	fmt.Println(viper.GetString(key))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	switch {
	case intKeys[key]:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Newf("%s takes an integer, got %q", key, value)
		}
		viper.Set(key, n)

	case key == "strict":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Newf("strict takes a boolean, got %q", value)
		}
		viper.Set(key, b)

	case key == "format":
		if !config.ValidFormat(value) {
			return errors.Newf("invalid format %q (valid: %s)",
				value, strings.Join(config.Formats, ", "))
		}
		viper.Set(key, value)

	case key == "root" || key == "waivers":
		viper.Set(key, value)

	default:
		return errors.Newf("unknown configuration key %q", key)
	}

	if err := writeConfig(); err != nil {
		return err
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(currentConfigMap())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	fmt.Print(string(data))
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := paths.DefaultConfigFile()

	// Seed the file so the editor has something to open
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := writeConfig(); err != nil {
			return err
		}
	}

	// Get editor from environment
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	// Launch editor
	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}

	return nil
}

// currentConfigMap builds the persistable configuration from viper.
func currentConfigMap() map[string]any {
	cfg := map[string]any{
		"version": viper.GetInt("version"),
		"root":    viper.GetString("root"),
		"strict":  viper.GetBool("strict"),
		"format":  viper.GetString("format"),
	}
	if jobs := viper.GetInt("jobs"); jobs > 0 {
		cfg["jobs"] = jobs
	}
	if waivers := viper.GetString("waivers"); waivers != "" {
		cfg["waivers"] = waivers
	}

	limits := map[string]int{}
	for _, k := range []string{"name_length", "description_length", "body_lines", "toc_lines"} {
		if v := viper.GetInt("limits." + k); v > 0 {
			limits[k] = v
		}
	}
	if len(limits) > 0 {
		cfg["limits"] = limits
	}

	return cfg
}

// writeConfig writes the current viper configuration to the config file.
func writeConfig() error {
	configPath := paths.DefaultConfigFile()

	// Ensure directory exists
	if err := paths.EnsureDir(paths.ConfigDir(), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := fileutil.AtomicWriteYAML(configPath, currentConfigMap()); err != nil {
		return errors.Wrap(err, "writing config file")
	}

	return nil
}
