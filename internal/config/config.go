// Package config provides configuration management for skillcheck using Viper.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/thoreinstein/skillcheck/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = "skillcheck"

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Output formats for validation reports.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formats lists the recognized output formats.
var Formats = []string{FormatText, FormatJSON}

// ValidFormat reports whether format is a recognized output format.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if format == f {
			return true
		}
	}
	return false
}

// Config represents the top-level configuration structure.
type Config struct {
	Version int    `mapstructure:"version" yaml:"version"`
	Root    string `mapstructure:"root" yaml:"root"`
	Strict  bool   `mapstructure:"strict" yaml:"strict"`
	Format  string `mapstructure:"format" yaml:"format"`
	Jobs    int    `mapstructure:"jobs" yaml:"jobs"`
	Waivers string `mapstructure:"waivers" yaml:"waivers"`
	Limits  Limits `mapstructure:"limits" yaml:"limits"`
}

// Limits overrides the validation thresholds. Zero values keep the
// built-in defaults.
type Limits struct {
	NameLength        int `mapstructure:"name_length" yaml:"name_length"`
	DescriptionLength int `mapstructure:"description_length" yaml:"description_length"`
	BodyLines         int `mapstructure:"body_lines" yaml:"body_lines"`
	TOCLines          int `mapstructure:"toc_lines" yaml:"toc_lines"`
}

// Init initializes Viper with default configuration, clearing any state
// from a previous call. Call this once at application startup before
// accessing config values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	if dir := os.Getenv("SKILLCHECK_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	} else {
		viper.AddConfigPath(paths.ConfigDir())
	}

	// Environment variable support
	viper.SetEnvPrefix("SKILLCHECK")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("root", paths.DefaultRoot)
	viper.SetDefault("format", FormatText)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errs[0])
	}

	return &cfg, nil
}
