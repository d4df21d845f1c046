// Package config provides configuration management for the skillcheck CLI.
//
// This package handles loading and validating the tool's own configuration
// file. It is distinct from the skill content under the scan root, which is
// read by the audit pipeline.
//
// # Configuration File
//
// The default configuration file location is ~/.config/skillcheck/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	root: skills          # default scan root
//	strict: true          # warnings fail the run
//	format: text          # text or json
//	jobs: 4               # 0 means one worker per CPU
//	waivers: waivers.toml # optional finding exemptions
//	limits:
//	  name_length: 64
//	  description_length: 1024
//	  body_lines: 500
//	  toc_lines: 100
//
// All limit fields are optional; zero values keep the built-in defaults.
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load(flagConfigPath)
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// With an empty path, Load searches the current directory and then the
// user config directory, falling back to defaults when no file exists.
// With an explicit path, a missing file is an error.
//
// Every setting can also come from the environment with the SKILLCHECK
// prefix, so SKILLCHECK_ROOT=packages overrides the root field.
//
// # Validation
//
// Load validates automatically. [Validate] is exported for checking a
// configuration built by hand:
//
//	errs := config.Validate(cfg)
//	for _, e := range errs {
//	    fmt.Println(e)
//	}
package config
