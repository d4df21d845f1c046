package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// redirectConfigHome points the XDG config home at a temp directory so
// config writes land in the test's sandbox. The cleanup order matters:
// the env var is restored before xdg recomputes its paths.
func redirectConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", dir)
	xdg.Reload()
	return filepath.Join(dir, "skillcheck")
}

func TestConfigCommand_Metadata(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("Use = %q, want %q", configCmd.Use, "config")
	}
	if configCmd.Short == "" {
		t.Error("Short description is empty")
	}

	subs := map[string]bool{}
	for _, sub := range configCmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, want := range []string{"get", "set", "list", "edit"} {
		if !subs[want] {
			t.Errorf("config %s subcommand not registered", want)
		}
	}
}

func TestConfigGet(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		setupValue func()
		wantOutput string
	}{
		{
			name: "unset key prints not set",
			key:  "nonexistent_key",
			setupValue: func() {
				// Don't set anything
			},
			wantOutput: "not set\n",
		},
		{
			name: "string value prints the value",
			key:  "root",
			setupValue: func() {
				viper.Set("root", "./packages")
			},
			wantOutput: "./packages\n",
		},
		{
			name: "int value prints the value",
			key:  "jobs",
			setupValue: func() {
				viper.Set("jobs", 4)
			},
			wantOutput: "4\n",
		},
		{
			name: "nested limit key",
			key:  "limits.body_lines",
			setupValue: func() {
				viper.Set("limits.body_lines", 800)
			},
			wantOutput: "800\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			tt.setupValue()

			var err error
			got := captureStdout(t, func() {
				err = runConfigGet(nil, []string{tt.key})
			})
			if err != nil {
				t.Fatalf("runConfigGet() error = %v", err)
			}
			if got != tt.wantOutput {
				t.Errorf("runConfigGet(%q) output = %q, want %q", tt.key, got, tt.wantOutput)
			}
		})
	}
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		value       string
		wantErr     bool
		errContains string
		verify      func(t *testing.T)
	}{
		{
			name:  "strict takes a boolean",
			key:   "strict",
			value: "true",
			verify: func(t *testing.T) {
				t.Helper()
				if !viper.GetBool("strict") {
					t.Error("strict = false, want true")
				}
			},
		},
		{
			name:        "strict rejects non-boolean",
			key:         "strict",
			value:       "yes please",
			wantErr:     true,
			errContains: "strict takes a boolean",
		},
		{
			name:  "jobs takes an integer",
			key:   "jobs",
			value: "4",
			verify: func(t *testing.T) {
				t.Helper()
				if viper.GetInt("jobs") != 4 {
					t.Errorf("jobs = %d, want 4", viper.GetInt("jobs"))
				}
			},
		},
		{
			name:        "jobs rejects non-integer",
			key:         "jobs",
			value:       "many",
			wantErr:     true,
			errContains: "takes an integer",
		},
		{
			name:  "nested limit takes an integer",
			key:   "limits.body_lines",
			value: "800",
			verify: func(t *testing.T) {
				t.Helper()
				if viper.GetInt("limits.body_lines") != 800 {
					t.Errorf("limits.body_lines = %d, want 800", viper.GetInt("limits.body_lines"))
				}
			},
		},
		{
			name:  "format accepts json",
			key:   "format",
			value: "json",
			verify: func(t *testing.T) {
				t.Helper()
				if viper.GetString("format") != "json" {
					t.Errorf("format = %q, want %q", viper.GetString("format"), "json")
				}
			},
		},
		{
			name:        "format rejects unknown values",
			key:         "format",
			value:       "xml",
			wantErr:     true,
			errContains: "invalid format",
		},
		{
			name:  "root passes through as a string",
			key:   "root",
			value: "./packages",
			verify: func(t *testing.T) {
				t.Helper()
				if viper.GetString("root") != "./packages" {
					t.Errorf("root = %q, want %q", viper.GetString("root"), "./packages")
				}
			},
		},
		{
			name:        "unknown key is rejected",
			key:         "telemetry",
			value:       "on",
			wantErr:     true,
			errContains: "unknown configuration key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			redirectConfigHome(t)

			var err error
			output := captureStdout(t, func() {
				err = runConfigSet(nil, []string{tt.key, tt.value})
			})

			if tt.wantErr {
				if err == nil {
					t.Fatal("runConfigSet() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("runConfigSet() error = %q, want error containing %q",
						err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("runConfigSet() error = %v", err)
			}
			want := "Set " + tt.key + " = " + tt.value + "\n"
			if output != want {
				t.Errorf("runConfigSet() output = %q, want %q", output, want)
			}
			if tt.verify != nil {
				tt.verify(t)
			}
		})
	}
}

func TestConfigSet_ErrorListsValidFormats(t *testing.T) {
	viper.Reset()

	err := runConfigSet(nil, []string{"format", "xml"})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	for _, f := range []string{"text", "json"} {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("error should list valid format %q, got: %s", f, err.Error())
		}
	}
}

func TestConfigSet_WritesFile(t *testing.T) {
	viper.Reset()
	configDir := redirectConfigHome(t)

	_ = captureStdout(t, func() {
		if err := runConfigSet(nil, []string{"strict", "true"}); err != nil {
			t.Errorf("runConfigSet() error = %v", err)
		}
	})

	data, err := os.ReadFile(filepath.Join(configDir, "config.yaml"))
	if err != nil {
		t.Fatalf("config file was not written: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("config file is not valid YAML: %v", err)
	}
	if v, ok := parsed["strict"].(bool); !ok || !v {
		t.Errorf("strict = %v, want true", parsed["strict"])
	}
}

func TestConfigList(t *testing.T) {
	t.Run("outputs valid YAML", func(t *testing.T) {
		viper.Reset()
		viper.Set("version", 1)
		viper.Set("root", "skills")
		viper.Set("format", "text")

		var err error
		output := captureStdout(t, func() {
			err = runConfigList(nil, nil)
		})
		if err != nil {
			t.Fatalf("runConfigList() error = %v", err)
		}

		var parsed map[string]any
		if err := yaml.Unmarshal([]byte(output), &parsed); err != nil {
			t.Errorf("runConfigList() output is not valid YAML: %v\nOutput: %s", err, output)
		}
		for _, key := range []string{"version", "root", "strict", "format"} {
			if _, ok := parsed[key]; !ok {
				t.Errorf("runConfigList() output missing %q key", key)
			}
		}
	})

	t.Run("omits zero-value optional keys", func(t *testing.T) {
		viper.Reset()
		viper.Set("version", 1)

		output := captureStdout(t, func() {
			_ = runConfigList(nil, nil)
		})

		var parsed map[string]any
		if err := yaml.Unmarshal([]byte(output), &parsed); err != nil {
			t.Fatalf("YAML parse error: %v", err)
		}
		for _, key := range []string{"jobs", "waivers", "limits"} {
			if _, ok := parsed[key]; ok {
				t.Errorf("runConfigList() output should omit unset %q key", key)
			}
		}
	})

	t.Run("includes overrides when set", func(t *testing.T) {
		viper.Reset()
		viper.Set("version", 1)
		viper.Set("jobs", 4)
		viper.Set("limits.body_lines", 800)

		output := captureStdout(t, func() {
			_ = runConfigList(nil, nil)
		})

		var parsed map[string]any
		if err := yaml.Unmarshal([]byte(output), &parsed); err != nil {
			t.Fatalf("YAML parse error: %v", err)
		}
		if v, ok := parsed["jobs"].(int); !ok || v != 4 {
			t.Errorf("jobs = %v, want 4", parsed["jobs"])
		}
		limits, ok := parsed["limits"].(map[string]any)
		if !ok {
			t.Fatalf("limits type = %T, want map", parsed["limits"])
		}
		if v, ok := limits["body_lines"].(int); !ok || v != 800 {
			t.Errorf("limits.body_lines = %v, want 800", limits["body_lines"])
		}
	})
}
