package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultRoot is the conventional skills directory name, used when neither
// a positional argument nor configuration names a scan root.
const DefaultRoot = "skills"

// DefaultDirPerm is the default permission for newly created directories.
// Skill repositories are shared content, so world-readable is the default.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0755) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// This is a thin wrapper around os.UserHomeDir for consistency.
// Note: It returns an empty string on error.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ExpandHome expands a leading "~" or "~/" in path to the user's home
// directory. Paths without a tilde prefix are returned unchanged.
// Returns ErrHomeDirNotFound if expansion is needed but the home directory
// cannot be determined.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// ConfigDir returns the skillcheck configuration directory under the XDG
// config home.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "skillcheck")
}

// DefaultConfigFile returns the default path of the skillcheck config file.
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ResolveRoot picks the scan root from the positional argument, then the
// configured value, then DefaultRoot. The result is cleaned but kept
// relative if given relative, so reported file paths stay stable across
// machines. Existence is checked by the scanner, not here.
func ResolveRoot(arg, configured string) string {
	switch {
	case arg != "":
		return filepath.Clean(arg)
	case configured != "":
		return filepath.Clean(configured)
	default:
		return DefaultRoot
	}
}
