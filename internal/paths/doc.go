// Package paths provides path resolution utilities for the skillcheck CLI.
//
// It resolves the skills scan root from CLI arguments and configuration,
// locates the configuration directory, and offers small filesystem helpers
// shared by the commands.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, config paths follow XDG
// conventions (~/.config/skillcheck).
//
// # Root Resolution
//
// The scan root is chosen in precedence order: positional argument, then
// configured value, then the conventional "skills" directory:
//
//	root := paths.ResolveRoot(args[0], cfg.Root)
//
// Resolution keeps relative paths relative so finding paths are stable
// across machines; existence is validated by the scanner.
package paths
