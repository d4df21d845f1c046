// Package errors provides error handling conventions for the skillcheck CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, exit code constants
// following standard Unix conventions, and thin re-exports of the
// cockroachdb/errors wrapping helpers so the rest of the codebase only
// imports one errors package.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
// The package defines standard exit codes for CLI applications:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, error findings, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [Unwrap] and [As]:
//
//	err := errors.NewUserError(errors.ErrInvalidConfig, "Check your config file")
//	var exitErr *errors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
