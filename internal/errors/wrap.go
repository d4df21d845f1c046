package errors

import (
	"github.com/cockroachdb/errors"
)

// Re-exports from cockroachdb/errors so call sites only import this package.
// Wrapped errors carry stack traces and support errors.Is/As chains.

// New creates an error with a stack trace.
func New(msg string) error {
	return errors.New(msg)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...any) error {
	return errors.Newf(format, args...)
}

// Errorf is an alias for Newf matching the fmt.Errorf signature.
func Errorf(format string, args ...any) error {
	return errors.Errorf(format, args...)
}

// Wrap annotates err with a message. Returns nil if err is nil.
func Wrap(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// Wrapf annotates err with a formatted message. Returns nil if err is nil.
func Wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
