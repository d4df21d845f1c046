package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrUnsupportedVersion indicates a version from a newer release.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidFormat indicates an unrecognized output format.
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrInvalidJobs indicates a negative worker count.
	ErrInvalidJobs = errors.New("jobs must be >= 0")

	// ErrInvalidLimit indicates a negative validation threshold.
	ErrInvalidLimit = errors.New("limit must be >= 0")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	} else if cfg.Version > CurrentVersion {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnsupportedVersion, cfg.Version))
	}

	if cfg.Format != "" && !ValidFormat(cfg.Format) {
		errs = append(errs, &FormatError{
			Format: cfg.Format,
			Err:    ErrInvalidFormat,
		})
	}

	if cfg.Jobs < 0 {
		errs = append(errs, ErrInvalidJobs)
	}

	limits := []struct {
		field string
		value int
	}{
		{"limits.name_length", cfg.Limits.NameLength},
		{"limits.description_length", cfg.Limits.DescriptionLength},
		{"limits.body_lines", cfg.Limits.BodyLines},
		{"limits.toc_lines", cfg.Limits.TOCLines},
	}
	for _, l := range limits {
		if l.value < 0 {
			errs = append(errs, &LimitError{
				Field: l.field,
				Value: l.value,
				Err:   ErrInvalidLimit,
			})
		}
	}

	// Validate path fields if set
	if cfg.Root != "" {
		if err := validatePath(cfg.Root); err != nil {
			errs = append(errs, &PathError{
				Field: "root",
				Path:  cfg.Root,
				Err:   err,
			})
		}
	}

	if cfg.Waivers != "" {
		if err := validatePath(cfg.Waivers); err != nil {
			errs = append(errs, &PathError{
				Field: "waivers",
				Path:  cfg.Waivers,
				Err:   err,
			})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	return nil
}

// FormatError represents an error for an output format value.
type FormatError struct {
	Format string
	Err    error
}

func (e *FormatError) Error() string {
	return e.Err.Error() + ": " + e.Format
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// LimitError represents an error for a specific limit field.
type LimitError struct {
	Field string
	Value int
	Err   error
}

func (e *LimitError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + strconv.Itoa(e.Value)
}

func (e *LimitError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
