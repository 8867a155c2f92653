package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePositive rejects NaN, infinite, zero and negative values for a named
// numeric option.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %g", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative rejects NaN, infinite and negative values.
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %g", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateRange rejects values outside [lo, hi].
func ValidateRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return New(ErrCodeInvalidConfig, "%s must be in [%g, %g], got %g", name, lo, hi, v)
	}
	return nil
}

// ValidatePath validates a dataset or output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No parent directory traversal after cleaning, for relative paths
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "path too long (max 500 characters)")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	if filepath.IsAbs(path) {
		return nil
	}
	clean := filepath.ToSlash(filepath.Clean(path))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return New(ErrCodeInvalidPath, "path escapes the working directory: %q", path)
	}
	return nil
}
