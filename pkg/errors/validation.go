package errors

import (
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidatePattern validates a glob pattern before it reaches the filesystem
// walker. It rejects patterns that are empty, absurdly long, contain control
// characters, or fail doublestar's syntax check.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidPattern, "pattern cannot be empty")
	}

	if len(pattern) > 512 {
		return New(ErrCodeInvalidPattern, "pattern too long (max 512 characters)")
	}

	for _, r := range pattern {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPattern, "pattern contains invalid control characters")
		}
	}

	if !doublestar.ValidatePattern(pattern) {
		return New(ErrCodeInvalidPattern, "malformed pattern: %q", pattern)
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks a graph export format against the allowed set.
func ValidateFormat(format string, allowed []string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
