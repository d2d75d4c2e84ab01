package common

import (
	"fmt"
	"slices"
	"strings"

	"lettersmith/internal/errors"
)

// formatAliases maps common shorthand to the canonical names the
// formatter registry is keyed by.
var formatAliases = map[string]string{
	"md":  "markdown",
	"txt": "text",
}

// NormalizeFormat lowercases a requested output format and resolves
// shorthand aliases, so "MD" and "markdown" select the same formatter.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if canonical, ok := formatAliases[f]; ok {
		return canonical
	}
	return f
}

// ValidateOutputFormat checks a requested format against the
// configured list after alias resolution. An empty list means no
// restriction.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil
	}

	if slices.Contains(supportedFormats, NormalizeFormat(format)) {
		return nil
	}

	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("Unsupported output format '%s'. Supported formats: %v",
			format, supportedFormats), nil)
}

// GetSupportedFormats returns the configured format list.
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
