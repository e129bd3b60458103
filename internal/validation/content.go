package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Content limits, in characters.
const (
	MaxTitleLen   = 300
	MaxContentLen = 50000
	MaxCommentLen = 10000
)

// RequireText rejects blank values and values longer than max characters.
// field is used in the error message, e.g. "Title".
func RequireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}

// OptionalText allows empty values but still caps their length.
func OptionalText(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}
