package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Rule names double as translation keys so a message catalogue can be keyed
// by the same identifiers a rule-set declares.
const (
	KeyRequired  = "required"
	KeyMinLength = "minlength"
	KeyMaxLength = "maxlength"
)

// RequiredString validates that a string is not empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:          field,
			Message:        "field is required",
			TranslationKey: KeyRequired,
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// MinLenString validates that a string has at least min characters.
// Characters are counted as runes; an empty string fails any positive minimum.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("length must be greater than %d", min),
			TranslationKey: KeyMinLength,
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxLenString validates that a string has at most max characters.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("length must be lower than %d", max),
			TranslationKey: KeyMaxLength,
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}
