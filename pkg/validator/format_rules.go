package validator

import (
	"fmt"
	"regexp"
)

const (
	KeyEmail  = "email"
	KeyNumber = "number"
	KeyDate   = "date"
	// KeyInvalid is the generic key used by rules that carry no template of their own.
	KeyInvalid = "invalid"
)

var (
	// Local part per the WHATWG input[type=email] grammar; the domain must
	// have at least one dot.
	emailRegex = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@" +
		"[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?" +
		"(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$")

	// Signed decimal literal with optional fraction and exponent.
	numberRegex = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
)

// IsEmail reports whether value looks like an email address.
func IsEmail(value string) bool {
	return emailRegex.MatchString(value)
}

// IsNumber reports whether value is a decimal numeric literal.
func IsNumber(value string) bool {
	return numberRegex.MatchString(value)
}

// Matches builds a rule from an arbitrary predicate. The rule passes on an
// empty value: presence is the job of RequiredString.
func Matches(field, value, key string, ok func(string) bool) Rule {
	return Rule{
		Check: func() bool {
			return value == "" || ok(value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("does not satisfy %q", key),
			TranslationKey: key,
			TranslationValues: map[string]any{
				"field": field,
			},
		},
	}
}

// ValidEmail validates that a non-empty string is an email address.
func ValidEmail(field, value string) Rule {
	rule := Matches(field, value, KeyEmail, IsEmail)
	rule.Error.Message = "must be a valid email address"
	return rule
}

// ValidNumber validates that a non-empty string is a number.
func ValidNumber(field, value string) Rule {
	rule := Matches(field, value, KeyNumber, IsNumber)
	rule.Error.Message = "must be a valid number"
	return rule
}
