package validator

import (
	"fmt"
	"regexp"
	"time"
)

const (
	// DateLayout is the Go layout of calendar dates accepted by ValidDate.
	DateLayout = "2006-01-02"
	// DateFormat is DateLayout as shown to users.
	DateFormat = "YYYY-MM-DD"
)

var dateRegex = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)

// IsDate reports whether value is written as YYYY-MM-DD and names a real
// calendar day, so "2023-02-30" is rejected.
func IsDate(value string) bool {
	if !dateRegex.MatchString(value) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// ValidDate validates that a non-empty string is a YYYY-MM-DD calendar date.
func ValidDate(field, value string) Rule {
	rule := Matches(field, value, KeyDate, IsDate)
	rule.Error.Message = fmt.Sprintf("must be a valid date (%s)", DateFormat)
	rule.Error.TranslationValues["format"] = DateFormat
	return rule
}
