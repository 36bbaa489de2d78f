package formrules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

// Constraint is one named check declared on a field. Bound is only
// meaningful for the length rules.
type Constraint struct {
	Rule  string
	Bound int
}

// FieldRules lists the constraints of one field in evaluation order.
type FieldRules []Constraint

// Required fails on a value that is blank after trimming spaces.
func Required() Constraint { return Constraint{Rule: validator.KeyRequired} }

// MinLength fails when the value has fewer than n characters.
func MinLength(n int) Constraint { return Constraint{Rule: validator.KeyMinLength, Bound: n} }

// MaxLength fails when the value has more than n characters.
func MaxLength(n int) Constraint { return Constraint{Rule: validator.KeyMaxLength, Bound: n} }

// Email checks the value is an email address.
func Email() Constraint { return Constraint{Rule: validator.KeyEmail} }

// Number checks the value is a decimal number.
func Number() Constraint { return Constraint{Rule: validator.KeyNumber} }

// Date checks the value is a YYYY-MM-DD calendar date.
func Date() Constraint { return Constraint{Rule: validator.KeyDate} }

// Is references a registry rule by name, e.g. one added with WithRules.
func Is(name string) Constraint { return Constraint{Rule: name} }

// String renders the constraint in the compact form read by ParseConstraints.
func (c Constraint) String() string {
	if isLengthRule(c.Rule) {
		return c.Rule + ":" + strconv.Itoa(c.Bound)
	}
	return c.Rule
}

func (c Constraint) validate() error {
	if c.Rule == "" {
		return fmt.Errorf("%w: empty rule name", ErrInvalidConstraint)
	}
	if isLengthRule(c.Rule) && c.Bound < 0 {
		return fmt.Errorf("%w: %s bound must be non-negative, got %d", ErrInvalidConstraint, c.Rule, c.Bound)
	}
	return nil
}

func isLengthRule(name string) bool {
	return name == validator.KeyMinLength || name == validator.KeyMaxLength
}

// String joins the constraints with ";".
func (fr FieldRules) String() string {
	parts := make([]string, len(fr))
	for i, c := range fr {
		parts[i] = c.String()
	}
	return strings.Join(parts, ";")
}

// ParseConstraints reads the compact form "minlength:3;maxlength:7;required".
// Segments are separated by ";" and written as name or name:bound. Only the
// length rules take a bound and they require one. Empty segments are ignored.
func ParseConstraints(s string) (FieldRules, error) {
	var rules FieldRules
	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		name, bound, hasBound := strings.Cut(segment, ":")
		name = strings.TrimSpace(name)

		c := Constraint{Rule: name}
		switch {
		case isLengthRule(name):
			if !hasBound {
				return nil, fmt.Errorf("%w: %q needs a bound", ErrInvalidConstraint, segment)
			}
			n, err := strconv.Atoi(strings.TrimSpace(bound))
			if err != nil {
				return nil, fmt.Errorf("%w: %q: bound is not an integer", ErrInvalidConstraint, segment)
			}
			c.Bound = n
		case hasBound:
			return nil, fmt.Errorf("%w: %q takes no bound", ErrInvalidConstraint, segment)
		}

		if err := c.validate(); err != nil {
			return nil, err
		}
		rules = append(rules, c)
	}
	return rules, nil
}
