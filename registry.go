package formrules

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/dmitrymomot/formrules/pkg/validator"
)

// Predicate reports whether a non-empty value satisfies a registry rule.
// Empty values never reach a predicate.
type Predicate func(value string) bool

// MatchRegexp adapts a compiled pattern into a Predicate.
func MatchRegexp(re *regexp.Regexp) Predicate {
	return re.MatchString
}

// builtinRuleNames are evaluated by the engine itself and cannot be
// registered as predicates.
var builtinRuleNames = []string{validator.KeyRequired, validator.KeyMinLength, validator.KeyMaxLength}

// typedRules build the rules for the shipped predicates. They are used as
// long as the caller has not replaced the predicate of the same name.
var typedRules = map[string]func(field, value string) validator.Rule{
	validator.KeyEmail:  validator.ValidEmail,
	validator.KeyNumber: validator.ValidNumber,
	validator.KeyDate:   validator.ValidDate,
}

func defaultPredicates() map[string]Predicate {
	return map[string]Predicate{
		validator.KeyEmail:  validator.IsEmail,
		validator.KeyNumber: validator.IsNumber,
		validator.KeyDate:   validator.IsDate,
	}
}

// registry is the effective predicate table: defaults with caller entries
// layered on top.
type registry struct {
	predicates map[string]Predicate
	custom     map[string]bool
}

func newRegistry(overrides map[string]Predicate) (*registry, error) {
	r := &registry{
		predicates: defaultPredicates(),
		custom:     make(map[string]bool, len(overrides)),
	}
	for name, fn := range overrides {
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: empty rule name", ErrInvalidConstraint)
		case slices.Contains(builtinRuleNames, name):
			return nil, fmt.Errorf("%w: %s", ErrReservedRule, name)
		case fn == nil:
			return nil, fmt.Errorf("%w: %s", ErrNilPredicate, name)
		}
		r.predicates[name] = fn
		r.custom[name] = true
	}
	return r, nil
}

// rule builds the validator rule for a registry constraint. It reports false
// when no predicate is registered under name.
func (r *registry) rule(field, value, name string) (validator.Rule, bool) {
	pred, ok := r.predicates[name]
	if !ok {
		return validator.Rule{}, false
	}
	if build, ok := typedRules[name]; ok && !r.custom[name] {
		return build(field, value), true
	}

	rule := validator.Matches(field, value, name, pred)
	if name == validator.KeyDate {
		rule.Error.TranslationValues["format"] = validator.DateFormat
	}
	return rule, true
}

func (r *registry) snapshot() map[string]Predicate {
	return maps.Clone(r.predicates)
}
