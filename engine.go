package formrules

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// Engine holds the values of one form, validates them against a rule set
// and keeps the localized messages of the last pass.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	ruleSet      *RuleSet
	registry     *registry
	catalogue    *catalogue
	deviceLocale string
	locale       string
	values       map[string]string
	errs         validator.ValidationErrors
	logger       *slog.Logger
}

// New builds an Engine. It fails when the rule set, the rules or the
// messages are malformed.
func New(opts ...Option) (*Engine, error) {
	o := options{
		deviceLocale: DefaultLocale,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := o.ruleSet.Validate(); err != nil {
		return nil, err
	}
	reg, err := newRegistry(o.rules)
	if err != nil {
		return nil, err
	}
	cat, err := newCatalogue(o.messages, o.logger)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		ruleSet:   o.ruleSet.Clone(),
		registry:  reg,
		catalogue: cat,
		values:    make(map[string]string),
		logger:    o.logger,
	}
	e.SetDeviceLocale(o.deviceLocale)
	return e, nil
}

// MustNew is New that panics on error.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("formrules: %v", err))
	}
	return e
}

// RecordValue stores the latest value of a field. It does not validate.
func (e *Engine) RecordValue(field, value string) {
	e.values[field] = value
}

// RecordValues stores several values at once.
func (e *Engine) RecordValues(values map[string]string) {
	maps.Copy(e.values, values)
}

// Value returns the stored value of field, or "" if none was recorded.
func (e *Engine) Value(field string) string {
	return e.values[field]
}

// Validate runs a full pass with the configured rule set and reports whether
// every constraint held.
func (e *Engine) Validate() bool {
	return e.ValidateWith(nil)
}

// ValidateWith runs a full pass with rs instead of the configured rule set.
// A nil rs falls back to the configured one. The previous errors are
// discarded; fields are visited in declaration order and constraints in the
// order they were declared. Constraints naming an unknown rule are skipped.
func (e *Engine) ValidateWith(rs *RuleSet) bool {
	if rs == nil {
		rs = e.ruleSet
	}

	var rules []validator.Rule
	for _, field := range rs.order {
		value := e.values[field]
		for _, c := range rs.rules[field] {
			rule, ok := e.rule(field, value, c)
			if !ok {
				e.logger.Warn("unknown rule skipped", logger.Field(field), logger.Rule(c.Rule))
				continue
			}
			rules = append(rules, rule)
		}
	}

	errs := validator.ExtractValidationErrors(validator.Apply(rules...))
	for i := range errs {
		errs[i].Message = e.catalogue.render(e.locale, errs[i])
	}
	e.errs = errs

	e.logger.Debug("validation pass",
		logger.Locale(e.locale),
		slog.Int("fields", rs.Len()),
		slog.Int("errors", len(errs)),
	)
	return errs.IsEmpty()
}

func (e *Engine) rule(field, value string, c Constraint) (validator.Rule, bool) {
	switch c.Rule {
	case validator.KeyRequired:
		return validator.RequiredString(field, value), true
	case validator.KeyMinLength:
		return validator.MinLenString(field, value, c.Bound), true
	case validator.KeyMaxLength:
		return validator.MaxLenString(field, value, c.Bound), true
	default:
		return e.registry.rule(field, value, c.Rule)
	}
}

// IsFormValid reports whether the last pass recorded no error. It does not
// validate again.
func (e *Engine) IsFormValid() bool {
	return e.errs.IsEmpty()
}

// ErrorMessages joins the messages of the last pass with newlines.
func (e *Engine) ErrorMessages() string {
	return strings.Join(e.errs.Messages(), "\n")
}

// ErrorsInField returns the messages of field from the last pass, in order.
// The result is empty, never nil, when the field passed.
func (e *Engine) ErrorsInField(field string) []string {
	return e.errs.Get(field)
}

// IsFieldInError reports whether field failed any constraint in the last pass.
func (e *Engine) IsFieldInError(field string) bool {
	return e.errs.Has(field)
}

// Errors returns a copy of the structured errors of the last pass.
func (e *Engine) Errors() validator.ValidationErrors {
	return slices.Clone(e.errs)
}

// SetDeviceLocale changes the locale used by later passes. Codes without a
// catalogue fall back to English. Messages already rendered are kept as is.
func (e *Engine) SetDeviceLocale(code string) {
	e.deviceLocale = code
	e.locale = e.catalogue.resolve(code)
	if !strings.EqualFold(e.locale, code) {
		e.logger.Debug("device locale resolved", slog.String("device_locale", code), logger.Locale(e.locale))
	}
}

// DeviceLocale returns the locale code as configured.
func (e *Engine) DeviceLocale() string {
	return e.deviceLocale
}

// Locale returns the catalogue language messages are rendered in.
func (e *Engine) Locale() string {
	return e.locale
}

// Rules returns a copy of the effective predicate registry.
func (e *Engine) Rules() map[string]Predicate {
	return e.registry.snapshot()
}

// Messages returns a copy of the effective templates per locale.
func (e *Engine) Messages() map[string]map[string]string {
	return e.catalogue.messages()
}

// RuleSet returns a copy of the configured rule set.
func (e *Engine) RuleSet() *RuleSet {
	return e.ruleSet.Clone()
}
