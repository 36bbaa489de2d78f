package formrules

import (
	"log/slog"
	"maps"
)

type options struct {
	ruleSet      *RuleSet
	rules        map[string]Predicate
	messages     map[string]map[string]string
	deviceLocale string
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

// WithRuleSet sets the rule set used by Validate.
func WithRuleSet(rs *RuleSet) Option {
	return func(o *options) {
		o.ruleSet = rs
	}
}

// WithRules adds registry rules or replaces shipped ones of the same name.
// Repeated calls accumulate.
func WithRules(rules map[string]Predicate) Option {
	return func(o *options) {
		if o.rules == nil {
			o.rules = make(map[string]Predicate, len(rules))
		}
		maps.Copy(o.rules, rules)
	}
}

// WithMessages adds templates per locale, keyed by rule name. Templates may
// use %{field}, %{min}, %{max} and %{format}. Repeated calls merge per locale.
func WithMessages(messages map[string]map[string]string) Option {
	return func(o *options) {
		if o.messages == nil {
			o.messages = make(map[string]map[string]string, len(messages))
		}
		for lang, table := range messages {
			if table == nil {
				o.messages[lang] = nil
				continue
			}
			if o.messages[lang] == nil {
				o.messages[lang] = make(map[string]string, len(table))
			}
			maps.Copy(o.messages[lang], table)
		}
	}
}

// WithDeviceLocale sets the initial locale code, e.g. "fr" or "fr-FR".
func WithDeviceLocale(code string) Option {
	return func(o *options) {
		o.deviceLocale = code
	}
}

// WithLogger sets the logger for skipped rules and pass summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
