package i18n

import "log/slog"

// Option is a function that configures a Translator instance.
type Option func(*Translator)

// WithFallbackToKey determines whether T returns the key when a translation
// is not found. Default is true.
func WithFallbackToKey(fallback bool) Option {
	return func(t *Translator) {
		t.fallbackToKey = fallback
	}
}

// WithLogger sets the translator logger. A discard logger is used by default.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}
