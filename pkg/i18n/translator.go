package i18n

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// ErrLanguageNotSupported indicates that the requested language is not available
type ErrLanguageNotSupported struct {
	Lang string
}

func (e *ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("language not supported: %s", e.Lang)
}

// Translator renders message templates for a language.
// It uses an adapter to load templates from various sources.
type Translator struct {
	translations  map[string]map[string]any
	fallbackToKey bool
	logger        *slog.Logger
	mu            sync.RWMutex
	adapter       TranslationAdapter
}

// NewTranslator creates a new Translator instance with the given adapter and options.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		fallbackToKey: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		adapter:       adapter,
	}

	for _, option := range options {
		option(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := t.validateTranslations(translations); err != nil {
		return nil, err
	}

	t.translations = translations
	t.logger.DebugContext(ctx, "translations loaded", "languages", t.supportedLanguages())
	return t, nil
}

// validateTranslations rejects empty language codes and nil language tables.
func (t *Translator) validateTranslations(trans map[string]map[string]any) error {
	for lang, translations := range trans {
		if lang == "" {
			return errors.Join(ErrInvalidTranslations, errors.New("empty language code"))
		}
		if translations == nil {
			return errors.Join(ErrInvalidTranslations, fmt.Errorf("nil translations map for language: %s", lang))
		}
	}
	return nil
}

func (t *Translator) supportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// SupportedLanguages returns the sorted language codes that have translations.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.supportedLanguages()
}

// getTranslation traverses a nested map using dot-separated keys.
// For example, key "validation.required" looks up m["validation"]["required"].
func (t *Translator) getTranslation(m map[string]any, key string) (any, bool) {
	if val, ok := m[key]; ok {
		return val, true
	}

	parts := strings.Split(key, ".")
	current := m

	for i, part := range parts {
		if i == len(parts)-1 {
			val, ok := current[part]
			return val, ok
		}

		next, ok := current[part]
		if !ok {
			return nil, false
		}

		currentMap, ok := next.(map[string]any)
		if !ok {
			// YAML decoders may hand back map[any]any for nested tables.
			anyMap, isAnyMap := next.(map[any]any)
			if !isAnyMap {
				return nil, false
			}

			currentMap = make(map[string]any, len(anyMap))
			for k, v := range anyMap {
				if ks, ok := k.(string); ok {
					currentMap[ks] = v
				}
			}
		}

		current = currentMap
	}

	return nil, false
}

// HasTranslation reports whether a string template exists for lang and key.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langMap, ok := t.translations[lang]
	if !ok {
		return false
	}

	val, ok := t.getTranslation(langMap, key)
	if !ok {
		return false
	}
	_, isString := val.(string)
	return isString
}

// buildParams converts key, value, key, value, … pairs into a map.
// A trailing odd argument is ignored.
func (t *Translator) buildParams(args []string) map[string]string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		params[args[i]] = args[i+1]
	}
	return params
}

func (t *Translator) sprintf(tmpl string, args []string) string {
	return t.namedSprintf(tmpl, t.buildParams(args))
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// namedSprintf substitutes "%{name}" placeholders. Unknown placeholders are
// left untouched.
func (t *Translator) namedSprintf(tmpl string, params map[string]string) string {
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := params[name]; ok {
			return val
		}
		return match
	})
}

// T renders the template stored under key for lang.
// Arguments are key-value pairs substituted into "%{name}" placeholders:
//
//	// With "required": `The field "%{field}" is mandatory.`
//	msg := translator.T("en", "required", "field", "name")
//	// Returns: `The field "name" is mandatory.`
//
// When the language or key is missing, T returns the key itself (formatted
// with args) if fallback-to-key is enabled, and an empty string otherwise.
func (t *Translator) T(lang, key string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langMap, ok := t.translations[lang]
	if !ok {
		return t.fallback(key, args)
	}

	val, ok := t.getTranslation(langMap, key)
	if !ok {
		return t.fallback(key, args)
	}

	switch v := val.(type) {
	case string:
		return t.sprintf(v, args)
	case fmt.Stringer:
		return t.sprintf(v.String(), args)
	default:
		return t.fallback(key, args)
	}
}

func (t *Translator) fallback(key string, args []string) string {
	if t.fallbackToKey {
		return t.sprintf(key, args)
	}
	return ""
}

// Td translates a key, rendering defaultValue when no template is found.
func (t *Translator) Td(lang, key, defaultValue string, args ...string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langMap, ok := t.translations[lang]
	if !ok {
		return t.sprintf(defaultValue, args)
	}

	val, ok := t.getTranslation(langMap, key)
	if !ok {
		return t.sprintf(defaultValue, args)
	}

	strVal, ok := val.(string)
	if !ok {
		return t.sprintf(defaultValue, args)
	}

	return t.sprintf(strVal, args)
}

// Export returns a copy of the top-level templates for lang.
func (t *Translator) Export(lang string) (map[string]any, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	translations, ok := t.translations[lang]
	if !ok {
		return nil, &ErrLanguageNotSupported{Lang: lang}
	}
	return maps.Clone(translations), nil
}
