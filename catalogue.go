package formrules

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sort"
	"sync"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

// DefaultLocale is used when the device locale has no catalogue.
const DefaultLocale = i18n.DefaultLanguage

//go:embed locales/*.yaml
var localesFS embed.FS

var defaultMessages = sync.OnceValues(func() (*i18n.Translator, error) {
	adapter := i18n.NewFSAdapter(i18n.NewYAMLParser(), localesFS, "locales")
	tr, err := i18n.NewTranslator(context.Background(), adapter, i18n.WithFallbackToKey(false))
	if err != nil {
		return nil, errors.Join(ErrLoadingCatalogue, err)
	}
	return tr, nil
})

// catalogue renders validation errors. Caller templates are looked up before
// the shipped ones and neither table is ever modified.
type catalogue struct {
	defaults  *i18n.Translator
	overrides *i18n.Translator
	languages []string
}

func newCatalogue(overrides map[string]map[string]string, log *slog.Logger) (*catalogue, error) {
	defaults, err := defaultMessages()
	if err != nil {
		return nil, err
	}

	c := &catalogue{defaults: defaults}
	langs := defaults.SupportedLanguages()

	if len(overrides) > 0 {
		data := make(map[string]map[string]any, len(overrides))
		for lang, table := range overrides {
			if table == nil {
				data[lang] = nil
				continue
			}
			data[lang] = make(map[string]any, len(table))
			for key, tmpl := range table {
				data[lang][key] = tmpl
			}
		}

		tr, err := i18n.NewTranslator(context.Background(), &i18n.MapAdapter{Data: data},
			i18n.WithFallbackToKey(false),
			i18n.WithLogger(log),
		)
		if err != nil {
			return nil, errors.Join(ErrInvalidMessages, err)
		}
		c.overrides = tr
		langs = append(langs, tr.SupportedLanguages()...)
	}

	sort.Strings(langs)
	c.languages = slices.Compact(langs)
	return c, nil
}

// resolve maps a device locale onto a catalogue language.
func (c *catalogue) resolve(locale string) string {
	return i18n.MatchLanguage(locale, c.languages, DefaultLocale)
}

// render produces the user-facing message for a failed rule. Languages are
// tried in lookupChain order; within a language a rule without its own
// template uses the generic "invalid" one, and caller templates win over
// shipped ones.
func (c *catalogue) render(lang string, ve validator.ValidationError) string {
	args := templateArgs(ve.TranslationValues)
	for _, l := range c.lookupChain(lang) {
		for _, key := range []string{ve.TranslationKey, validator.KeyInvalid} {
			for _, tr := range []*i18n.Translator{c.overrides, c.defaults} {
				if tr != nil && tr.HasTranslation(l, key) {
					return tr.T(l, key, args...)
				}
			}
		}
	}
	return c.defaults.Td(lang, ve.TranslationKey, "%{field}: %{message}", "field", ve.Field, "message", ve.Message)
}

// lookupChain lists lang, then its base language when the catalogue has
// one (a "fr-CA" table falls through to "fr"), then DefaultLocale.
func (c *catalogue) lookupChain(lang string) []string {
	chain := []string{lang}
	if tag, err := language.Parse(lang); err == nil {
		base, _ := tag.Base()
		if b := base.String(); b != lang && slices.Contains(c.languages, b) {
			chain = append(chain, b)
		}
	}
	if !slices.Contains(chain, DefaultLocale) {
		chain = append(chain, DefaultLocale)
	}
	return chain
}

// messages merges both tables into plain templates per language.
func (c *catalogue) messages() map[string]map[string]string {
	out := make(map[string]map[string]string, len(c.languages))
	for _, lang := range c.languages {
		table := make(map[string]string)
		for _, tr := range []*i18n.Translator{c.defaults, c.overrides} {
			if tr == nil {
				continue
			}
			exported, err := tr.Export(lang)
			if err != nil {
				continue
			}
			for key, val := range exported {
				if s, ok := val.(string); ok {
					table[key] = s
				}
			}
		}
		out[lang] = table
	}
	return out
}

func templateArgs(values map[string]any) []string {
	keys := slices.Sorted(maps.Keys(values))
	args := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fmt.Sprint(values[k]))
	}
	return args
}

// LoadMessages reads caller templates from a JSON or YAML file laid out as
// locale -> rule -> template, ready for WithMessages.
func LoadMessages(ctx context.Context, path string) (map[string]map[string]string, error) {
	adapter, err := i18n.NewFileAdapter(nil, path)
	if err != nil {
		return nil, errors.Join(ErrInvalidMessages, err)
	}
	data, err := adapter.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrInvalidMessages, err)
	}

	out := make(map[string]map[string]string, len(data))
	for lang, table := range data {
		out[lang] = make(map[string]string, len(table))
		for key, val := range table {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s: expected a string template, got %T", ErrInvalidMessages, lang, key, val)
			}
			out[lang][key] = s
		}
	}
	return out, nil
}
