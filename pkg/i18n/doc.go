// Package i18n renders localized message templates.
//
// A Translator holds per-language tables of templates loaded through a
// TranslationAdapter: MapAdapter for in-memory data, FileAdapter for a single
// JSON or YAML file and FSAdapter for a directory inside any fs.FS, which is
// how embedded catalogues are shipped. Templates use named placeholders:
//
//	tr, err := i18n.NewTranslator(ctx, &i18n.MapAdapter{Data: map[string]map[string]any{
//		"en": {"required": `The field "%{field}" is mandatory.`},
//	}})
//	msg := tr.T("en", "required", "field", "name")
//	// msg == `The field "name" is mandatory.`
//
// Missing templates fall back to the key (configurable with
// WithFallbackToKey). Translators are safe for concurrent use.
//
// # Locales
//
// MatchLanguage resolves an arbitrary locale code ("fr-CA", "fr_FR") against
// the languages a catalogue supports using BCP 47 matching from
// golang.org/x/text/language. ParseAcceptLanguage does the same for an
// Accept-Language header, honouring quality values.
//
// # HTTP
//
// Middleware stores the request language in the context (GetLocale reads it
// back). DefaultLangExtractor looks at the "lang" cookie, the "lang" query
// parameter, the Language header and finally Accept-Language.
package i18n
