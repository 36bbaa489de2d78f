package i18n

import (
	"net/http"
	"slices"
	"strings"
)

// maxLangCodeLength is the RFC 5646 recommended upper bound for a tag.
const maxLangCodeLength = 35

type langValidator struct {
	supportedLangs []string
}

func newLangValidator(supportedLangs []string) *langValidator {
	normalized := make([]string, len(supportedLangs))
	for i, lang := range supportedLangs {
		normalized[i] = strings.ToLower(lang)
	}
	return &langValidator{supportedLangs: normalized}
}

// validate returns the normalized code, its base language when only that is
// supported, or "" when the code is rejected.
func (v *langValidator) validate(lang string) string {
	if lang == "" || len(lang) > maxLangCodeLength {
		return ""
	}

	normalized := strings.ToLower(lang)
	if len(v.supportedLangs) == 0 || slices.Contains(v.supportedLangs, normalized) {
		return normalized
	}
	if idx := strings.IndexAny(normalized, "-_"); idx > 0 {
		if base := normalized[:idx]; slices.Contains(v.supportedLangs, base) {
			return base
		}
	}
	return ""
}

// ExtractorConfig holds configuration for the language extractor
type ExtractorConfig struct {
	CookieName     string
	QueryParamName string
	SupportedLangs []string
}

// ExtractorOption configures the language extractor
type ExtractorOption func(*ExtractorConfig)

func WithCookieName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.CookieName = name
		}
	}
}

func WithQueryParamName(name string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if name != "" {
			c.QueryParamName = name
		}
	}
}

// WithSupportedLanguages restricts extracted codes to langs.
func WithSupportedLanguages(langs ...string) ExtractorOption {
	return func(c *ExtractorConfig) {
		if len(langs) > 0 {
			c.SupportedLangs = langs
		}
	}
}

// DefaultLangExtractor checks, in order: the "lang" cookie, the "lang" query
// parameter, the Language header and the Accept-Language header. It returns
// the first acceptable code, or "" so the middleware can apply its default.
func DefaultLangExtractor(opts ...ExtractorOption) LangExtractor {
	cfg := &ExtractorConfig{
		CookieName:     "lang",
		QueryParamName: "lang",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	v := newLangValidator(cfg.SupportedLangs)

	return func(r *http.Request) string {
		if cfg.CookieName != "" {
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if lang := v.validate(strings.TrimSpace(cookie.Value)); lang != "" {
					return lang
				}
			}
		}

		if cfg.QueryParamName != "" {
			if lang := v.validate(strings.TrimSpace(r.URL.Query().Get(cfg.QueryParamName))); lang != "" {
				return lang
			}
		}

		if lang := v.validate(strings.TrimSpace(r.Header.Get("Language"))); lang != "" {
			return lang
		}

		header := r.Header.Get("Accept-Language")
		if header == "" {
			return ""
		}
		if len(cfg.SupportedLangs) > 0 {
			return ParseAcceptLanguage(header, cfg.SupportedLangs, "")
		}
		if langs := parseAcceptLanguageHeader(header); len(langs) > 0 {
			return langs[0].lang
		}
		return ""
	}
}
