package i18n

import (
	"context"
	"net/http"
)

// LangExtractor returns the language code a request asks for, or "".
type LangExtractor func(r *http.Request) string

type localeContextKey struct{}

// SetLocale stores the locale in the context.
func SetLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// GetLocale returns the locale stored in the context, or DefaultLanguage.
func GetLocale(ctx context.Context) string {
	locale, _ := ctx.Value(localeContextKey{}).(string)
	if locale == "" {
		return DefaultLanguage
	}
	return locale
}

// Middleware resolves the request language with extr (DefaultLangExtractor
// when nil) and stores it in the request context, falling back to
// DefaultLanguage when nothing is found.
func Middleware(extr LangExtractor) func(http.Handler) http.Handler {
	if extr == nil {
		extr = DefaultLangExtractor()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := extr(r)
			if lang == "" {
				lang = DefaultLanguage
			}
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
