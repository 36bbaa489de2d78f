package i18n_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formrules/pkg/i18n"
)

func TestParseAcceptLanguage(t *testing.T) {
	supported := []string{"en", "fr"}

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", "en"},
		{"exact match", "fr", "fr"},
		{"quality ordering", "en;q=0.5, fr;q=0.9", "fr"},
		{"base language fallback", "fr-CA, de;q=0.8", "fr"},
		{"exact beats base", "fr-CA;q=1.0, en;q=0.9", "en"},
		{"no match", "de, es", "en"},
		{"case insensitive", "FR", "fr"},
		{"invalid quality ignored", "fr;q=abc", "fr"},
		{"oversized header", strings.Repeat("x", 5000) + ",fr", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.ParseAcceptLanguage(tt.header, supported, "en"))
		})
	}

	t.Run("no supported languages", func(t *testing.T) {
		assert.Equal(t, "en", i18n.ParseAcceptLanguage("fr", nil, "en"))
	})
}

func TestMatchLanguage(t *testing.T) {
	supported := []string{"en", "fr"}

	tests := []struct {
		locale string
		want   string
	}{
		{"en", "en"},
		{"fr", "fr"},
		{"fr-FR", "fr"},
		{"fr_CA", "fr"},
		{"en-GB", "en"},
		{"de", "en"},
		{"", "en"},
		{"not a locale!!", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.MatchLanguage(tt.locale, supported, "en"))
		})
	}

	t.Run("no supported languages", func(t *testing.T) {
		assert.Equal(t, "en", i18n.MatchLanguage("fr", nil, "en"))
	})

	t.Run("custom default", func(t *testing.T) {
		assert.Equal(t, "fr", i18n.MatchLanguage("de", supported, "fr"))
	})
}
