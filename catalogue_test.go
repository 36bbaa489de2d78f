package formrules_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestShippedCatalogue(t *testing.T) {
	msgs := formrules.MustNew().Messages()
	require.Contains(t, msgs, "en")
	require.Contains(t, msgs, "fr")

	for _, key := range []string{"required", "minlength", "maxlength", "email", "number", "date", "invalid"} {
		assert.NotEmpty(t, msgs["en"][key], "en.%s", key)
		assert.NotEmpty(t, msgs["fr"][key], "fr.%s", key)
	}
	assert.Equal(t, `The field "%{field}" must be a valid date (%{format}).`, msgs["en"]["date"])
}

func TestLoadMessages(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		p := writeFile(t, "messages.yaml", "en:\n  required: '%{field} is required'\nfr:\n  required: '%{field} est requis'\n")
		msgs, err := formrules.LoadMessages(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, "%{field} is required", msgs["en"]["required"])

		e := formrules.MustNew(
			formrules.WithMessages(msgs),
			formrules.WithDeviceLocale("fr"),
			formrules.WithRuleSet(formrules.NewRuleSet().Field("name", formrules.Required())),
		)
		e.Validate()
		assert.Equal(t, "name est requis", e.ErrorMessages())
	})

	t.Run("json", func(t *testing.T) {
		p := writeFile(t, "messages.json", `{"en": {"email": "bad email in %{field}"}}`)
		msgs, err := formrules.LoadMessages(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, map[string]map[string]string{"en": {"email": "bad email in %{field}"}}, msgs)
	})

	t.Run("non string template", func(t *testing.T) {
		p := writeFile(t, "messages.yaml", "en:\n  required:\n    short: x\n")
		_, err := formrules.LoadMessages(context.Background(), p)
		assert.ErrorIs(t, err, formrules.ErrInvalidMessages)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		p := writeFile(t, "messages.txt", "en: {}")
		_, err := formrules.LoadMessages(context.Background(), p)
		assert.ErrorIs(t, err, formrules.ErrInvalidMessages)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := formrules.LoadMessages(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, formrules.ErrInvalidMessages)
	})
}
