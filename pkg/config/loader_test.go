package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/config"
)

type serverConfig struct {
	Addr   string `env:"CFGTEST_ADDR" envDefault:":8080"`
	Locale string `env:"CFGTEST_LOCALE" envDefault:"en"`
	Debug  bool   `env:"CFGTEST_DEBUG"`
}

type requiredConfig struct {
	RulesFile string `env:"CFGTEST_RULES_FILE,required"`
}

type cachedConfig struct {
	Value string `env:"CFGTEST_CACHED"`
}

type fileConfig struct {
	Locale   string   `env:"CFGTEST_FILE_LOCALE"`
	Forms    []string `env:"CFGTEST_FILE_FORMS" envSeparator:","`
	Priority string   `env:"CFGTEST_FILE_PRIORITY"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

// unsetAfter clears keys that LoadEnv sets outside of t.Setenv.
func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, k := range keys {
			_ = os.Unsetenv(k)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("environment values", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("CFGTEST_ADDR", ":9090")
		t.Setenv("CFGTEST_LOCALE", "fr")
		t.Setenv("CFGTEST_DEBUG", "true")

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "fr", cfg.Locale)
		assert.True(t, cfg.Debug)
	})

	t.Run("defaults", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("CFGTEST_ADDR", "")
		require.NoError(t, os.Unsetenv("CFGTEST_ADDR"))
		t.Setenv("CFGTEST_LOCALE", "")
		require.NoError(t, os.Unsetenv("CFGTEST_LOCALE"))

		var cfg serverConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "en", cfg.Locale)
	})

	t.Run("missing required value", func(t *testing.T) {
		config.ResetCache()
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *serverConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("non-struct type", func(t *testing.T) {
		var s string
		assert.ErrorIs(t, config.Load(&s), config.ErrInvalidConfigType)
	})
}

func TestLoadCaching(t *testing.T) {
	config.ResetCache()
	t.Setenv("CFGTEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("CFGTEST_CACHED", "second")

	var cached cachedConfig
	require.NoError(t, config.Load(&cached))
	assert.Equal(t, "first", cached.Value)

	var reloaded cachedConfig
	require.NoError(t, config.ForceReload(&reloaded))
	assert.Equal(t, "second", reloaded.Value)
}

func TestMustLoad(t *testing.T) {
	config.ResetCache()
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})

	t.Setenv("CFGTEST_RULES_FILE", "rules.yaml")
	config.ResetCache()
	assert.NotPanics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
		assert.Equal(t, "rules.yaml", cfg.RulesFile)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Run("single file", func(t *testing.T) {
		unsetAfter(t, "CFGTEST_FILE_LOCALE", "CFGTEST_FILE_FORMS", "CFGTEST_FILE_PRIORITY")
		p := writeEnvFile(t, "CFGTEST_FILE_LOCALE=fr\nCFGTEST_FILE_FORMS=signup,contact\nCFGTEST_FILE_PRIORITY=\"from file\"\n")

		require.NoError(t, config.LoadEnv(p))
		config.ResetCache()

		var cfg fileConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "fr", cfg.Locale)
		assert.Equal(t, []string{"signup", "contact"}, cfg.Forms)
		assert.Equal(t, "from file", cfg.Priority)
	})

	t.Run("later files override earlier ones", func(t *testing.T) {
		unsetAfter(t, "CFGTEST_FILE_LOCALE", "CFGTEST_FILE_PRIORITY")
		base := writeEnvFile(t, "CFGTEST_FILE_LOCALE=en\nCFGTEST_FILE_PRIORITY=base\n")
		override := writeEnvFile(t, "CFGTEST_FILE_PRIORITY=override\n")

		require.NoError(t, config.LoadEnv(base, override))
		assert.Equal(t, "en", os.Getenv("CFGTEST_FILE_LOCALE"))
		assert.Equal(t, "override", os.Getenv("CFGTEST_FILE_PRIORITY"))
	})

	t.Run("process environment wins", func(t *testing.T) {
		t.Setenv("CFGTEST_FILE_LOCALE", "de")
		p := writeEnvFile(t, "CFGTEST_FILE_LOCALE=fr\n")

		require.NoError(t, config.LoadEnv(p))
		assert.Equal(t, "de", os.Getenv("CFGTEST_FILE_LOCALE"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
		assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(t.TempDir(), "missing.env")) })
	})
}
