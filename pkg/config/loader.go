package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache holds one parsed value per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	global = &cache{values: make(map[reflect.Type]any)}

	dotenvOnce sync.Once
)

// Load populates v from the process environment using `env` struct tags.
// The first call also loads a .env file from the working directory when one
// exists. Each configuration type is parsed once; later calls copy the
// cached value into v.
//
//	type ServerConfig struct {
//		Addr   string `env:"FORMDEMO_ADDR" envDefault:":8080"`
//		Locale string `env:"FORMDEMO_LOCALE" envDefault:"en"`
//	}
//
//	var cfg ServerConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() {
		// A missing .env is fine.
		_ = godotenv.Load()
	})

	key := typeKey[T]()
	if key.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrInvalidConfigType, key)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	global.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// ForceReload drops the cached value for T and parses the environment again.
func ForceReload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	global.mu.Lock()
	delete(global.values, typeKey[T]())
	global.mu.Unlock()
	return Load(v)
}

// ResetCache forgets every cached configuration.
func ResetCache() {
	global.mu.Lock()
	global.values = make(map[reflect.Type]any)
	global.mu.Unlock()
}

// LoadEnv loads the given .env files into the process environment, later
// files overriding earlier ones. Variables already present in the
// environment before the call are preserved. With no paths it reads .env
// from the working directory.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	merged := make(map[string]string)
	for _, p := range paths {
		vars, err := godotenv.Read(p)
		if err != nil {
			return errors.Join(ErrLoadingEnvFile, fmt.Errorf("%s: %w", p, err))
		}
		for k, val := range vars {
			merged[k] = val
		}
	}

	for k, val := range merged {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, val); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
