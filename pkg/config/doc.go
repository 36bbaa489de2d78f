// Package config loads application settings from environment variables into
// tagged structs using github.com/caarlos0/env/v11, with optional .env files
// read through github.com/joho/godotenv.
//
// Parsed values are cached per struct type, so repeated Load calls for the
// same type are cheap and consistent. Tests can call ResetCache or
// ForceReload after changing the environment.
//
//	if err := config.LoadEnv("deploy/.env"); err != nil {
//	    return err
//	}
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Errors wrap the sentinels in errors.go and can be matched with errors.Is.
package config
