package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvAPIKeyLegacy = "API_KEY"
	EnvModel        = "PHISHLENS_MODEL"
	EnvEndpoint     = "PHISHLENS_ENDPOINT"
	EnvProxy        = "PHISHLENS_PROXY"
	EnvDBDir        = "PHISHLENS_DB_DIR"
)

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) into the process environment. Variables that are already set
// are not overridden. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides cfg with the values found through getenv
// (usually os.Getenv).
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	} else if v := getenv(EnvAPIKeyLegacy); v != "" {
		cfg.APIKey = v
	}
	if v := getenv(EnvModel); v != "" {
		cfg.Model = v
	}
	if v := getenv(EnvEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v := getenv(EnvProxy); v != "" {
		cfg.ProxyAddress = v
	}
	if v := getenv(EnvDBDir); v != "" {
		cfg.DBDir = v
	}
}
