package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL   = "STUDYHUB_API_URL"
	EnvToken    = "STUDYHUB_TOKEN"
	EnvLogLevel = "STUDYHUB_LOG_LEVEL"
)

// parseEnv overlays cfg with values from dotenvPath (if the file exists) and
// from the process environment, which wins over the file.
func parseEnv(cfg *Config, dotenvPath string) {
	vars, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
		vars = map[string]string{}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vars[key]
	}

	if v := lookup(EnvAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := lookup(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}
