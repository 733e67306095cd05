package config

import (
	"time"

	"github.com/dmitrijs2005/studyhub/internal/common"
)

// Config holds runtime settings for the studyhub CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST backend.
//   - RequestTimeout: per-request timeout of the HTTP client.
//   - MaxRetries, RetryBaseDelay: retry policy for idempotent requests.
//   - LogLevel: debug, info, warn or error.
//   - Token: access token used to log in at startup, if set.
//   - RootName: label of the synthetic root in breadcrumbs.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	MaxRetries     uint64
	RetryBaseDelay time.Duration
	LogLevel       string
	Token          string
	RootName       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 10 * time.Second
	c.MaxRetries = 2
	c.RetryBaseDelay = 200 * time.Millisecond
	c.LogLevel = "info"
	c.Token = ""
	c.RootName = common.RootName
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg, ".env")
	parseFlags(cfg)
	return cfg
}
