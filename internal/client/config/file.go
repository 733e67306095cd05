package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studyhub/internal/flagx"
	"github.com/dmitrijs2005/studyhub/internal/timex"
	"gopkg.in/yaml.v3"
)

// fileConfig is a DTO used exclusively for file decoding. Durations use
// timex.Duration so files can say "3s" or give integer nanoseconds. Keys
// missing from the file leave the current value alone.
type fileConfig struct {
	APIBaseURL     string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	MaxRetries     *uint64        `json:"max_retries" yaml:"max_retries"`
	RetryBaseDelay timex.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`
	LogLevel       string         `json:"log_level" yaml:"log_level"`
	RootName       string         `json:"root_name" yaml:"root_name"`
}

// parseFile overlays cfg with the file named by -c or -config. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON. It panics on
// read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc fileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.MaxRetries != nil {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.RetryBaseDelay.Duration > 0 {
		cfg.RetryBaseDelay = fc.RetryBaseDelay.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.RootName != "" {
		cfg.RootName = fc.RootName
	}
}
