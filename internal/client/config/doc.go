// Package config loads runtime configuration for the studyhub CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via flags: -c or -config. Files ending in
//     .yaml/.yml are read as YAML, anything else as JSON.
//  3. A .env file in the working directory, then the process environment:
//     STUDYHUB_API_URL, STUDYHUB_TOKEN, STUDYHUB_LOG_LEVEL.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the API
//	-t int      request timeout (seconds)
//	-r int      retries for idempotent requests
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	api_base_url: http://localhost:8000
//	request_timeout: 10s
//	max_retries: 2
//	retry_base_delay: 200ms
//	log_level: info
//	root_name: Materials
//
// The access token is never read from config files; pass it through the
// environment or the login prompt.
package config
