// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the handshare CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the handshare API.
//   - RequestTimeout: per-request HTTP timeout.
//   - PollInterval: how often the watch loop polls the session.
//   - StateDBFile: sqlite file persisting identity and session state
//     between runs.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	StateDBFile    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.PollInterval = 2 * time.Second
	c.StateDBFile = "handshare.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
