// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the skinform client.
//
// Fields:
//   - ServerBaseURL: base URL of the recommendation server's HTTP API.
//   - DatabasePath: path of the local SQLite database file.
//   - SessionMaxAge: how long a stored session stays valid without re-login.
type Config struct {
	ServerBaseURL string
	DatabasePath  string
	SessionMaxAge time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.DatabasePath = "skinform.db"
	c.SessionMaxAge = 30 * 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
