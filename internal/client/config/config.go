package config

import "time"

// Config holds runtime settings for the HerbLock CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the ledger gateway.
//   - DatabasePath: where the local SQLite database lives.
//   - OnlineCheckInterval: how often the client probes gateway reachability.
type Config struct {
	ServerEndpointAddr  string
	DatabasePath        string
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8000"
	c.DatabasePath = "herblock.db"
	c.OnlineCheckInterval = 10 * time.Second
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
