package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends accepted in Config.StoreBackend.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the CartSync client.
//
// Fields:
//   - ServerEndpointAddr: base URL of the shop API.
//   - RequestTimeout: per-request HTTP timeout.
//   - StoreBackend: "sqlite" or "redis" for the durable session record.
//   - StoreDSN: SQLite file path (sqlite backend).
//   - RedisAddr: host:port of Redis (redis backend).
//   - LogLevel: debug, info, warn or error.
//   - MetricsAddr: listen address for /metrics; empty disables it.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	StoreBackend       string
	StoreDSN           string
	RedisAddr          string
	LogLevel           string
	MetricsAddr        string
}

// LoadDefaults populates c with defaults matching the shop frontend.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8080"
	c.RequestTimeout = 5 * time.Second
	c.StoreBackend = BackendSQLite
	c.StoreDSN = "session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// Validate rejects settings the client cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerEndpointAddr) == "" {
		return fmt.Errorf("server endpoint address must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0")
	}
	switch c.StoreBackend {
	case BackendSQLite:
		if c.StoreDSN == "" {
			return fmt.Errorf("sqlite store path must not be empty")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address must not be empty")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	return nil
}

// LoadConfig constructs a Config from os.Args: defaults first, then the
// optional config file (-c/-config), then flags. Later sources win.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
