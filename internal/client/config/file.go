package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cartsync/internal/flagx"
	"github.com/dmitrijs2005/cartsync/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO for config files. Zero values leave the
// corresponding Config field untouched.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	StoreBackend       string         `json:"store_backend" yaml:"store_backend"`
	StoreDSN           string         `json:"store_dsn" yaml:"store_dsn"`
	RedisAddr          string         `json:"redis_addr" yaml:"redis_addr"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
	MetricsAddr        string         `json:"metrics_addr" yaml:"metrics_addr"`
}

// parseFile overlays Config with the file named by -c/-config, if any.
// .yaml and .yml files are decoded as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.StoreBackend != "" {
		cfg.StoreBackend = fc.StoreBackend
	}
	if fc.StoreDSN != "" {
		cfg.StoreDSN = fc.StoreDSN
	}
	if fc.RedisAddr != "" {
		cfg.RedisAddr = fc.RedisAddr
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.MetricsAddr != "" {
		cfg.MetricsAddr = fc.MetricsAddr
	}
}
