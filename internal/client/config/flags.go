package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/flagx"
)

// Flag names. Each setting has a one-letter form and a long form; both are
// accepted with one or two dashes.
var flagNames = [][2]string{
	{"a", "addr"},
	{"t", "timeout"},
	{"b", "store"},
	{"s", "store-dsn"},
	{"r", "redis"},
	{"l", "log-level"},
	{"m", "metrics"},
}

func ownFlags() []string {
	out := make([]string, 0, len(flagNames)*4)
	for _, n := range flagNames {
		out = append(out, "-"+n[0], "--"+n[0], "-"+n[1], "--"+n[1])
	}
	return out
}

// parseFlags overlays Config with command-line flags.
//
//	-a, --addr string       base URL of the shop API
//	-t, --timeout int       request timeout (in seconds)
//	-b, --store string      session store backend (sqlite|redis)
//	-s, --store-dsn string  sqlite session file
//	-r, --redis string      redis address
//	-l, --log-level string  log level
//	-m, --metrics string    metrics listen address
//
// Only these flags are looked at (see flagx.FilterArgs); the rest of the
// command line belongs to the cobra commands.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("cartsync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	timeout := int(cfg.RequestTimeout.Seconds())
	for _, name := range []string{"a", "addr"} {
		fs.StringVar(&cfg.ServerEndpointAddr, name, cfg.ServerEndpointAddr, "base URL of the shop API")
	}
	for _, name := range []string{"t", "timeout"} {
		fs.IntVar(&timeout, name, timeout, "request timeout (in seconds)")
	}
	for _, name := range []string{"b", "store"} {
		fs.StringVar(&cfg.StoreBackend, name, cfg.StoreBackend, "session store backend (sqlite|redis)")
	}
	for _, name := range []string{"s", "store-dsn"} {
		fs.StringVar(&cfg.StoreDSN, name, cfg.StoreDSN, "sqlite session file")
	}
	for _, name := range []string{"r", "redis"} {
		fs.StringVar(&cfg.RedisAddr, name, cfg.RedisAddr, "redis address")
	}
	for _, name := range []string{"l", "log-level"} {
		fs.StringVar(&cfg.LogLevel, name, cfg.LogLevel, "log level")
	}
	for _, name := range []string{"m", "metrics"} {
		fs.StringVar(&cfg.MetricsAddr, name, cfg.MetricsAddr, "metrics listen address")
	}

	if err := fs.Parse(flagx.FilterArgs(args, ownFlags())); err != nil {
		return err
	}

	// Only an explicit -t replaces the timeout; a file value may carry
	// sub-second precision.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" || f.Name == "timeout" {
			cfg.RequestTimeout = time.Duration(timeout) * time.Second
		}
	})
	return nil
}
