// Package config loads runtime configuration for the CartSync client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config (JSON, or YAML when
//     the name ends in .yaml/.yml).
//  3. Command-line flags, which override earlier values.
//
// # File schema
//
// Durations may be strings like "5s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://localhost:8080",
//	  "request_timeout": "5s",
//	  "store_backend": "sqlite",
//	  "store_dsn": "session.db"
//	}
//
// Environment variables are not read.
package config
