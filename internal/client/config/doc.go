// Package config loads runtime configuration for the gophdocs client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with --config/-c.
//  3. Command-line flags registered by RegisterFlags. Only flags set
//     explicitly on the command line override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "30s"
// or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8050",
//	  "api_key": "...",
//	  "request_timeout": "30s",
//	  "retry_attempts": 2,
//	  "per_page": 50,
//	  "baseline_dsn": "file:baselines.db",
//	  "s3": {"region": "us-east-1", "base_endpoint": "http://127.0.0.1:9000",
//	         "access_key": "...", "secret_key": "..."}
//	}
//
// An empty baseline_dsn keeps baselines in memory for the life of the
// process.
package config
