// Package config loads runtime configuration for spellctl.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. SPELLCTL_* environment variables.
//  4. Global command-line flags given before the subcommand.
//
// Supported flags
//
//	-a string     address:port of the spell service
//	-t string     access token
//	-T duration   per-call timeout
//
// # File schema
//
// Intervals use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	server_endpoint_addr: 127.0.0.1:50051
//	access_token: eyJhbGciOi...
//	timeout: 5s
package config
