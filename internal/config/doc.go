// Package config loads, validates, and normalizes reunite configuration.
//
// Configuration is TOML and lives at ~/.config/reunite/config.toml by
// default; a reunite.toml in the working directory is also honored. Every
// field has a default so the tool runs without a config file at all.
package config
