// Package config loads, normalizes, and validates burstpick configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts) and
// reads TOML files. Command-line flags are applied on top of the loaded
// values by the CLI; the result is converted into a burstpick.Config with
// Curation.
package config
