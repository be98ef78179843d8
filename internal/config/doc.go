// Package config loads the pricer's YAML configuration.
//
// A config file is optional. Values not set in the file fall back to the
// defaults in defaults.go, and ${VAR} references are expanded from the
// environment before parsing. Account credentials are never read from
// here; see package auth.
package config
