// Package config loads, normalizes, and validates Beacon configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the BEACON_NTFY_TOPIC environment
// fallback. Watchers declared in the file describe which tracked actions
// produce failure or success notifications and how their messages read.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
