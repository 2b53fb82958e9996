// Package config loads, normalizes, and validates dupecheck configuration.
//
// It supplies defaults for every matching threshold and retrieval limit,
// expands user paths (including tilde shortcuts), reads TOML files and honours
// the DUPECHECK_DATA_DIR environment override. Validation errors name the
// offending key so operators can fix the file directly.
package config
