// Package config loads application configuration from environment
// variables and an optional YAML file, and centralizes filesystem
// path resolution relative to the executable.
//
// Environment variables use the BATT prefix (for example
// BATT_LOGGING_LEVEL) and take precedence over config.yaml values.
package config
