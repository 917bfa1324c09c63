// Package config loads the process configuration from a single TOML file in
// the user config directory, with CDO_* environment variables overriding file
// values. The result is validated once and handed to constructors as a
// read-only *Config.
package config
