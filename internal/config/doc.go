// Package config loads and validates notedown settings from TOML and
// supports live reload of the settings file.
package config
