// Package config loads calculator configuration with viper.
//
// Precedence, lowest to highest: built-in defaults, a YAML file, then
// PPCALC_* environment variables (PPCALC_CACHE_DIR for cache.dir). String
// values may reference environment variables as ${VAR}; a reference to an
// unset variable is an error rather than an empty string.
package config
