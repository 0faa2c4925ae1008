// Package config loads, normalizes, and validates mediaparse configuration data.
//
// It supplies repository defaults for every extraction vocabulary and regular
// expression, reads TOML files, expands user paths, and honours environment
// fallbacks such as MEDIAPARSE_LOG_LEVEL and MEDIAPARSE_CACHE_DIR. Validate
// compiles every configured pattern so a bad expression fails at load time
// rather than halfway through a batch.
//
// Always obtain settings through this package so downstream code receives
// non-empty vocabularies, canonical log formats, and clear validation errors.
package config
