// SPDX-License-Identifier: MPL-2.0

// Package config loads minipack settings with Viper, using CUE as the file
// format.
//
// A config file is searched in this order: the path given with --config, the
// per-user file (~/.config/minipack/config.cue or the platform equivalent),
// then minipack.cue in the working directory. Files are validated against the
// embedded schema in config_schema.cue. MINIPACK_* environment variables,
// also read from a .env file, override file values.
package config
