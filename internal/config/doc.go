// Package config loads and merges aigate configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (AIGATE_PROVIDER, AIGATE_MODEL, AIGATE_WEBHOOK_URL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/aigate/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [SetField] to update a single
// key from the command line.
package config
