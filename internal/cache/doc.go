// Package cache provides a file-based cache for classifier verdicts.
//
// Entries are keyed by a SHA-256 hash of the provider name, model, and
// redacted batch payload. Each entry stores the raw verdict JSON along with
// a creation timestamp and a TTL in seconds. Expired entries are skipped on
// read and removed lazily.
//
// The default cache directory is $XDG_CACHE_HOME/aigate (or the
// OS-appropriate equivalent).
package cache
