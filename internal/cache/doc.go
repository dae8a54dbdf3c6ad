// Package cache provides a file-based cache for LLM generation responses.
//
// Entries are keyed by a SHA-256 hash of the provider roles and prompt
// material. Each entry stores the raw response string with attribution
// (which provider and model produced it), a creation timestamp, and a
// TTL in seconds. Expired entries are skipped on read.
//
// The default cache directory is $XDG_CACHE_HOME/glint (or the
// OS-appropriate equivalent).
package cache
