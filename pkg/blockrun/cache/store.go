// Package cache provides the result-caching policy and storage for the
// execution engine: cacheability and TTL rules over block modifiers, plus
// pluggable entry stores (in-memory and SQLite).
package cache

import (
	"errors"
	"time"
)

// Entry is one cached block result with its capture time.
type Entry struct {
	Result     string
	CapturedAt time.Time
}

// Fresh reports whether the entry is still valid at now for the given TTL.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CapturedAt) < ttl
}

// Store persists cache entries keyed by block name.
// Entries survive document re-registration until they expire or caching
// is disabled; a persistent store additionally survives process restarts.
type Store interface {
	// Put stores or replaces the entry for a block name.
	Put(name string, e Entry) error

	// Get retrieves the entry for a block name.
	// Returns ErrNotFound if no entry exists.
	Get(name string) (Entry, error)

	// Delete removes the entry for a block name.
	// Returns nil if no entry exists.
	Delete(name string) error

	// Purge removes all entries.
	Purge() error

	// Close releases any resources.
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no cache entry exists for the name.
	ErrNotFound = errors.New("cache entry not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("cache store closed")
)
