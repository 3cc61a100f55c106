// Package snapshot persists the session identity across process restarts.
// The store is a single-key value store; the codec makes the stored value
// tamper-evident so a malformed snapshot always restores to "no session".
package snapshot

import "context"

// SessionKey is the fixed key under which the session snapshot is stored.
const SessionKey = "lrms_user"

// Store is the persisted-snapshot collaborator. Writes are full-replace at
// the storage layer; any merging happens in memory before Set is called.
type Store interface {
	// Get returns the value stored under key, and whether one was present.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error
	// Delete removes the value stored under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
