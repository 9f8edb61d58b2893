// Package storage defines the local key-value storage the task store
// persists into. Values are opaque strings; the store owns their encoding.
package storage

import "context"

// Storage is a string key-value store. Every write is durable when the call
// returns.
type Storage interface {
	// GetItem returns the value for key. ok is false if the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
