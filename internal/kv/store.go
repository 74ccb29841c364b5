// Package kv provides the durable string-keyed storage that the favourites
// and account stores persist through.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("key not found")

// Well-known keys. Values are JSON text.
const (
	KeySession    = "user"
	KeyUsers      = "users"
	KeyFavourites = "favourites"
)

// Store is a durable string-keyed store that survives process restarts.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases any resources held by the store.
	Close() error
}
