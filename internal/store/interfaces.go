package store

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValueStore is the persistence primitive the queue and the cache are
// built on. Values are opaque strings (serialized JSON).
//
// Implementations must be safe for concurrent use. A successful Set must be
// visible to every later Get, including after a process restart for the
// durable backends.
type KeyValueStore interface {
	// Get returns the value stored under key. The bool is false when the key
	// is absent; that is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// ListKeys returns every stored key starting with prefix, in
	// lexicographic order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
