package service

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-offline-sync/models"
)

// NetworkMonitor is the connectivity source the engine follows.
type NetworkMonitor interface {
	// IsOnline returns the current debounced state.
	IsOnline() bool
	// Subscribe registers fn for state changes.
	Subscribe(fn func(isOnline bool)) (unsubscribe func())
}

// QueueStore is the persistent FIFO of pending requests.
type QueueStore interface {
	Enqueue(ctx context.Context, endpoint, method string, payload json.RawMessage, opts models.RequestOptions) (models.QueuedRequest, error)
	List(ctx context.Context) ([]models.QueuedRequest, error)
	Count(ctx context.Context) (int, error)
	// Update applies fn to the current queue and persists the result in one
	// write. Requests enqueued concurrently are visible to fn.
	Update(ctx context.Context, fn func([]models.QueuedRequest) []models.QueuedRequest) error
	RemoveByTag(ctx context.Context, tag string) (int, error)
	Clear(ctx context.Context) error
}

// CacheStore is the TTL cache of read-model data.
type CacheStore interface {
	Set(ctx context.Context, key string, data any, opts models.CacheOptions) error
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)
	GetOrDefault(ctx context.Context, key string, def json.RawMessage) (json.RawMessage, error)
	Remove(ctx context.Context, key string) error
	ClearAll(ctx context.Context) (int, error)
}

// Engine is the offline-first facade used by the application and the
// control API.
type Engine interface {
	// QueueRequest sends the request immediately when online and not forced
	// to queue; otherwise, or when the send fails, it is persisted for a
	// later sync pass. Only validation and storage failures are returned.
	QueueRequest(ctx context.Context, endpoint, method string, payload json.RawMessage, opts models.RequestOptions) (models.QueueResult, error)

	// Synchronize runs one sync pass. It never blocks on another pass: a
	// concurrent call gets a failed result immediately.
	Synchronize(ctx context.Context) models.SyncResult

	// CacheData stores data under key. A nil expiration in opts uses the
	// configured default TTL.
	CacheData(ctx context.Context, key string, data any, opts models.CacheOptions) error

	// GetCachedData returns the cached value or def when it is missing or
	// expired.
	GetCachedData(ctx context.Context, key string, def json.RawMessage) (json.RawMessage, error)

	RemoveCachedData(ctx context.Context, key string) error

	// ClearOfflineData empties both the queue and the cache.
	ClearOfflineData(ctx context.Context) error

	// CancelRequests drops every queued request carrying tag and returns
	// how many were removed.
	CancelRequests(ctx context.Context, tag string) (int, error)

	State() models.SyncState
	Subscribe(fn func(models.SyncState)) (unsubscribe func())

	Start(ctx context.Context)
	Stop()
}
