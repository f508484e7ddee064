package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// CacheStore keeps read-model values with a per-entry TTL. Each entry is
// stored under prefix+key; expiry is checked lazily on read.
type CacheStore struct {
	kv         KeyValueStore
	prefix     string
	defaultTTL time.Duration
	clock      utils.Clock
	logger     *logger.Logger
}

// NewCacheStore returns a cache namespaced by prefix whose entries live for
// defaultTTL unless the caller overrides it.
func NewCacheStore(kv KeyValueStore, prefix string, defaultTTL time.Duration, clock utils.Clock, logger *logger.Logger) *CacheStore {
	return &CacheStore{
		kv:         kv,
		prefix:     prefix,
		defaultTTL: defaultTTL,
		clock:      clock,
		logger:     logger,
	}
}

// Set stores data under key stamped with the current time. opts.Expiration
// overrides the default TTL; a zero or negative value makes the entry
// expire on the next read.
func (c *CacheStore) Set(ctx context.Context, key string, data any, opts models.CacheOptions) error {
	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode cache data for %q: %w", key, err)
	}

	ttl := c.defaultTTL
	if opts.Expiration != nil {
		ttl = *opts.Expiration
	}

	entry := models.CacheEntry{
		Key:        key,
		Data:       encoded,
		Timestamp:  c.clock.Now(),
		Expiration: ttl,
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry %q: %w", key, err)
	}

	return storageError("set", c.storageKey(key), c.kv.Set(ctx, c.storageKey(key), string(payload)))
}

// Get returns the data stored under key while it is fresh. A stale or
// undecodable entry is deleted and reported as absent.
func (c *CacheStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	entry, ok, err := c.entry(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	return entry.Data, true, nil
}

// GetOrDefault is Get with def substituted for an absent entry.
func (c *CacheStore) GetOrDefault(ctx context.Context, key string, def json.RawMessage) (json.RawMessage, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return data, nil
}

// Entry returns the whole fresh entry under key, including its timestamp.
func (c *CacheStore) Entry(ctx context.Context, key string) (models.CacheEntry, bool, error) {
	return c.entry(ctx, key)
}

// Remove deletes the entry under key.
func (c *CacheStore) Remove(ctx context.Context, key string) error {
	return storageError("remove", c.storageKey(key), c.kv.Remove(ctx, c.storageKey(key)))
}

// ClearAll deletes every entry under the cache prefix and returns how many
// keys were removed.
func (c *CacheStore) ClearAll(ctx context.Context) (int, error) {
	keys, err := c.kv.ListKeys(ctx, c.prefix)
	if err != nil {
		return 0, storageError("list", c.prefix, err)
	}

	for i, k := range keys {
		if err = c.kv.Remove(ctx, k); err != nil {
			return i, storageError("remove", k, err)
		}
	}

	return len(keys), nil
}

func (c *CacheStore) entry(ctx context.Context, key string) (models.CacheEntry, bool, error) {
	storageKey := c.storageKey(key)

	raw, ok, err := c.kv.Get(ctx, storageKey)
	if err != nil {
		return models.CacheEntry{}, false, storageError("get", storageKey, err)
	}
	if !ok {
		return models.CacheEntry{}, false, nil
	}

	var entry models.CacheEntry
	if err = json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		c.evict(ctx, storageKey)
		return models.CacheEntry{}, false, nil
	}

	if entry.Expired(c.clock.Now()) {
		c.evict(ctx, storageKey)
		return models.CacheEntry{}, false, nil
	}

	return entry, true, nil
}

// evict is best effort: the entry is already treated as absent.
func (c *CacheStore) evict(ctx context.Context, storageKey string) {
	if err := c.kv.Remove(ctx, storageKey); err != nil {
		c.logger.Warn().Err(err).Str("key", storageKey).Msg("failed to evict cache entry")
	}
}

func (c *CacheStore) storageKey(key string) string {
	return c.prefix + key
}
