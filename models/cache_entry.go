package models

import (
	"encoding/json"
	"time"
)

// CacheEntry is a cached read-model value with its own time-to-live.
type CacheEntry struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	Timestamp  time.Time       `json:"timestamp"`
	Expiration time.Duration   `json:"-"`
}

// Expired reports whether the entry must be treated as absent at now.
// A zero or negative expiration expires on the next read.
func (e CacheEntry) Expired(now time.Time) bool {
	if e.Expiration <= 0 {
		return true
	}
	return now.Sub(e.Timestamp) > e.Expiration
}

type cacheEntryJSON struct {
	Key          string          `json:"key"`
	Data         json.RawMessage `json:"data"`
	Timestamp    int64           `json:"timestamp"`
	ExpirationMS int64           `json:"expiration"`
}

// MarshalJSON stores timestamp and expiration as milliseconds.
func (e CacheEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(cacheEntryJSON{
		Key:          e.Key,
		Data:         e.Data,
		Timestamp:    e.Timestamp.UnixMilli(),
		ExpirationMS: e.Expiration.Milliseconds(),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *CacheEntry) UnmarshalJSON(b []byte) error {
	var raw cacheEntryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	e.Key = raw.Key
	e.Data = raw.Data
	e.Timestamp = time.UnixMilli(raw.Timestamp)
	e.Expiration = time.Duration(raw.ExpirationMS) * time.Millisecond
	return nil
}

// CacheOptions customise a single cacheData call.
type CacheOptions struct {
	// Expiration overrides the engine default TTL when non-nil.
	Expiration *time.Duration `json:"-"`
}

// WithExpiration is a shorthand for CacheOptions{Expiration: &d}.
func WithExpiration(d time.Duration) CacheOptions {
	return CacheOptions{Expiration: &d}
}
