// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
	"github.com/MKhiriev/go-offline-sync/models"
)

// QueueStore is the durable FIFO of pending mutations. The whole queue is
// one JSON array under a single key, and every mutation is one
// read→compute→write cycle under the store mutex.
//
// The key-value store is the only copy of the queue; when a write fails the
// stored queue, and therefore every later read, is unchanged.
type QueueStore struct {
	kv     KeyValueStore
	key    string
	clock  utils.Clock
	ids    utils.IDGenerator
	logger *logger.Logger

	mu sync.Mutex
}

// NewQueueStore returns a queue persisted under key.
func NewQueueStore(kv KeyValueStore, key string, clock utils.Clock, ids utils.IDGenerator, logger *logger.Logger) *QueueStore {
	return &QueueStore{
		kv:     kv,
		key:    key,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}
}

// Enqueue appends a new request with a fresh ID, the current time and a
// zero retry count, and returns the stored record.
func (q *QueueStore) Enqueue(ctx context.Context, endpoint, method string, payload json.RawMessage, opts models.RequestOptions) (models.QueuedRequest, error) {
	req := models.QueuedRequest{
		ID:         q.ids.Generate(),
		Endpoint:   endpoint,
		Method:     strings.ToUpper(method),
		Payload:    slices.Clone(payload),
		EnqueuedAt: q.clock.Now(),
		RetryCount: 0,
		Tags:       slices.Clone(opts.Tags),
		Headers:    maps.Clone(opts.Headers),
	}

	err := q.Update(ctx, func(list []models.QueuedRequest) []models.QueuedRequest {
		return append(list, req)
	})
	if err != nil {
		return models.QueuedRequest{}, err
	}

	q.logger.Debug().
		Str("request_id", req.ID).
		Str("method", req.Method).
		Str("endpoint", req.Endpoint).
		Msg("request enqueued")

	return req, nil
}

// List returns the queue in insertion order. A missing key is an empty queue.
func (q *QueueStore) List(ctx context.Context) ([]models.QueuedRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.load(ctx)
}

// Count returns the number of pending requests.
func (q *QueueStore) Count(ctx context.Context) (int, error) {
	list, err := q.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Remove drops the request with id. Removing an unknown id is a no-op and
// does not write.
func (q *QueueStore) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	list, err := q.load(ctx)
	if err != nil {
		return err
	}

	idx := slices.IndexFunc(list, func(r models.QueuedRequest) bool { return r.ID == id })
	if idx < 0 {
		return nil
	}

	return q.persist(ctx, slices.Delete(list, idx, idx+1))
}

// ReplaceAll overwrites the whole queue in one write.
func (q *QueueStore) ReplaceAll(ctx context.Context, list []models.QueuedRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.persist(ctx, list)
}

// Update loads the queue, applies fn and writes the result back, all under
// the store mutex. fn must not call back into the QueueStore.
func (q *QueueStore) Update(ctx context.Context, fn func([]models.QueuedRequest) []models.QueuedRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	list, err := q.load(ctx)
	if err != nil {
		return err
	}

	return q.persist(ctx, fn(list))
}

// RemoveByTag drops every request carrying tag and returns how many were
// removed.
func (q *QueueStore) RemoveByTag(ctx context.Context, tag string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	list, err := q.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := slices.DeleteFunc(slices.Clone(list), func(r models.QueuedRequest) bool { return r.HasTag(tag) })
	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	if err = q.persist(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Clear removes the queue key.
func (q *QueueStore) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return storageError("remove", q.key, q.kv.Remove(ctx, q.key))
}

func (q *QueueStore) load(ctx context.Context) ([]models.QueuedRequest, error) {
	raw, ok, err := q.kv.Get(ctx, q.key)
	if err != nil {
		return nil, storageError("get", q.key, err)
	}
	if !ok || raw == "" {
		return []models.QueuedRequest{}, nil
	}

	var list []models.QueuedRequest
	if err = json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, storageError("get", q.key, fmt.Errorf("%w: %w", ErrCorruptedRecord, err))
	}
	if list == nil {
		list = []models.QueuedRequest{}
	}

	return list, nil
}

func (q *QueueStore) persist(ctx context.Context, list []models.QueuedRequest) error {
	if list == nil {
		list = []models.QueuedRequest{}
	}

	payload, err := json.Marshal(list)
	if err != nil {
		return storageError("set", q.key, fmt.Errorf("encode queue: %w", err))
	}

	return storageError("set", q.key, q.kv.Set(ctx, q.key, string(payload)))
}
