package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/MKhiriev/go-offline-sync/internal/config"
)

const redisScanCount = 100

// redisKeyValueStore maps keys one-to-one onto Redis string keys. Values
// never expire in Redis; cache TTL is enforced by the cache store.
type redisKeyValueStore struct {
	client *redis.Client
}

// NewRedisClient creates a Redis client from the storage configuration.
func NewRedisClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisKeyValueStore returns a [KeyValueStore] over client.
func NewRedisKeyValueStore(client *redis.Client) KeyValueStore {
	return &redisKeyValueStore{client: client}
}

func (r *redisKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	if r.client == nil {
		return "", false, storageError("get", key, ErrNilClient)
	}

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storageError("get", key, fmt.Errorf("failed to get value from redis: %w", err))
	}

	return val, true, nil
}

func (r *redisKeyValueStore) Set(ctx context.Context, key, value string) error {
	if r.client == nil {
		return storageError("set", key, ErrNilClient)
	}

	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return storageError("set", key, fmt.Errorf("failed to set value in redis: %w", err))
	}

	return nil
}

func (r *redisKeyValueStore) Remove(ctx context.Context, key string) error {
	if r.client == nil {
		return storageError("remove", key, ErrNilClient)
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return storageError("remove", key, fmt.Errorf("failed to delete value from redis: %w", err))
	}

	return nil
}

func (r *redisKeyValueStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	if r.client == nil {
		return nil, storageError("list", prefix, ErrNilClient)
	}

	keys := make([]string, 0)
	iter := r.client.Scan(ctx, 0, escapeGlob(prefix)+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, storageError("list", prefix, fmt.Errorf("failed to scan redis keys: %w", err))
	}

	// SCAN may return a key more than once
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

// PingRedis checks the connection.
func PingRedis(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
