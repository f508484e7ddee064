package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-offline-sync/internal/config"
	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/utils"
)

// Storages groups the key-value backend with the queue and cache built on
// top of it.
type Storages struct {
	KV    KeyValueStore
	Queue *QueueStore
	Cache *CacheStore

	closers []func() error
}

// NewStorages opens the backend selected by cfg.Driver and builds the queue
// and cache stores over it using the engine key layout.
//
//   - "memory": process-local map, nothing survives a restart;
//   - "file":   one JSON document at cfg.DSN;
//   - "sqlite": SQLite database at cfg.DSN, migrated on open;
//   - "redis":  Redis at cfg.Redis.Address, pinged on open.
func NewStorages(ctx context.Context, cfg config.Storage, engine config.Engine, clock utils.Clock, ids utils.IDGenerator, logger *logger.Logger) (*Storages, error) {
	logger.Info().Str("driver", cfg.Driver).Msg("creating new storages...")

	s := &Storages{}

	switch cfg.Driver {
	case config.DriverMemory:
		s.KV = NewMemoryKeyValueStore()

	case config.DriverFile:
		kv, err := NewFileKeyValueStore(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("file storage error: %w", err)
		}
		s.KV = kv

	case config.DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err = db.Migrate(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		s.KV = NewSQLiteKeyValueStore(db, logger)
		s.closers = append(s.closers, db.Close)

	case config.DriverRedis:
		client := NewRedisClient(cfg.Redis)
		if err := PingRedis(ctx, client); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connection error: %w", err)
		}
		s.KV = NewRedisKeyValueStore(client)
		s.closers = append(s.closers, client.Close)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	s.Queue = NewQueueStore(s.KV, engine.QueueKey, clock, ids, logger)
	s.Cache = NewCacheStore(s.KV, engine.CachePrefix, engine.DefaultCacheTTL, clock, logger)

	return s, nil
}

// NewStoragesWith builds the queue and cache over an existing backend.
func NewStoragesWith(kv KeyValueStore, engine config.Engine, clock utils.Clock, ids utils.IDGenerator, logger *logger.Logger) *Storages {
	return &Storages{
		KV:    kv,
		Queue: NewQueueStore(kv, engine.QueueKey, clock, ids, logger),
		Cache: NewCacheStore(kv, engine.CachePrefix, engine.DefaultCacheTTL, clock, logger),
	}
}

// Close releases backend connections.
func (s *Storages) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
