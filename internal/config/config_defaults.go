package config

import "time"

// Default values applied when no other source sets a field.
const (
	DefaultMaxRetryAttempts   = 3
	DefaultSyncInterval       = 60 * time.Second
	DefaultStabilizationDelay = 2 * time.Second
	DefaultCacheTTL           = 24 * time.Hour
	DefaultQueueKey           = "offline_queue"
	DefaultCachePrefix        = "offline_cache:"

	DefaultStorageDriver = DriverFile
	DefaultStorageDSN    = "offline.json"

	DefaultAdapterRequestTimeout = 15 * time.Second

	DefaultNetworkCheckInterval  = 5 * time.Second
	DefaultNetworkDebounceChecks = 2

	DefaultServerAddress        = "127.0.0.1:8089"
	DefaultServerRequestTimeout = 30 * time.Second

	DefaultLoggingLevel = "info"
)

// Storage driver names accepted by Storage.Driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// defaults returns the lowest-priority configuration layer.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		Engine: Engine{
			MaxRetryAttempts:   DefaultMaxRetryAttempts,
			SyncInterval:       DefaultSyncInterval,
			StabilizationDelay: DefaultStabilizationDelay,
			DefaultCacheTTL:    DefaultCacheTTL,
			QueueKey:           DefaultQueueKey,
			CachePrefix:        DefaultCachePrefix,
		},
		Storage: Storage{
			Driver: DefaultStorageDriver,
			DSN:    DefaultStorageDSN,
		},
		Adapter: Adapter{
			RequestTimeout: DefaultAdapterRequestTimeout,
		},
		Network: Network{
			CheckInterval:  DefaultNetworkCheckInterval,
			DebounceChecks: DefaultNetworkDebounceChecks,
		},
		Server: Server{
			HTTPAddress:    DefaultServerAddress,
			RequestTimeout: DefaultServerRequestTimeout,
		},
		Logging: Logging{
			Level: DefaultLoggingLevel,
		},
	}
}

// DefaultEngine returns the engine settings used when nothing is configured.
func DefaultEngine() Engine {
	return defaults().Engine
}
