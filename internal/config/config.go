// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// offline sync agent. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, an
// optional JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Engine holds the synchronization engine tunables: retry ceiling,
	// periodic sync interval, cache TTL and storage key layout.
	Engine Engine `envPrefix:"ENGINE_"`

	// Storage selects and configures the key-value backend that persists
	// the queue and the cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds the backend endpoint queued requests are replayed to.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Network configures the connectivity monitor.
	Network Network `envPrefix:"NETWORK_"`

	// Server holds the local control API listener settings.
	Server Server `envPrefix:"SERVER_"`

	// Logging controls level and destination of the zerolog output.
	Logging Logging `envPrefix:"LOGGING_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Engine holds the synchronization engine settings.
type Engine struct {
	// MaxRetryAttempts is the number of failed transient attempts after
	// which a queued request is dropped.
	// Env: ENGINE_MAX_RETRY_ATTEMPTS
	MaxRetryAttempts int `env:"MAX_RETRY_ATTEMPTS"`

	// SyncInterval is the period of the background sync job.
	// Env: ENGINE_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// StabilizationDelay is how long the device must stay online after an
	// offline→online transition before a sync pass starts.
	// Env: ENGINE_STABILIZATION_DELAY
	StabilizationDelay time.Duration `env:"STABILIZATION_DELAY"`

	// DefaultCacheTTL applies to cache entries stored without an explicit
	// expiration.
	// Env: ENGINE_DEFAULT_CACHE_TTL
	DefaultCacheTTL time.Duration `env:"DEFAULT_CACHE_TTL"`

	// QueueKey is the storage key holding the serialized queue.
	// Env: ENGINE_QUEUE_KEY
	QueueKey string `env:"QUEUE_KEY"`

	// CachePrefix namespaces every cache entry key.
	// Env: ENGINE_CACHE_PREFIX
	CachePrefix string `env:"CACHE_PREFIX"`

	// TransientStatusCodes lists extra HTTP status codes treated as
	// transient in addition to 429 and 5xx.
	// Env: ENGINE_TRANSIENT_STATUS_CODES (comma separated)
	TransientStatusCodes []int `env:"TRANSIENT_STATUS_CODES" envSeparator:","`

	// RequestsPerSecond paces sends within one sync pass. Zero disables pacing.
	// Env: ENGINE_REQUESTS_PER_SECOND
	RequestsPerSecond float64 `env:"REQUESTS_PER_SECOND"`

	// StrictOptions rejects unknown keys in request options at the API boundary.
	// Env: ENGINE_STRICT_OPTIONS
	StrictOptions bool `env:"STRICT_OPTIONS"`
}

// Storage groups the configuration of the key-value backend.
type Storage struct {
	// Driver is one of "memory", "file", "sqlite" or "redis".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the file path for the "file" and "sqlite" drivers.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`

	// Redis holds the connection settings for the "redis" driver.
	Redis Redis `envPrefix:"REDIS_"`
}

// Redis holds connection settings for the Redis backend.
type Redis struct {
	// Env: STORAGE_REDIS_ADDRESS
	Address string `env:"ADDRESS"`
	// Env: STORAGE_REDIS_PASSWORD
	Password string `env:"PASSWORD"`
	// Env: STORAGE_REDIS_DB
	DB int `env:"DB"`
}

// Adapter holds the outbound backend settings.
type Adapter struct {
	// HTTPAddress is the backend base URL (e.g. "https://api.example.com").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound request (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Network holds the connectivity monitor settings.
type Network struct {
	// ProbeURL is requested with HEAD to prove reachability. Defaults to
	// Adapter.HTTPAddress.
	// Env: NETWORK_PROBE_URL
	ProbeURL string `env:"PROBE_URL"`

	// CheckInterval is the polling period of the monitor.
	// Env: NETWORK_CHECK_INTERVAL
	CheckInterval time.Duration `env:"CHECK_INTERVAL"`

	// DebounceChecks is the number of consecutive identical observations
	// required before a transition is reported.
	// Env: NETWORK_DEBOUNCE_CHECKS
	DebounceChecks int `env:"DEBOUNCE_CHECKS"`
}

// Server holds the local control API listener settings.
type Server struct {
	// HTTPAddress is the TCP address in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound API request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Logging holds log output settings.
type Logging struct {
	// Env: LOGGING_LEVEL
	Level string `env:"LEVEL"`
	// FilePath switches output to a rotated file.
	// Env: LOGGING_FILE_PATH
	FilePath string `env:"FILE_PATH"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Sources are consulted in the following priority order
// (a field set by an earlier source is kept):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
