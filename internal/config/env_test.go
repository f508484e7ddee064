// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"CONFIG": "/path/to/config.json",

		"ENGINE_MAX_RETRY_ATTEMPTS":     "5",
		"ENGINE_SYNC_INTERVAL":          "30s",
		"ENGINE_STABILIZATION_DELAY":    "1s",
		"ENGINE_DEFAULT_CACHE_TTL":      "2h",
		"ENGINE_QUEUE_KEY":              "q",
		"ENGINE_CACHE_PREFIX":           "c:",
		"ENGINE_TRANSIENT_STATUS_CODES": "408,425",
		"ENGINE_REQUESTS_PER_SECOND":    "2.5",
		"ENGINE_STRICT_OPTIONS":         "true",

		"STORAGE_DRIVER":         "redis",
		"STORAGE_DSN":            "/tmp/offline.db",
		"STORAGE_REDIS_ADDRESS":  "localhost:6379",
		"STORAGE_REDIS_PASSWORD": "secret",
		"STORAGE_REDIS_DB":       "2",

		"ADAPTER_ADDRESS":         "https://api.example.com",
		"ADAPTER_REQUEST_TIMEOUT": "10s",

		"NETWORK_PROBE_URL":       "https://api.example.com/health",
		"NETWORK_CHECK_INTERVAL":  "3s",
		"NETWORK_DEBOUNCE_CHECKS": "4",

		"SERVER_ADDRESS":         "127.0.0.1:9000",
		"SERVER_REQUEST_TIMEOUT": "20s",

		"LOGGING_LEVEL":     "debug",
		"LOGGING_FILE_PATH": "/var/log/agent.log",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, 5, cfg.Engine.MaxRetryAttempts)
	assert.Equal(t, 30*time.Second, cfg.Engine.SyncInterval)
	assert.Equal(t, time.Second, cfg.Engine.StabilizationDelay)
	assert.Equal(t, 2*time.Hour, cfg.Engine.DefaultCacheTTL)
	assert.Equal(t, "q", cfg.Engine.QueueKey)
	assert.Equal(t, "c:", cfg.Engine.CachePrefix)
	assert.Equal(t, []int{408, 425}, cfg.Engine.TransientStatusCodes)
	assert.InDelta(t, 2.5, cfg.Engine.RequestsPerSecond, 1e-9)
	assert.True(t, cfg.Engine.StrictOptions)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/offline.db", cfg.Storage.DSN)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Address)
	assert.Equal(t, "secret", cfg.Storage.Redis.Password)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)

	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, "https://api.example.com/health", cfg.Network.ProbeURL)
	assert.Equal(t, 3*time.Second, cfg.Network.CheckInterval)
	assert.Equal(t, 4, cfg.Network.DebounceChecks)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/var/log/agent.log", cfg.Logging.FilePath)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ADAPTER_ADDRESS": "https://api.example.com",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://api.example.com", cfg.Adapter.HTTPAddress)
	assert.Zero(t, cfg.Engine.MaxRetryAttempts)
	assert.Empty(t, cfg.Storage.Driver)
	assert.Nil(t, cfg.Engine.TransientStatusCodes)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ENGINE_SYNC_INTERVAL": "not-a-duration",
	})

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{
		"ENGINE_MAX_RETRY_ATTEMPTS": "three",
	})

	assert.Error(t, parseEnv(&StructuredConfig{}))
}

func TestParseEnvFrom_IgnoresProcessEnvironment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "redis")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnvFrom(cfg, map[string]string{
		"STORAGE_DRIVER":                "memory",
		"ENGINE_TRANSIENT_STATUS_CODES": "408",
	}))

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, []int{408}, cfg.Engine.TransientStatusCodes)
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

// clearEnvVars blanks every variable the config reads so the host
// environment cannot leak into a test.
func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",
		"ENGINE_MAX_RETRY_ATTEMPTS", "ENGINE_SYNC_INTERVAL", "ENGINE_STABILIZATION_DELAY",
		"ENGINE_DEFAULT_CACHE_TTL", "ENGINE_QUEUE_KEY", "ENGINE_CACHE_PREFIX",
		"ENGINE_TRANSIENT_STATUS_CODES", "ENGINE_REQUESTS_PER_SECOND", "ENGINE_STRICT_OPTIONS",
		"STORAGE_DRIVER", "STORAGE_DSN", "STORAGE_REDIS_ADDRESS", "STORAGE_REDIS_PASSWORD", "STORAGE_REDIS_DB",
		"ADAPTER_ADDRESS", "ADAPTER_REQUEST_TIMEOUT",
		"NETWORK_PROBE_URL", "NETWORK_CHECK_INTERVAL", "NETWORK_DEBOUNCE_CHECKS",
		"SERVER_ADDRESS", "SERVER_REQUEST_TIMEOUT",
		"LOGGING_LEVEL", "LOGGING_FILE_PATH",
	}
	for _, k := range keys {
		if prev, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { _ = os.Setenv(k, prev) })
		}
	}
}
