// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

var storageDrivers = []string{DriverMemory, DriverFile, DriverSQLite, DriverRedis}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// It is run after the defaults layer, so zero values here are values that
// no source and no default filled in.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.Engine.Validate(); err != nil {
		return err
	}

	if !slices.Contains(storageDrivers, cfg.Storage.Driver) {
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}
	switch cfg.Storage.Driver {
	case DriverFile, DriverSQLite:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("%w: driver %q needs a DSN", ErrInvalidStorageConfigs, cfg.Storage.Driver)
		}
	case DriverRedis:
		if cfg.Storage.Redis.Address == "" {
			return fmt.Errorf("%w: redis address is empty", ErrInvalidStorageConfigs)
		}
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if u, err := url.Parse(cfg.Adapter.HTTPAddress); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: address must be an absolute URL", ErrInvalidAdapterConfigs)
	}

	if cfg.Network.CheckInterval <= 0 || cfg.Network.DebounceChecks < 1 {
		return ErrInvalidNetworkConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}

// Validate reports whether the engine settings are usable.
func (e Engine) Validate() error {
	switch {
	case e.MaxRetryAttempts < 0:
		return fmt.Errorf("%w: max retry attempts must not be negative", ErrInvalidEngineConfigs)
	case e.SyncInterval <= 0:
		return fmt.Errorf("%w: sync interval must be positive", ErrInvalidEngineConfigs)
	case e.StabilizationDelay < 0:
		return fmt.Errorf("%w: stabilization delay must not be negative", ErrInvalidEngineConfigs)
	case e.QueueKey == "":
		return fmt.Errorf("%w: queue key is empty", ErrInvalidEngineConfigs)
	case e.CachePrefix == "":
		return fmt.Errorf("%w: cache prefix is empty", ErrInvalidEngineConfigs)
	case strings.HasPrefix(e.QueueKey, e.CachePrefix):
		// ClearAll on the cache would wipe the queue
		return fmt.Errorf("%w: queue key %q falls under cache prefix %q", ErrInvalidEngineConfigs, e.QueueKey, e.CachePrefix)
	case e.DefaultCacheTTL <= 0:
		return fmt.Errorf("%w: default cache ttl must be positive", ErrInvalidEngineConfigs)
	case e.RequestsPerSecond < 0:
		return fmt.Errorf("%w: requests per second must not be negative", ErrInvalidEngineConfigs)
	}

	for _, code := range e.TransientStatusCodes {
		if code < 400 || code > 599 {
			return fmt.Errorf("%w: transient status code %d is not an error status", ErrInvalidEngineConfigs, code)
		}
	}

	return nil
}
