package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidEngineConfigs indicates unusable engine tunables
	// (for example, a zero sync interval or an empty queue key).
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
	// ErrInvalidAdapterConfigs indicates invalid backend settings
	// (for example, missing HTTP address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates an unknown driver or a driver
	// missing its connection settings.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidNetworkConfigs indicates invalid monitor settings.
	ErrInvalidNetworkConfigs = errors.New("invalid network configuration")
	// ErrInvalidServerConfigs indicates invalid control API settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
