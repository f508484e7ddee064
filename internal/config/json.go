package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case keys and
// string durations ("15s", "24h").
type StructuredJSONConfig struct {
	Engine struct {
		MaxRetryAttempts     int      `json:"max_retry_attempts"`
		SyncInterval         Duration `json:"sync_interval"`
		StabilizationDelay   Duration `json:"stabilization_delay"`
		DefaultCacheTTL      Duration `json:"default_cache_ttl"`
		QueueKey             string   `json:"queue_key"`
		CachePrefix          string   `json:"cache_prefix"`
		TransientStatusCodes []int    `json:"transient_status_codes"`
		RequestsPerSecond    float64  `json:"requests_per_second"`
		StrictOptions        bool     `json:"strict_options"`
	} `json:"engine,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DSN    string `json:"dsn"`
		Redis  struct {
			Address  string `json:"address"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Network struct {
		ProbeURL       string   `json:"probe_url"`
		CheckInterval  Duration `json:"check_interval"`
		DebounceChecks int      `json:"debounce_checks"`
	} `json:"network,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Logging struct {
		Level    string `json:"level"`
		FilePath string `json:"file_path"`
	} `json:"logging,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Engine: Engine{
			MaxRetryAttempts:     jsonCfg.Engine.MaxRetryAttempts,
			SyncInterval:         time.Duration(jsonCfg.Engine.SyncInterval),
			StabilizationDelay:   time.Duration(jsonCfg.Engine.StabilizationDelay),
			DefaultCacheTTL:      time.Duration(jsonCfg.Engine.DefaultCacheTTL),
			QueueKey:             jsonCfg.Engine.QueueKey,
			CachePrefix:          jsonCfg.Engine.CachePrefix,
			TransientStatusCodes: jsonCfg.Engine.TransientStatusCodes,
			RequestsPerSecond:    jsonCfg.Engine.RequestsPerSecond,
			StrictOptions:        jsonCfg.Engine.StrictOptions,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DSN:    jsonCfg.Storage.DSN,
			Redis: Redis{
				Address:  jsonCfg.Storage.Redis.Address,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Network: Network{
			ProbeURL:       jsonCfg.Network.ProbeURL,
			CheckInterval:  time.Duration(jsonCfg.Network.CheckInterval),
			DebounceChecks: jsonCfg.Network.DebounceChecks,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Logging: Logging{
			Level:    jsonCfg.Logging.Level,
			FilePath: jsonCfg.Logging.FilePath,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
