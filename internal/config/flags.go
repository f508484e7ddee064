package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the command-line layer of the configuration. Unset flags
// stay at their zero value so lower-priority layers can fill them.
//
// Flags:
//
//	-a control API address in format [host]:[port]
//	-backend backend base URL queued requests are replayed to
//	-request-timeout outbound request timeout (e.g., "15s")
//	-probe-url reachability probe URL
//	-storage storage driver (memory, file, sqlite, redis)
//	-d storage DSN
//	-max-retries max retry attempts per queued request
//	-sync-interval periodic sync interval (e.g., "60s")
//	-stabilization-delay delay after reconnect before syncing (e.g., "2s")
//	-cache-ttl default cache entry lifetime (e.g., "24h")
//	-rps sends per second within one sync pass, 0 disables pacing
//	-strict-options reject unknown request option keys
//	-log-level log level
//	-log-file rotate logs into this file instead of stdout
//	-c/-config json file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)

	var serverAddress NetAddress
	var backendAddress string
	var requestTimeout time.Duration
	var probeURL string
	var storageDriver string
	var storageDSN string
	var maxRetries int
	var syncInterval time.Duration
	var stabilizationDelay time.Duration
	var cacheTTL time.Duration
	var requestsPerSecond float64
	var strictOptions bool
	var logLevel string
	var logFile string
	var jsonConfigPath string

	fs.Var(&serverAddress, "a", "Control API net address host:port")
	fs.StringVar(&backendAddress, "backend", "", "Backend base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Outbound request timeout (e.g., 15s)")
	fs.StringVar(&probeURL, "probe-url", "", "Reachability probe URL")
	fs.StringVar(&storageDriver, "storage", "", "Storage driver: memory, file, sqlite, redis")
	fs.StringVar(&storageDSN, "d", "", "Storage DSN")
	fs.IntVar(&maxRetries, "max-retries", 0, "Max retry attempts per queued request")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Periodic sync interval (e.g., 60s)")
	fs.DurationVar(&stabilizationDelay, "stabilization-delay", 0, "Delay after reconnect before syncing (e.g., 2s)")
	fs.DurationVar(&cacheTTL, "cache-ttl", 0, "Default cache entry lifetime (e.g., 24h)")
	fs.Float64Var(&requestsPerSecond, "rps", 0, "Sends per second within one sync pass (0 disables pacing)")
	fs.BoolVar(&strictOptions, "strict-options", false, "Reject unknown request option keys")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&logFile, "log-file", "", "Rotated log file path (stdout when empty)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		Engine: Engine{
			MaxRetryAttempts:   maxRetries,
			SyncInterval:       syncInterval,
			StabilizationDelay: stabilizationDelay,
			DefaultCacheTTL:    cacheTTL,
			RequestsPerSecond:  requestsPerSecond,
			StrictOptions:      strictOptions,
		},
		Storage: Storage{
			Driver: storageDriver,
			DSN:    storageDSN,
		},
		Adapter: Adapter{
			HTTPAddress:    backendAddress,
			RequestTimeout: requestTimeout,
		},
		Network: Network{
			ProbeURL: probeURL,
		},
		Server: Server{
			HTTPAddress: serverAddress.String(),
		},
		Logging: Logging{
			Level:    logLevel,
			FilePath: logFile,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns the address in host:port form, bracketing IPv6 hosts.
// An unset address is the empty string so it does not shadow lower layers.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host may be empty (all interfaces), "localhost",
// or an IPv4/IPv6 literal; the port must be in 1-65535.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("need address in a form `host:port`: %w", err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return fmt.Errorf("invalid port %q: %w", rawPort, err)
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
