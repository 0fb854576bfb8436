// Package config manages radiusctl configuration using koanf/v2.
//
// Supports YAML files, environment variables, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// -------------------------------------------------------------------------
// Configuration Structures
// -------------------------------------------------------------------------

// Config holds the complete radiusctl configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Metrics MetricsConfig `koanf:"metrics"`
	Log     LogConfig     `koanf:"log"`
}

// ServerConfig describes the RADIUS server endpoint and shared secret.
type ServerConfig struct {
	// Host is the server's hostname or literal IP address.
	Host string `koanf:"host"`
	// Secret is the shared secret used to sign requests and verify responses.
	Secret string `koanf:"secret"`
	// AuthPort is the authentication/authorization/CoA UDP port (RFC 2865, default 1812).
	AuthPort uint16 `koanf:"auth_port"`
	// AcctPort is the accounting UDP port (RFC 2866, default 1813).
	AcctPort uint16 `koanf:"acct_port"`
	// SocketTimeoutMs is the per-attempt response wait in milliseconds.
	SocketTimeoutMs int `koanf:"socket_timeout_ms"`
	// LocalEndpoint optionally pins the client's source address.
	LocalEndpoint string `koanf:"local_endpoint"`
}

// SocketTimeout returns Server.SocketTimeoutMs as a time.Duration.
func (sc ServerConfig) SocketTimeout() time.Duration {
	return time.Duration(sc.SocketTimeoutMs) * time.Millisecond
}

// LocalAddr parses LocalEndpoint, if set.
func (sc ServerConfig) LocalAddr() (netip.Addr, error) {
	if sc.LocalEndpoint == "" {
		return netip.Addr{}, nil
	}
	addr, err := netip.ParseAddr(sc.LocalEndpoint)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse local_endpoint %q: %w", sc.LocalEndpoint, err)
	}
	return addr, nil
}

// MetricsConfig holds the Prometheus metrics endpoint configuration.
type MetricsConfig struct {
	// Addr is the HTTP listen address for the metrics endpoint (e.g., ":9100").
	// Empty disables the metrics server.
	Addr string `koanf:"addr"`
	// Path is the URL path for the metrics endpoint (e.g., "/metrics").
	Path string `koanf:"path"`
}

// LogConfig holds the logging configuration.
type LogConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is the log output format: "json" or "text".
	Format string `koanf:"format"`
}

// -------------------------------------------------------------------------
// Defaults
// -------------------------------------------------------------------------

// DefaultConfig returns a Config populated with sensible defaults.
//
// Port defaults follow RFC 2865 Section 3 (1812) and RFC 2866 Section 3
// (1813); the legacy 1645/1646 pair is not used.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			AuthPort:        1812,
			AcctPort:        1813,
			SocketTimeoutMs: 3000,
		},
		Metrics: MetricsConfig{
			Addr: "",
			Path: "/metrics",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// -------------------------------------------------------------------------
// Loader
// -------------------------------------------------------------------------

// envPrefix is the environment variable prefix for radiusctl configuration.
// Variables are named RADIUSCTL_<section>_<key>, e.g., RADIUSCTL_SERVER_SECRET.
const envPrefix = "RADIUSCTL_"

// Load reads configuration from a YAML file at path, overlays environment
// variable overrides (RADIUSCTL_ prefix), and merges on top of
// DefaultConfig(). Missing fields inherit defaults. path may be empty, in
// which case only defaults and environment overrides apply.
//
// Environment variable mapping:
//
//	RADIUSCTL_SERVER_HOST    -> server.host
//	RADIUSCTL_SERVER_SECRET  -> server.secret
//	RADIUSCTL_METRICS_ADDR   -> metrics.addr
//	RADIUSCTL_LOG_LEVEL      -> log.level
//	RADIUSCTL_LOG_FORMAT     -> log.format
//
// Uses koanf/v2 with file + env providers and YAML parser.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := loadDefaults(k, defaults); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config from %s: %w", path, err)
	}

	return cfg, nil
}

// envKeyMapper transforms RADIUSCTL_SERVER_SECRET -> server.secret.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "_", ".")
}

// loadDefaults marshals the default config into koanf as the base layer.
func loadDefaults(k *koanf.Koanf, defaults *Config) error {
	defaultMap := map[string]any{
		"server.auth_port":         defaults.Server.AuthPort,
		"server.acct_port":         defaults.Server.AcctPort,
		"server.socket_timeout_ms": defaults.Server.SocketTimeoutMs,
		"metrics.addr":             defaults.Metrics.Addr,
		"metrics.path":             defaults.Metrics.Path,
		"log.level":                defaults.Log.Level,
		"log.format":               defaults.Log.Format,
	}

	for key, val := range defaultMap {
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

// -------------------------------------------------------------------------
// Validation
// -------------------------------------------------------------------------

// Validation errors.
var (
	// ErrEmptyHost indicates the server host is empty.
	ErrEmptyHost = errors.New("server.host must not be empty")

	// ErrEmptySecret indicates the shared secret is empty.
	ErrEmptySecret = errors.New("server.secret must not be empty")

	// ErrSecretNotASCII indicates the shared secret contains non-ASCII bytes.
	ErrSecretNotASCII = errors.New("server.secret must be ASCII")

	// ErrInvalidAuthPort indicates the auth port is out of the valid UDP port range.
	ErrInvalidAuthPort = errors.New("server.auth_port must be between 1 and 65535")

	// ErrInvalidAcctPort indicates the acct port is out of the valid UDP port range.
	ErrInvalidAcctPort = errors.New("server.acct_port must be between 1 and 65535")

	// ErrInvalidSocketTimeout indicates the socket timeout is not positive.
	ErrInvalidSocketTimeout = errors.New("server.socket_timeout_ms must be > 0")
)

// Validate checks the configuration for logical errors.
// Returns the first validation error encountered.
func Validate(cfg *Config) error {
	if cfg.Server.Host == "" {
		return ErrEmptyHost
	}

	if cfg.Server.Secret == "" {
		return ErrEmptySecret
	}
	for i := 0; i < len(cfg.Server.Secret); i++ {
		if cfg.Server.Secret[i] > unicode.MaxASCII {
			return ErrSecretNotASCII
		}
	}

	if cfg.Server.AuthPort < 1 {
		return ErrInvalidAuthPort
	}

	if cfg.Server.AcctPort < 1 {
		return ErrInvalidAcctPort
	}

	if cfg.Server.SocketTimeoutMs <= 0 {
		return ErrInvalidSocketTimeout
	}

	if _, err := cfg.Server.LocalAddr(); err != nil {
		return err
	}

	return nil
}

// -------------------------------------------------------------------------
// Log Level Parsing
// -------------------------------------------------------------------------

// ParseLogLevel maps a configuration log level string to the corresponding
// slog.Level. Unknown values default to slog.LevelInfo.
//
// Recognized values: "debug", "info", "warn", "error" (case-insensitive).
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
