// Package config provides environment-driven configuration for the graph console.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// NoRootNode disables the reference node shown for empty results.
const NoRootNode int64 = -1

// Config holds all application configuration values.
type Config struct {
	DatabaseURL   Secret
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword Secret
	Neo4jDatabase string
	Port          string
	MetricsPort   string
	ListenHost    string
	CORSOrigins   []string
	LogLevel      string
	RootNodeID    int64
	SecureCookie  bool
	SessionTTL    time.Duration
	QueryTimeout  time.Duration
	DBMaxConns    int32

	// Request limits. The address limit applies to every route; the
	// session limit applies on top of it to console routes.
	MaxBodyBytes     int64
	RateLimit        float64
	RateBurst        int
	SessionRateLimit float64
	SessionRateBurst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		Neo4jURI:      envOrDefault("NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUser:     envOrDefault("NEO4J_USER", "neo4j"),
		Neo4jPassword: Secret(envOrDefault("NEO4J_PASSWORD", "")),
		Neo4jDatabase: envOrDefault("NEO4J_DATABASE", ""),
		Port:          envOrDefault("PORT", "8080"),
		MetricsPort:   envOrDefault("METRICS_PORT", "9091"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
	}

	rootID, err := strconv.ParseInt(envOrDefault("ROOT_NODE_ID", "0"), 10, 64)
	if err != nil || rootID < NoRootNode {
		return nil, fmt.Errorf("ROOT_NODE_ID must be a non-negative integer or -1")
	}
	cfg.RootNodeID = rootID

	maxConns, err := strconv.Atoi(envOrDefault("DB_MAX_CONNS", "10"))
	if err != nil || maxConns < 2 || maxConns > 200 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 2 and 200")
	}
	cfg.DBMaxConns = int32(maxConns) //nolint:gosec // bounded above.

	if v := envOrDefault("SECURE_COOKIE", "false"); v != "" {
		if cfg.SecureCookie, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("SECURE_COOKIE must be a boolean")
		}
	}

	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "30m"); err != nil {
		return nil, err
	}

	if cfg.QueryTimeout, err = parseDuration("QUERY_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	if err := cfg.loadLimits(); err != nil {
		return nil, err
	}

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3000")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

// HasRootNode reports whether empty results should show a reference node.
func (c *Config) HasRootNode() bool {
	return c.RootNodeID != NoRootNode
}

func (c *Config) loadLimits() error {
	maxBody, err := strconv.ParseInt(envOrDefault("MAX_BODY_BYTES", "10485760"), 10, 64)
	if err != nil || maxBody < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be an integer of at least 1024")
	}
	c.MaxBodyBytes = maxBody

	if c.RateLimit, err = parseRate("RATE_LIMIT", "50"); err != nil {
		return err
	}

	if c.RateBurst, err = parseBurst("RATE_BURST", "100"); err != nil {
		return err
	}

	if c.SessionRateLimit, err = parseRate("SESSION_RATE_LIMIT", "10"); err != nil {
		return err
	}

	c.SessionRateBurst, err = parseBurst("SESSION_RATE_BURST", "20")

	return err
}

func parseRate(key, fallback string) (float64, error) {
	r, err := strconv.ParseFloat(envOrDefault(key, fallback), 64)
	if err != nil || r <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of requests per second", key)
	}

	return r, nil
}

func parseBurst(key, fallback string) (int, error) {
	b, err := strconv.Atoi(envOrDefault(key, fallback))
	if err != nil || b < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}

	return b, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}

	return d, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
