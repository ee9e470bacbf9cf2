// Package config handles configuration for the gophbank server: defaults,
// an optional JSON overlay and command-line flags, applied in that order.
package config

import (
	"fmt"
	"time"
)

// Supported values for DatabaseDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported values for HashScheme.
const (
	HashSHA512   = "sha512"
	HashArgon2ID = "argon2id"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the REST API.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint.
//   - DatabaseDriver / DatabaseDSN: "sqlite" with a file path, or "postgres" with a pgx DSN.
//   - SecretKey: optional HMAC secret. Empty means a random key is generated at
//     startup and every token dies with the process.
//   - AccessTokenValidityDuration: lifetime of issued bearer tokens.
//   - HashScheme: "sha512" (unsalted, compatible) or "argon2id".
//   - CORSAllowedOrigins: origins allowed by the CORS middleware.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	HashScheme                  string
	CORSAllowedOrigins          []string
	LogLevel                    string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "bank.db"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.HashScheme = HashSHA512
	c.CORSAllowedOrigins = []string{"http://localhost:3000"}
	c.LogLevel = "info"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	switch c.HashScheme {
	case HashSHA512, HashArgon2ID:
	default:
		return fmt.Errorf("unsupported hash scheme %q", c.HashScheme)
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// -c/-config (if any), then the remaining flags in args (usually os.Args[1:]).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
