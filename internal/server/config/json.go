package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophbank/internal/flagx"
	"github.com/dmitrijs2005/gophbank/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDriver              *string         `json:"database_driver"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	HashScheme                  *string         `json:"hash_scheme"`
	CORSAllowedOrigins          []string        `json:"cors_allowed_origins"`
	LogLevel                    *string         `json:"log_level"`
}

// parseJson overlays values from the file given with -c/-config. Without the
// flag it does nothing.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.HashScheme, c.HashScheme)
	setString(&config.LogLevel, c.LogLevel)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
