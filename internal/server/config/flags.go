package config

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbank/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-b", "-d", "-s", "-t", "-x", "-o", "-l"}

// parseFlags overlays command-line flags on config.
//
// Supported flags:
//
//	-a string   REST bind address (e.g. ":8000")
//	-g string   gRPC health bind address
//	-b string   database driver: sqlite | postgres
//	-d string   database DSN (sqlite file path or postgres DSN)
//	-s string   JWT HMAC secret; empty generates a per-process key
//	-t int      access token validity, minutes
//	-x string   password hash scheme: sha512 | argon2id
//	-o string   comma separated CORS origins
//	-l string   log level
//
// Flags of other components (e.g. -c) are filtered out first.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "REST address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDriver, "b", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.StringVar(&config.HashScheme, "x", config.HashScheme, "password hash scheme")
	origins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "CORS allowed origins")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return err
	}

	// only flags given on the command line override JSON values
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*validity) * time.Minute
		case "o":
			config.CORSAllowedOrigins = flagx.SplitList(*origins)
		}
	})
	return nil
}
