package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags overlays the short command-line flags:
//
//	-a string   gRPC bind address
//	-m string   metrics/health HTTP bind address
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-b string   session backend (postgres|redis)
//	-x string   redis address
//	-w int      expired session sweep interval, minutes
//	-l string   log level
//
// Durations are given in whole minutes.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-s", "-t", "-r", "-b", "-x", "-w", "-l"})

	fs := flag.NewFlagSet("gophauth", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrMetrics, "m", config.EndpointAddrMetrics, "metrics address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	access := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (minutes)")
	refresh := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (minutes)")
	fs.StringVar(&config.SessionBackend, "b", config.SessionBackend, "session backend: postgres or redis")
	fs.StringVar(&config.RedisAddr, "x", config.RedisAddr, "redis address")
	sweep := fs.Int("w", int(config.SweepInterval.Minutes()), "expired session sweep interval (minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
	config.SweepInterval = time.Duration(*sweep) * time.Minute
	return nil
}
