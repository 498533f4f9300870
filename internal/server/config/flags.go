package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string      HTTP bind address (e.g., ":8080")
//	-g string      gRPC bind address; empty disables gRPC
//	-d string      PostgreSQL DSN
//	-s string      access token secret
//	-t duration    access token lifetime (e.g., "1h", "1d")
//	-rs string     refresh token secret
//	-r duration    refresh token lifetime (e.g., "7d")
//	-env string    environment name
//	-cost int      bcrypt cost
//	-redis string  redis address for sign-in throttling
//	-proxy         trust X-Forwarded-For / X-Real-IP (use -proxy or -proxy=true)
//
// os.Args is filtered with flagx.FilterArgs first so the -c/-config flags
// handled by parseJson do not collide.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-rs", "-r", "-env", "-cost", "-redis", "-proxy"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run HTTP server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run gRPC server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessSecret, "s", config.AccessSecret, "access token secret")
	fs.StringVar(&config.RefreshSecret, "rs", config.RefreshSecret, "refresh token secret")
	fs.StringVar(&config.Environment, "env", config.Environment, "environment (development, test, staging, production)")
	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address")
	fs.BoolVar(&config.TrustedProxy, "proxy", config.TrustedProxy, "trust proxy client-address headers")

	accessTTL := fs.String("t", "", "access token lifetime")
	refreshTTL := fs.String("r", "", "refresh token lifetime")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *accessTTL != "" {
		d, err := timex.ParseDuration(*accessTTL)
		if err != nil {
			panic(err)
		}
		config.AccessTTL = d
	}
	if *refreshTTL != "" {
		d, err := timex.ParseDuration(*refreshTTL)
		if err != nil {
			panic(err)
		}
		config.RefreshTTL = d
	}
}
