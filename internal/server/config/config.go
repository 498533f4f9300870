// Package config handles configuration for the server component: defaults,
// JSON overlay, environment variables and command-line flags, applied in
// that order. Auth settings are validated once into an immutable AuthConfig.
package config

import (
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds raw runtime settings for the authgate server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses; an empty GRPCAddr disables gRPC.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory store.
//   - AccessSecret / RefreshSecret: HS256 keys, one per keyspace.
//   - AccessTTL / RefreshTTL: token lifetimes.
//   - Environment: "production" switches cookies to strict attributes.
//   - BcryptCost: bcrypt work factor.
//   - RedisAddr / SignInMaxAttempts / SignInCooldown: sign-in throttling;
//     an empty RedisAddr disables it.
//   - TrustedProxy: take the client address from X-Forwarded-For /
//     X-Real-IP. Only safe behind a proxy that overwrites those headers.
type Config struct {
	HTTPAddr          string
	GRPCAddr          string
	DatabaseDSN       string
	AccessSecret      string
	AccessTTL         time.Duration
	RefreshSecret     string
	RefreshTTL        time.Duration
	Environment       string
	BcryptCost        int
	RedisAddr         string
	SignInMaxAttempts int
	SignInCooldown    time.Duration
	TrustedProxy      bool
}

// LoadDefaults populates Config with development defaults. Secrets have no
// default: the server refuses to start until both are provided.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = ""
	c.AccessTTL = time.Hour
	c.RefreshTTL = 7 * 24 * time.Hour
	c.Environment = string(EnvDevelopment)
	c.BcryptCost = bcrypt.DefaultCost
	c.SignInMaxAttempts = 5
	c.SignInCooldown = 15 * time.Minute
	c.TrustedProxy = false
}

// LoadConfig builds a Config from os.Args and the process environment.
// Malformed input (unreadable JSON, bad flag values) panics, as there is no
// sensible way to continue.
func LoadConfig() *Config {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookup func(string) (string, bool)) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg, lookup)
	parseFlags(cfg, args)
	return cfg
}
