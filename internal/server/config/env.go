package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// parseEnv overlays values from environment variables. Unset or blank
// variables are skipped. Malformed numbers or durations panic.
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_DSN, JWT_ACCESS_SECRET,
//	JWT_ACCESS_EXPIRATION, JWT_REFRESH_SECRET, JWT_REFRESH_EXPIRATION,
//	APP_ENV, BCRYPT_COST, REDIS_ADDR, SIGNIN_MAX_ATTEMPTS, SIGNIN_COOLDOWN,
//	TRUSTED_PROXY
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := flagx.LookupEnv(lookup, name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := flagx.LookupEnv(lookup, name); ok {
			d, err := timex.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = d
		}
	}
	num := func(name string, dst *int) {
		if v, ok := flagx.LookupEnv(lookup, name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = n
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := flagx.LookupEnv(lookup, name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			*dst = b
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("GRPC_ADDR", &config.GRPCAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("JWT_ACCESS_SECRET", &config.AccessSecret)
	dur("JWT_ACCESS_EXPIRATION", &config.AccessTTL)
	str("JWT_REFRESH_SECRET", &config.RefreshSecret)
	dur("JWT_REFRESH_EXPIRATION", &config.RefreshTTL)
	str("APP_ENV", &config.Environment)
	num("BCRYPT_COST", &config.BcryptCost)
	str("REDIS_ADDR", &config.RedisAddr)
	num("SIGNIN_MAX_ATTEMPTS", &config.SignInMaxAttempts)
	dur("SIGNIN_COOLDOWN", &config.SignInCooldown)
	boolean("TRUSTED_PROXY", &config.TrustedProxy)
}
