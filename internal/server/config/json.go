package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Intervals use timex.Duration,
// which accepts strings such as "15m" or "7d" as well as integer
// nanoseconds. Keys that are absent leave the lower layer untouched.
type JsonConfig struct {
	HTTPAddr          string          `json:"http_addr"`
	GRPCAddr          *string         `json:"grpc_addr"`
	DatabaseDSN       string          `json:"database_dsn"`
	AccessSecret      string          `json:"access_secret"`
	AccessTTL         *timex.Duration `json:"access_ttl"`
	RefreshSecret     string          `json:"refresh_secret"`
	RefreshTTL        *timex.Duration `json:"refresh_ttl"`
	Environment       string          `json:"environment"`
	BcryptCost        *int            `json:"bcrypt_cost"`
	RedisAddr         string          `json:"redis_addr"`
	SignInMaxAttempts *int            `json:"signin_max_attempts"`
	SignInCooldown    *timex.Duration `json:"signin_cooldown"`
	TrustedProxy      *bool           `json:"trusted_proxy"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.GRPCAddr != nil {
		config.GRPCAddr = *c.GRPCAddr
	}
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.AccessSecret, c.AccessSecret)
	setString(&config.RefreshSecret, c.RefreshSecret)
	setString(&config.Environment, c.Environment)
	setString(&config.RedisAddr, c.RedisAddr)
	if c.AccessTTL != nil {
		config.AccessTTL = c.AccessTTL.Duration
	}
	if c.RefreshTTL != nil {
		config.RefreshTTL = c.RefreshTTL.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.SignInMaxAttempts != nil {
		config.SignInMaxAttempts = *c.SignInMaxAttempts
	}
	if c.SignInCooldown != nil {
		config.SignInCooldown = c.SignInCooldown.Duration
	}
	if c.TrustedProxy != nil {
		config.TrustedProxy = *c.TrustedProxy
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
