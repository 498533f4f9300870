package config

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Environment selects environment-dependent behaviour such as cookie
// attributes.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTest        Environment = "test"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// IsProduction reports whether strict production behaviour applies.
func (e Environment) IsProduction() bool {
	return e == EnvProduction
}

// MinSecretLength is the minimum accepted length of a signing secret.
const MinSecretLength = 32

// AuthConfig is the validated, read-only view of the token settings handed
// to every auth component at construction.
type AuthConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
	Environment   Environment
	BcryptCost    int
}

// Auth validates the token settings and returns them as an AuthConfig.
// All problems are reported together.
func (c *Config) Auth() (AuthConfig, error) {
	var errs []error

	if len(c.AccessSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("access secret must be at least %d characters", MinSecretLength))
	}
	if len(c.RefreshSecret) < MinSecretLength {
		errs = append(errs, fmt.Errorf("refresh secret must be at least %d characters", MinSecretLength))
	}
	if c.AccessSecret != "" && c.AccessSecret == c.RefreshSecret {
		errs = append(errs, errors.New("access and refresh secrets must differ"))
	}
	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("access token lifetime must be positive"))
	}
	if c.RefreshTTL <= 0 {
		errs = append(errs, errors.New("refresh token lifetime must be positive"))
	}
	if c.AccessTTL > 0 && c.RefreshTTL > 0 && c.RefreshTTL < c.AccessTTL {
		errs = append(errs, errors.New("refresh token lifetime must not be shorter than access token lifetime"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	env := Environment(c.Environment)
	switch env {
	case EnvDevelopment, EnvTest, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("unknown environment %q", c.Environment))
	}

	if len(errs) > 0 {
		return AuthConfig{}, fmt.Errorf("invalid auth config: %w", errors.Join(errs...))
	}

	return AuthConfig{
		AccessSecret:  []byte(c.AccessSecret),
		AccessTTL:     c.AccessTTL,
		RefreshSecret: []byte(c.RefreshSecret),
		RefreshTTL:    c.RefreshTTL,
		Environment:   env,
		BcryptCost:    c.BcryptCost,
	}, nil
}

// LimiterConfig holds sign-in throttling settings.
type LimiterConfig struct {
	RedisAddr   string
	MaxAttempts int
	Cooldown    time.Duration
}

// Enabled reports whether a redis backend was configured.
func (l LimiterConfig) Enabled() bool {
	return l.RedisAddr != ""
}

// Limiter validates and returns the throttling settings.
func (c *Config) Limiter() (LimiterConfig, error) {
	if c.SignInMaxAttempts <= 0 {
		return LimiterConfig{}, errors.New("sign-in max attempts must be positive")
	}
	if c.SignInCooldown <= 0 {
		return LimiterConfig{}, errors.New("sign-in cooldown must be positive")
	}
	return LimiterConfig{
		RedisAddr:   c.RedisAddr,
		MaxAttempts: c.SignInMaxAttempts,
		Cooldown:    c.SignInCooldown,
	}, nil
}
