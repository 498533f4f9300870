// Package limiter throttles failed sign-in attempts with fixed-window
// counters in redis, keyed by normalized email and by client IP.
package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authgate:signin:"

// Config holds the throttle budget.
type Config struct {
	MaxAttempts int
	Cooldown    time.Duration
}

// RedisLimiter counts failures per window. Redis errors never block a
// sign-in: they are logged and the attempt is allowed.
type RedisLimiter struct {
	redis redis.UniversalClient
	cfg   Config
	log   logging.Logger
}

func NewRedisLimiter(client redis.UniversalClient, cfg Config, log logging.Logger) *RedisLimiter {
	return &RedisLimiter{redis: client, cfg: cfg, log: log.With("module", "limiter")}
}

// Allow reports whether both the email and the client are still within
// budget.
func (l *RedisLimiter) Allow(ctx context.Context, email, clientIP string) bool {
	for _, key := range keys(email, clientIP) {
		count, err := l.redis.Get(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			l.log.Warn(ctx, "limiter unavailable, allowing", "error", err)
			return true
		}
		if count >= int64(l.cfg.MaxAttempts) {
			return false
		}
	}
	return true
}

// Fail records one failed attempt for email and client.
func (l *RedisLimiter) Fail(ctx context.Context, email, clientIP string) {
	for _, key := range keys(email, clientIP) {
		if err := l.incrementWithTTL(ctx, key); err != nil {
			l.log.Warn(ctx, "limiter increment failed", "error", err)
			return
		}
	}
}

// Reset clears the email counter after a successful sign-in. The client
// counter is left alone so one valid account can't launder failures
// against others from the same address.
func (l *RedisLimiter) Reset(ctx context.Context, email, clientIP string) {
	if email == "" {
		return
	}
	if err := l.redis.Del(ctx, emailKey(email)).Err(); err != nil {
		l.log.Warn(ctx, "limiter reset failed", "error", err)
	}
}

func (l *RedisLimiter) incrementWithTTL(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	// Fixed window: the TTL is set on the first hit only.
	if count == 1 {
		return l.redis.Expire(ctx, key, l.cfg.Cooldown).Err()
	}
	return nil
}

func emailKey(email string) string { return keyPrefix + "email:" + email }
func ipKey(ip string) string       { return keyPrefix + "ip:" + ip }

func keys(email, clientIP string) []string {
	out := make([]string, 0, 2)
	if email != "" {
		out = append(out, emailKey(email))
	}
	if clientIP != "" {
		out = append(out, ipKey(clientIP))
	}
	return out
}

// Connect builds a redis client for addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
