package auth

import (
	"time"

	"github.com/dmitrijs2005/authgate/internal/server/config"
)

const (
	testAccessSecret  = "access-secret-0123456789abcdefghij"
	testRefreshSecret = "refresh-secret-0123456789abcdefghi"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  []byte(testAccessSecret),
		AccessTTL:     time.Hour,
		RefreshSecret: []byte(testRefreshSecret),
		RefreshTTL:    7 * 24 * time.Hour,
		Environment:   config.EnvTest,
		BcryptCost:    4,
	}
}

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}
