package services

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// TokenParser verifies tokens of one keyspace. Implemented by *auth.TokenCodec.
type TokenParser interface {
	Parse(token string, ks auth.Keyspace) (*auth.Claims, error)
}

// TokenMinter issues token pairs. Implemented by *auth.TokenIssuer.
type TokenMinter interface {
	Issue(user *models.User) (*auth.TokenPair, error)
}

// SignInLimiter throttles repeated failed sign-ins per email and per client.
// Allow must fail open on backend errors.
type SignInLimiter interface {
	Allow(ctx context.Context, email, clientIP string) bool
	Fail(ctx context.Context, email, clientIP string)
	Reset(ctx context.Context, email, clientIP string)
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string, string) bool { return true }
func (noopLimiter) Fail(context.Context, string, string)       {}
func (noopLimiter) Reset(context.Context, string, string)      {}
