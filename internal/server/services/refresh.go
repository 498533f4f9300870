package services

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// RotationResult is the outcome of a successful refresh.
type RotationResult struct {
	User   *models.User
	Tokens *auth.TokenPair
}

// RefreshCycle exchanges a valid refresh token for a new pair. The old token
// is not recorded anywhere and stays valid until it expires.
type RefreshCycle struct {
	tokens   TokenParser
	subjects *SubjectResolver
	issuer   TokenMinter
	log      logging.Logger
}

func NewRefreshCycle(tokens TokenParser, subjects *SubjectResolver, issuer TokenMinter, log logging.Logger) *RefreshCycle {
	return &RefreshCycle{
		tokens:   tokens,
		subjects: subjects,
		issuer:   issuer,
		log:      log.With("module", "refresh"),
	}
}

// Verify parses a refresh token and re-resolves its subject without
// issuing anything.
func (c *RefreshCycle) Verify(ctx context.Context, refreshToken string) (*models.User, *auth.Claims, error) {
	claims, err := c.tokens.Parse(refreshToken, auth.KeyspaceRefresh)
	if err != nil {
		c.log.Debug(ctx, "refresh token rejected", "reason", err)
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := c.subjects.Reauthorize(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// Rotate verifies refreshToken and issues a fresh access/refresh pair from
// the current user record.
func (c *RefreshCycle) Rotate(ctx context.Context, refreshToken string) (*RotationResult, error) {
	user, _, err := c.Verify(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return c.Issue(ctx, user)
}

// Issue mints the replacement pair for a user already resolved by Verify,
// typically by the refresh guard.
func (c *RefreshCycle) Issue(ctx context.Context, user *models.User) (*RotationResult, error) {
	pair, err := c.issuer.Issue(user)
	if err != nil {
		return nil, internal(ctx, c.log, "issue tokens", err)
	}

	c.log.Info(ctx, "tokens refreshed", "user_id", user.ID)
	return &RotationResult{User: user, Tokens: pair}, nil
}
