// Package client talks to the authgate HTTP API. The refresh token lives
// only in the cookie jar; the access token is kept in memory.
package client

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/client/models"
)

type Client interface {
	SignUp(ctx context.Context, email, name string, password []byte) (*models.User, error)
	SignIn(ctx context.Context, email string, password []byte) (*models.User, error)
	Refresh(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	UpdateName(ctx context.Context, name string) (*models.User, error)
	Ping(ctx context.Context) error
}
