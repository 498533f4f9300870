// Package users stores registered identities. Emails are expected to be
// normalized by the caller; the store enforces their uniqueness and reports
// violations as common.ErrorConflict. Missing rows are common.ErrorNotFound.
package users

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id, name string) (*models.User, error)
}

// NormalizeEmail trims and lowercases an address before every lookup and
// write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
