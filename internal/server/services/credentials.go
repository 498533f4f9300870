package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// CredentialValidator checks an email/password pair against the user store.
// An unknown email and a wrong password produce the same error and cost
// roughly the same time.
type CredentialValidator struct {
	users  users.Repository
	hasher auth.PasswordHasher
	log    logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialValidator(repo users.Repository, hasher auth.PasswordHasher, log logging.Logger) *CredentialValidator {
	return &CredentialValidator{
		users:  repo,
		hasher: hasher,
		log:    log.With("module", "credentials"),
	}
}

func (v *CredentialValidator) Validate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := v.users.FindByEmail(ctx, users.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			v.hasher.Verify(password, v.dummy())
			return nil, ErrInvalidCredentials
		}
		return nil, internal(ctx, v.log, "find user by email", err)
	}

	if !v.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// dummy returns a hash of the same cost as real ones, computed once.
func (v *CredentialValidator) dummy() string {
	v.dummyOnce.Do(func() {
		h, err := v.hasher.Hash("timing-equalization")
		if err == nil {
			v.dummyHash = h
		}
	})
	return v.dummyHash
}
