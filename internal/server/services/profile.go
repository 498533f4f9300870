package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// ProfileService reads and updates the signed-in user's own record. Only
// the display name is mutable.
type ProfileService struct {
	users users.Repository
	log   logging.Logger
}

func NewProfileService(repo users.Repository, log logging.Logger) *ProfileService {
	return &ProfileService{users: repo, log: log.With("module", "profile")}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal(ctx, s.log, "find user by id", err)
	}
	return user, nil
}

func (s *ProfileService) UpdateName(ctx context.Context, userID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minDisplayNameLength {
		return nil, validationError("name must be at least 3 characters")
	}

	user, err := s.users.UpdateName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal(ctx, s.log, "update user name", err)
	}

	s.log.Info(ctx, "profile updated", "user_id", user.ID)
	return user, nil
}
