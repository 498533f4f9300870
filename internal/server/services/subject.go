package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// SubjectResolver re-checks that the subject of a verified token still
// exists. It is the single existence check shared by the access guard, the
// refresh guard and RefreshCycle.
type SubjectResolver struct {
	users users.Repository
	log   logging.Logger
}

func NewSubjectResolver(repo users.Repository, log logging.Logger) *SubjectResolver {
	return &SubjectResolver{users: repo, log: log.With("module", "subjects")}
}

// Reauthorize returns the current user for subject, ErrUserNotFound when it
// no longer resolves, or ErrInternal on store failure.
func (r *SubjectResolver) Reauthorize(ctx context.Context, subject string) (*models.User, error) {
	user, err := r.users.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internal(ctx, r.log, "find user by id", err)
	}
	return user, nil
}
