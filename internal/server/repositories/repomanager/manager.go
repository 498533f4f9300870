// Package repomanager selects the storage backend and vends repositories
// bound to it. PostgreSQL is used when a DSN is configured; otherwise an
// in-memory backend is used.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close() error
}
