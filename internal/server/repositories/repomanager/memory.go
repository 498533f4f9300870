package repomanager

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps all data in process memory. Nothing
// survives a restart.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}

// New picks the backend: PostgreSQL when dsn is set, memory otherwise.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return OpenPostgres(ctx, dsn)
}
