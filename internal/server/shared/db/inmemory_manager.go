package db

import (
	"context"
	"database/sql"

	"github.com/connectinghands/handshare/internal/server/handmodels"
	"github.com/connectinghands/handshare/internal/server/sessions"
	"github.com/connectinghands/handshare/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users      users.Repository
	sessions   sessions.Repository
	handModels handmodels.Repository
}

func (m InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m InMemoryRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func (m InMemoryRepositoryManager) HandModels() handmodels.Repository {
	return m.handModels
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return InMemoryRepositoryManager{
		users:      users.NewInMemoryRepository(),
		sessions:   sessions.NewInMemoryRepository(),
		handModels: handmodels.NewInMemoryRepository(),
	}
}
