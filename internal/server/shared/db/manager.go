package db

import (
	"context"
	"database/sql"

	"github.com/connectinghands/handshare/internal/server/handmodels"
	"github.com/connectinghands/handshare/internal/server/sessions"
	"github.com/connectinghands/handshare/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Sessions() sessions.Repository
	HandModels() handmodels.Repository
}
