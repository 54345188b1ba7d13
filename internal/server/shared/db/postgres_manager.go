package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/connectinghands/handshare/internal/server/handmodels"
	"github.com/connectinghands/handshare/internal/server/migrations"
	"github.com/connectinghands/handshare/internal/server/sessions"
	"github.com/connectinghands/handshare/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db         *sql.DB
	users      users.Repository
	sessions   sessions.Repository
	handModels handmodels.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func (m *PostgresRepositoryManager) HandModels() handmodels.Repository {
	return m.handModels
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	users, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	sessions, err := sessions.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("session repo creation error: %w", err)
	}

	handModels, err := handmodels.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("hand model repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:         db,
		users:      users,
		sessions:   sessions,
		handModels: handModels,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
