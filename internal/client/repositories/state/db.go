package state

import (
	"context"
	"database/sql"

	"github.com/connectinghands/handshare/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded migrations to the sqlite database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenDatabase opens (or creates) the state database and migrates it.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
