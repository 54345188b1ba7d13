package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/connectinghands/handshare/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Snapshot, error) {
	s := &Snapshot{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, display_name, session_id, cursor FROM client_state WHERE id = 1`).
		Scan(&s.UserID, &s.DisplayName, &s.SessionID, &s.Cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load client state: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s *Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_state (id, user_id, display_name, session_id, cursor)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			display_name = excluded.display_name,
			session_id = excluded.session_id,
			cursor = excluded.cursor
	`, s.UserID, s.DisplayName, s.SessionID, s.Cursor)
	if err != nil {
		return fmt.Errorf("failed to save client state: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM client_state`)
	if err != nil {
		return fmt.Errorf("failed to clear client state: %w", err)
	}
	return nil
}
