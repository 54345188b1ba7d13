package handmodels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const selectModel = `SELECT id, session_id, owner_user_id, storage_key, file_size_bytes, content_type, created_at, retrieved_at, confirmed_at FROM hand_models`

func scanModel(row *sql.Row) (*models.HandModel, error) {
	m := &models.HandModel{}
	err := row.Scan(&m.ID, &m.SessionID, &m.OwnerUserID, &m.StorageKey,
		&m.FileSizeBytes, &m.ContentType, &m.CreatedAt, &m.RetrievedAt, &m.ConfirmedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, model *models.HandModel) (*models.HandModel, error) {

	query :=
		`INSERT INTO hand_models (id, session_id, owner_user_id, storage_key, file_size_bytes, content_type, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		model.ID, model.SessionID, model.OwnerUserID, model.StorageKey,
		model.FileSizeBytes, model.ContentType, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return model, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.HandModel, error) {
	return scanModel(r.db.QueryRowContext(ctx, selectModel+` WHERE id = $1`, id))
}

func (r *PostgresRepository) LatestBySession(ctx context.Context, sessionID string) (*models.HandModel, error) {
	return scanModel(r.db.QueryRowContext(ctx,
		selectModel+` WHERE session_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, sessionID))
}

func (r *PostgresRepository) MarkRetrieved(ctx context.Context, id string, at time.Time) (*models.HandModel, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hand_models SET retrieved_at = $2 WHERE id = $1 AND retrieved_at IS NULL`, id, at)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return r.Get(ctx, id)
}

func (r *PostgresRepository) MarkConfirmed(ctx context.Context, id string, at time.Time) (*models.HandModel, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hand_models SET confirmed_at = $2 WHERE id = $1 AND confirmed_at IS NULL`, id, at)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return r.Get(ctx, id)
}
