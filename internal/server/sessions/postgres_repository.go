package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/dbx"
	"github.com/connectinghands/handshare/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func scanSession(row *sql.Row) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(&s.ID, &s.ShareCode, &s.InviterUserID, &s.PartnerUserID, &s.CreatedAt, &s.PairedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return s, nil
}

const selectSession = `SELECT id, share_code, inviter_user_id, partner_user_id, created_at, paired_at FROM sessions`

func (r *PostgresRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {

	query :=
		`INSERT INTO sessions (id, share_code, inviter_user_id, partner_user_id, created_at, paired_at)
         VALUES ($1, $2, $3, $4, $5, $6)
		 `

	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.ShareCode, session.InviterUserID, session.PartnerUserID, session.CreatedAt, session.PairedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return session, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	return scanSession(r.db.QueryRowContext(ctx, selectSession+` WHERE id = $1`, id))
}

func (r *PostgresRepository) GetByShareCode(ctx context.Context, shareCode string) (*models.Session, error) {
	return scanSession(r.db.QueryRowContext(ctx, selectSession+` WHERE share_code = $1`, shareCode))
}

// SetPartner performs the pairing transition inside a transaction. The
// conditional UPDATE makes the first writer win; the reread returns
// whatever state the row ended up in.
func (r *PostgresRepository) SetPartner(ctx context.Context, id string, partnerUserID string, pairedAt time.Time) (*models.Session, error) {

	var session *models.Session

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE sessions SET partner_user_id = $2, paired_at = $3
			 WHERE id = $1 AND partner_user_id IS NULL`,
			id, partnerUserID, pairedAt)
		if err != nil {
			return fmt.Errorf("error performing sql request: %v", err)
		}

		session, err = scanSession(tx.QueryRowContext(ctx, selectSession+` WHERE id = $1`, id))
		return err
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}
