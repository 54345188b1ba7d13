package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, display_name, created_at)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, user.ID, user.DisplayName, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, display_name, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.DisplayName, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}
