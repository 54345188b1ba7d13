package users

import (
	"context"

	"github.com/connectinghands/handshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
}
