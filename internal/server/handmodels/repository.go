package handmodels

import (
	"context"
	"time"

	"github.com/connectinghands/handshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, model *models.HandModel) (*models.HandModel, error)
	Get(ctx context.Context, id string) (*models.HandModel, error)

	// LatestBySession returns the most recently created model of a
	// session, or common.ErrorNotFound when none was uploaded yet.
	LatestBySession(ctx context.Context, sessionID string) (*models.HandModel, error)

	// MarkRetrieved sets retrieved_at if it is still null and returns the
	// row as stored afterwards. Safe to call repeatedly.
	MarkRetrieved(ctx context.Context, id string, at time.Time) (*models.HandModel, error)

	// MarkConfirmed sets confirmed_at if it is still null and returns the
	// row as stored afterwards. Safe to call repeatedly.
	MarkConfirmed(ctx context.Context, id string, at time.Time) (*models.HandModel, error)
}
