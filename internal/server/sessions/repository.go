package sessions

import (
	"context"
	"time"

	"github.com/connectinghands/handshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.Session) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	GetByShareCode(ctx context.Context, shareCode string) (*models.Session, error)

	// SetPartner pairs the session with partnerUserID if and only if the
	// session is still unpaired. It returns the session as stored after
	// the attempt; when a different partner won the race, the returned
	// row carries that partner and the caller decides what to do.
	SetPartner(ctx context.Context, id string, partnerUserID string, pairedAt time.Time) (*models.Session, error)
}
