// Package sessions implements the pairing session manager: creating a
// session with a short human-shareable code, joining it as a partner, and
// the poll operation receivers use to notice freshly uploaded models.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
	"github.com/connectinghands/handshare/internal/server/storage"
)

// shareCodeAttempts bounds the collision-retry loop when generating codes.
const shareCodeAttempts = 30

// UserRepository is the slice of the users repository this service needs.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

// ModelRepository is the slice of the hand models repository this service
// needs for the poll operation.
type ModelRepository interface {
	LatestBySession(ctx context.Context, sessionID string) (*models.HandModel, error)
}

type Service struct {
	repo       Repository
	users      UserRepository
	handModels ModelRepository
	blobs      storage.BlobStore
	codeLength int
}

func NewService(repo Repository, users UserRepository, handModels ModelRepository, blobs storage.BlobStore, codeLength int) *Service {
	if codeLength <= 0 {
		codeLength = 6
	}
	return &Service{
		repo:       repo,
		users:      users,
		handModels: handModels,
		blobs:      blobs,
		codeLength: codeLength,
	}
}

func (s *Service) resolveUser(ctx context.Context, userID string) error {
	_, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: %s", common.ErrorInvalidUser, userID)
		}
		return common.ErrorInternal
	}
	return nil
}

// generateShareCode retries until it finds a code no active session uses.
func (s *Service) generateShareCode(ctx context.Context) (string, error) {
	for i := 0; i < shareCodeAttempts; i++ {
		code, err := common.MakeShareCode(s.codeLength)
		if err != nil {
			return "", err
		}

		_, err = s.repo.GetByShareCode(ctx, code)
		if errors.Is(err, common.ErrorNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: unable to generate share code", common.ErrorInternal)
}

// Create starts a new unpaired session owned by inviterUserID.
func (s *Service) Create(ctx context.Context, inviterUserID string) (*models.Session, error) {

	if err := s.resolveUser(ctx, inviterUserID); err != nil {
		return nil, err
	}

	shareCode, err := s.generateShareCode(ctx)
	if err != nil {
		return nil, err
	}

	id, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:            id,
		ShareCode:     shareCode,
		InviterUserID: inviterUserID,
		CreatedAt:     time.Now().UTC(),
	}

	session, err = s.repo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %v", err)
	}

	return session, nil
}

// Join pairs partnerUserID into the session identified by shareCode.
// A session pairs at most once; a rejoin by the same partner is a no-op
// and any other user gets ErrorAlreadyPaired. First write wins on a race.
func (s *Service) Join(ctx context.Context, shareCode string, partnerUserID string) (*models.Session, error) {

	if err := s.resolveUser(ctx, partnerUserID); err != nil {
		return nil, err
	}

	session, err := s.repo.GetByShareCode(ctx, shareCode)
	if err != nil {
		return nil, err
	}

	if session.InviterUserID == partnerUserID {
		return nil, fmt.Errorf("%w: inviter cannot join own session", common.ErrorForbidden)
	}

	if session.PartnerUserID != nil {
		if *session.PartnerUserID == partnerUserID {
			return session, nil
		}
		return nil, common.ErrorAlreadyPaired
	}

	session, err = s.repo.SetPartner(ctx, session.ID, partnerUserID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	// Somebody else may have won the pairing race.
	if session.PartnerUserID == nil || *session.PartnerUserID != partnerUserID {
		return nil, common.ErrorAlreadyPaired
	}

	return session, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Session, error) {
	return s.repo.Get(ctx, id)
}

// Poll returns the session plus the most recently created model and
// whether it differs from the caller's cursor. The server keeps no
// per-client "seen" state; the cursor travels with the request.
func (s *Service) Poll(ctx context.Context, sessionID string, afterModelID string) (*models.PollResult, error) {

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	latest, err := s.handModels.LatestBySession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		latest = nil
	}

	if latest != nil {
		url, err := s.blobs.SignedGetURL(ctx, latest.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("error signing download url: %v", err)
		}
		latest.DownloadURL = url
	}

	return &models.PollResult{
		Session:     session,
		LatestModel: latest,
		HasNewModel: latest != nil && latest.ID != afterModelID,
	}, nil
}
