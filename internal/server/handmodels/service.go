// Package handmodels implements the model exchange: uploading a scanned
// hand model into a session, fetching it back, and the receiver's explicit
// confirmation that the transfer worked out.
package handmodels

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
	"github.com/connectinghands/handshare/internal/server/storage"
)

const defaultContentType = "model/gltf-binary"

// SessionRepository is the slice of the sessions repository this service needs.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*models.Session, error)
}

// UserRepository is the slice of the users repository this service needs.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type Service struct {
	repo     Repository
	sessions SessionRepository
	users    UserRepository
	blobs    storage.BlobStore
	maxSize  int64
}

func NewService(repo Repository, sessions SessionRepository, users UserRepository, blobs storage.BlobStore, maxSize int64) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		users:    users,
		blobs:    blobs,
		maxSize:  maxSize,
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

func (s *Service) signURL(ctx context.Context, model *models.HandModel) (*models.HandModel, error) {
	url, err := s.blobs.SignedGetURL(ctx, model.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("error signing download url: %v", err)
	}
	model.DownloadURL = url
	return model, nil
}

// Upload stores payload as a new model inside the session. Only session
// participants may upload, and the payload must stay within the size cap.
func (s *Service) Upload(ctx context.Context, sessionID string, ownerUserID string, payload []byte, contentType string) (*models.HandModel, error) {

	if err := s.resolveUser(ctx, ownerUserID); err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.HasParticipant(ownerUserID) {
		return nil, fmt.Errorf("%w: user is not a session participant", common.ErrorForbidden)
	}

	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty model payload", common.ErrorInvalidPayload)
	}

	if s.maxSize > 0 && int64(len(payload)) > s.maxSize {
		return nil, fmt.Errorf("%w: model exceeds %d bytes", common.ErrorPayloadTooLarge, s.maxSize)
	}

	if contentType == "" {
		contentType = defaultContentType
	}

	id, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, err
	}

	storageKey := fmt.Sprintf("hand-models/%s/%s.glb", sessionID, id)

	if err := s.blobs.Save(ctx, storageKey, payload); err != nil {
		return nil, fmt.Errorf("error saving model blob: %v", err)
	}

	model := &models.HandModel{
		ID:            id,
		SessionID:     sessionID,
		OwnerUserID:   ownerUserID,
		StorageKey:    storageKey,
		FileSizeBytes: int64(len(payload)),
		ContentType:   contentType,
		CreatedAt:     time.Now().UTC(),
	}

	model, err = s.repo.Create(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("error creating model record: %v", err)
	}

	return s.signURL(ctx, model)
}

// Get returns a model with a fresh download URL. When viewerUserID is set
// it must belong to the session; a first fetch by a participant other than
// the uploader stamps retrieved_at. Later fetches keep the original stamp.
func (s *Service) Get(ctx context.Context, id string, viewerUserID string) (*models.HandModel, error) {

	model, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if viewerUserID != "" {
		if err := s.resolveUser(ctx, viewerUserID); err != nil {
			return nil, err
		}

		session, err := s.sessions.Get(ctx, model.SessionID)
		if err != nil {
			return nil, err
		}

		if !session.HasParticipant(viewerUserID) {
			return nil, fmt.Errorf("%w: user is not a session participant", common.ErrorForbidden)
		}

		if viewerUserID != model.OwnerUserID && model.RetrievedAt == nil {
			model, err = s.repo.MarkRetrieved(ctx, id, time.Now().UTC())
			if err != nil {
				return nil, err
			}
		}
	}

	return s.signURL(ctx, model)
}

// Confirm records that the receiving side accepted the model. The uploader
// cannot confirm their own model. Confirming twice keeps the first stamp.
func (s *Service) Confirm(ctx context.Context, id string, userID string) (*models.HandModel, error) {

	if err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}

	model, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, model.SessionID)
	if err != nil {
		return nil, err
	}

	if !session.HasParticipant(userID) {
		return nil, fmt.Errorf("%w: user is not a session participant", common.ErrorForbidden)
	}

	if userID == model.OwnerUserID {
		return nil, fmt.Errorf("%w: uploader cannot confirm own model", common.ErrorForbidden)
	}

	model, err = s.repo.MarkConfirmed(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return s.signURL(ctx, model)
}

// Latest returns the most recently uploaded model of a session.
func (s *Service) Latest(ctx context.Context, sessionID string) (*models.HandModel, error) {

	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	model, err := s.repo.LatestBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.signURL(ctx, model)
}
