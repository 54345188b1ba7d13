// Package sharing orchestrates the pairing workflow on the client: it
// composes the API client, the view-state store and the sqlite state
// repository, and exposes the operations the REPL and the poll loop call.
package sharing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/connectinghands/handshare/internal/client/models"
	"github.com/connectinghands/handshare/internal/client/repositories/state"
	"github.com/connectinghands/handshare/internal/client/store"
	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/filex"
)

const defaultMaxSendBytes = 50 * 1024 * 1024

// APIClient is the slice of the API surface this service needs. The real
// api.Client satisfies it; tests provide fakes.
type APIClient interface {
	CreateUser(ctx context.Context, displayName string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateSession(ctx context.Context, inviterUserID string) (*models.Session, error)
	JoinSession(ctx context.Context, shareCode, partnerUserID string) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	UploadModelBase64(ctx context.Context, sessionID, ownerUserID string, payload []byte, contentType string) (*models.HandModel, error)
	Poll(ctx context.Context, sessionID, afterModelID string) (*models.PollResult, error)
	GetHandModel(ctx context.Context, id, viewerUserID string) (*models.HandModel, error)
	LatestHandModel(ctx context.Context, sessionID string) (*models.HandModel, error)
	ConfirmDelivery(ctx context.Context, modelID, partnerUserID string) (*models.HandModel, error)
}

type Service struct {
	api          APIClient
	store        *store.Store
	repo         state.Repository
	maxSendBytes int64
}

func NewService(api APIClient, st *store.Store, repo state.Repository) *Service {
	return &Service{
		api:          api,
		store:        st,
		repo:         repo,
		maxSendBytes: defaultMaxSendBytes,
	}
}

// State returns the current view-state snapshot.
func (s *Service) State() store.State {
	return s.store.Snapshot()
}

// persist mirrors the durable slice of the store into the state repository.
func (s *Service) persist(ctx context.Context) error {
	st := s.store.Snapshot()

	snap := &state.Snapshot{Cursor: st.Cursor}
	if st.User != nil {
		snap.UserID = st.User.ID
		snap.DisplayName = st.User.DisplayName
	}
	if st.Session != nil {
		snap.SessionID = st.Session.ID
	}

	return s.repo.Save(ctx, snap)
}

func (s *Service) fail(op string, err error) error {
	s.store.Dispatch(store.OperationFailed{Op: op, Err: err})
	return err
}

// Resume restores identity and session from the state database. Records
// the server no longer knows are dropped silently; transport failures are
// surfaced so the caller can retry later.
func (s *Service) Resume(ctx context.Context) error {

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil {
		return nil
	}

	if snap.UserID != "" {
		user, err := s.api.GetUser(ctx, snap.UserID)
		switch {
		case err == nil:
			s.store.Dispatch(store.UserCreated{User: user})
		case errors.Is(err, common.ErrorTransport):
			return err
		case errors.Is(err, common.ErrorNotFound):
			// stale identity, start over
			return s.repo.Clear(ctx)
		default:
			return err
		}
	}

	if snap.SessionID != "" {
		session, err := s.api.GetSession(ctx, snap.SessionID)
		switch {
		case err == nil:
			s.store.Dispatch(store.SessionUpdated{Session: session})
			s.store.Dispatch(store.CursorAdvanced{ModelID: snap.Cursor})
		case errors.Is(err, common.ErrorTransport):
			return err
		case errors.Is(err, common.ErrorNotFound):
			s.store.Dispatch(store.SessionCleared{})
			return s.persist(ctx)
		default:
			return err
		}
	}

	return nil
}

func (s *Service) CreateUser(ctx context.Context, displayName string) (*models.User, error) {

	user, err := s.api.CreateUser(ctx, displayName)
	if err != nil {
		return nil, s.fail("user", err)
	}

	s.store.Dispatch(store.UserCreated{User: user})
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) requireUser() (*models.User, error) {
	st := s.store.Snapshot()
	if st.User == nil {
		return nil, fmt.Errorf("%w: create a user first", common.ErrorInvalidUser)
	}
	return st.User, nil
}

func (s *Service) requireSession() (*models.Session, error) {
	st := s.store.Snapshot()
	if st.Session == nil {
		return nil, fmt.Errorf("%w: no active session", common.ErrorNotFound)
	}
	return st.Session, nil
}

func (s *Service) CreateSession(ctx context.Context) (*models.Session, error) {

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	session, err := s.api.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, s.fail("create", err)
	}

	s.store.Dispatch(store.SessionCleared{})
	s.store.Dispatch(store.SessionUpdated{Session: session})
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) JoinSession(ctx context.Context, shareCode string) (*models.Session, error) {

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	session, err := s.api.JoinSession(ctx, shareCode, user.ID)
	if err != nil {
		return nil, s.fail("join", err)
	}

	s.store.Dispatch(store.SessionCleared{})
	s.store.Dispatch(store.SessionUpdated{Session: session})
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	return session, nil
}

// SendModel uploads a local .glb file into the active session. The cursor
// advances past the upload so the sender's own model is never reported
// back as news.
func (s *Service) SendModel(ctx context.Context, path string) (*models.HandModel, error) {

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	payload, err := filex.ReadLimited(path, s.maxSendBytes)
	if err != nil {
		return nil, s.fail("send", err)
	}

	contentType := ""
	if filepath.Ext(path) == ".glb" {
		contentType = "model/gltf-binary"
	}

	model, err := s.api.UploadModelBase64(ctx, session.ID, user.ID, payload, contentType)
	if err != nil {
		return nil, s.fail("send", err)
	}

	s.store.Dispatch(store.ModelUpdated{Model: model})
	s.store.Dispatch(store.CursorAdvanced{ModelID: model.ID})
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	return model, nil
}

// PollOnce runs a single poll round: session refresh, new-model check,
// metadata fetch (which stamps retrieved_at server-side) and cursor
// advance. Failures land in the store's error slot and leave the rest of
// the state untouched.
func (s *Service) PollOnce(ctx context.Context) (store.State, error) {

	st := s.store.Snapshot()
	if st.User == nil || st.Session == nil {
		return st, fmt.Errorf("%w: no active session", common.ErrorNotFound)
	}

	res, err := s.api.Poll(ctx, st.Session.ID, st.Cursor)
	if err != nil {
		s.store.Dispatch(store.OperationFailed{Op: "poll", Err: err})
		return s.store.Snapshot(), err
	}

	s.store.Dispatch(store.SessionUpdated{Session: res.Session})
	s.store.Dispatch(store.ErrorCleared{})

	if res.HasNewModel && res.LatestModel != nil {
		latest := res.LatestModel

		if latest.OwnerUserID != st.User.ID {
			fetched, err := s.api.GetHandModel(ctx, latest.ID, st.User.ID)
			if err != nil {
				s.store.Dispatch(store.OperationFailed{Op: "poll", Err: err})
				return s.store.Snapshot(), err
			}
			latest = fetched
		}

		s.store.Dispatch(store.ModelUpdated{Model: latest})
		s.store.Dispatch(store.CursorAdvanced{ModelID: latest.ID})
		if err := s.persist(ctx); err != nil {
			return s.store.Snapshot(), err
		}
	}

	return s.store.Snapshot(), nil
}

// Latest fetches the newest model of the active session regardless of the
// cursor position.
func (s *Service) Latest(ctx context.Context) (*models.HandModel, error) {

	session, err := s.requireSession()
	if err != nil {
		return nil, err
	}

	model, err := s.api.LatestHandModel(ctx, session.ID)
	if err != nil {
		return nil, s.fail("latest", err)
	}

	s.store.Dispatch(store.ModelUpdated{Model: model})
	return model, nil
}

// Confirm acknowledges the model currently held in the store.
func (s *Service) Confirm(ctx context.Context) (*models.HandModel, error) {

	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	st := s.store.Snapshot()
	if st.LatestModel == nil {
		return nil, fmt.Errorf("%w: no model to confirm", common.ErrorNotFound)
	}

	model, err := s.api.ConfirmDelivery(ctx, st.LatestModel.ID, user.ID)
	if err != nil {
		return nil, s.fail("confirm", err)
	}

	s.store.Dispatch(store.ModelUpdated{Model: model})
	return model, nil
}
