package sharing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/connectinghands/handshare/internal/client/models"
	"github.com/connectinghands/handshare/internal/client/repositories/state"
	"github.com/connectinghands/handshare/internal/client/store"
	"github.com/connectinghands/handshare/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- fakes ----

type fakeAPI struct {
	users    map[string]*models.User
	sessions map[string]*models.Session

	pollResult *models.PollResult
	pollErr    error

	uploaded  *models.HandModel
	fetched   *models.HandModel
	confirmed *models.HandModel

	fetchCalls int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
	}
}

func (f *fakeAPI) CreateUser(ctx context.Context, displayName string) (*models.User, error) {
	u := &models.User{ID: "u-" + displayName, DisplayName: displayName, CreatedAt: time.Now().UTC()}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeAPI) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeAPI) CreateSession(ctx context.Context, inviterUserID string) (*models.Session, error) {
	s := &models.Session{ID: "sess1", ShareCode: "ABC234", InviterUserID: inviterUserID, CreatedAt: time.Now().UTC()}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeAPI) JoinSession(ctx context.Context, shareCode, partnerUserID string) (*models.Session, error) {
	for _, s := range f.sessions {
		if s.ShareCode == shareCode {
			joined := *s
			joined.PartnerUserID = &partnerUserID
			return &joined, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAPI) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeAPI) UploadModelBase64(ctx context.Context, sessionID, ownerUserID string, payload []byte, contentType string) (*models.HandModel, error) {
	f.uploaded = &models.HandModel{
		ID:            "m1",
		SessionID:     sessionID,
		OwnerUserID:   ownerUserID,
		FileSizeBytes: int64(len(payload)),
		ContentType:   contentType,
		CreatedAt:     time.Now().UTC(),
	}
	return f.uploaded, nil
}

func (f *fakeAPI) Poll(ctx context.Context, sessionID, afterModelID string) (*models.PollResult, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return f.pollResult, nil
}

func (f *fakeAPI) GetHandModel(ctx context.Context, id, viewerUserID string) (*models.HandModel, error) {
	f.fetchCalls++
	return f.fetched, nil
}

func (f *fakeAPI) LatestHandModel(ctx context.Context, sessionID string) (*models.HandModel, error) {
	if f.fetched == nil {
		return nil, common.ErrorNotFound
	}
	return f.fetched, nil
}

func (f *fakeAPI) ConfirmDelivery(ctx context.Context, modelID, partnerUserID string) (*models.HandModel, error) {
	now := time.Now().UTC()
	f.confirmed = &models.HandModel{ID: modelID, ConfirmedAt: &now}
	return f.confirmed, nil
}

func newTestService(t *testing.T) (*Service, *fakeAPI, state.Repository) {
	t.Helper()

	db, err := state.OpenDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := state.NewSQLiteRepository(db)
	api := newFakeAPI()
	return NewService(api, store.New(), repo), api, repo
}

// ---- tests ----

func TestCreateUserAndSession_Persisted(t *testing.T) {
	svc, _, repo := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)

	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, user.ID, snap.UserID)
	assert.Equal(t, session.ID, snap.SessionID)
}

func TestCreateSession_WithoutUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateSession(context.Background())
	assert.ErrorIs(t, err, common.ErrorInvalidUser)
}

func TestSendModel_AdvancesCursorPastOwnUpload(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "hand.glb")
	require.NoError(t, os.WriteFile(path, []byte("glb-bytes"), 0o600))

	model, err := svc.SendModel(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "model/gltf-binary", model.ContentType)

	st := svc.State()
	assert.Equal(t, model.ID, st.Cursor)
}

func TestPollOnce_FetchesPartnerModel(t *testing.T) {
	svc, api, repo := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	retrieved := time.Now().UTC()
	partnerModel := &models.HandModel{ID: "m7", SessionID: session.ID, OwnerUserID: "someone-else"}
	api.pollResult = &models.PollResult{Session: session, LatestModel: partnerModel, HasNewModel: true}
	api.fetched = &models.HandModel{ID: "m7", SessionID: session.ID, OwnerUserID: "someone-else", RetrievedAt: &retrieved}

	st, err := svc.PollOnce(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, api.fetchCalls, "partner model must be fetched to stamp retrieval")
	assert.Equal(t, "m7", st.Cursor)
	require.NotNil(t, st.LatestModel)
	assert.NotNil(t, st.LatestModel.RetrievedAt)

	snap, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "m7", snap.Cursor)
}

func TestPollOnce_OwnModelOnlyAdvancesCursor(t *testing.T) {
	svc, api, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	ownModel := &models.HandModel{ID: "m1", SessionID: session.ID, OwnerUserID: user.ID}
	api.pollResult = &models.PollResult{Session: session, LatestModel: ownModel, HasNewModel: true}

	st, err := svc.PollOnce(ctx)
	require.NoError(t, err)

	assert.Zero(t, api.fetchCalls, "own upload must not be re-fetched")
	assert.Equal(t, "m1", st.Cursor)
}

func TestPollOnce_ErrorLandsInErrorSlot(t *testing.T) {
	svc, api, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	_, err = svc.CreateSession(ctx)
	require.NoError(t, err)

	api.pollErr = common.ErrorTransport

	st, err := svc.PollOnce(ctx)
	require.Error(t, err)
	assert.Equal(t, "poll", st.FailedOp)
	assert.ErrorIs(t, st.LastError, common.ErrorTransport)
	assert.NotNil(t, st.Session, "failure must not wipe the session")
}

func TestResume_RestoresIdentityAndCursor(t *testing.T) {
	svc, api, repo := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	session, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &state.Snapshot{
		UserID: user.ID, DisplayName: user.DisplayName, SessionID: session.ID, Cursor: "m3",
	}))

	// fresh service over the same repo, as after a restart
	restarted := NewService(api, store.New(), repo)
	require.NoError(t, restarted.Resume(ctx))

	st := restarted.State()
	require.NotNil(t, st.User)
	assert.Equal(t, user.ID, st.User.ID)
	require.NotNil(t, st.Session)
	assert.Equal(t, session.ID, st.Session.ID)
	assert.Equal(t, "m3", st.Cursor)
}

func TestResume_StaleSessionCleared(t *testing.T) {
	svc, api, repo := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, &state.Snapshot{UserID: user.ID, SessionID: "gone", Cursor: "m1"}))

	restarted := NewService(api, store.New(), repo)
	require.NoError(t, restarted.Resume(ctx))

	st := restarted.State()
	assert.Nil(t, st.Session)
	assert.Empty(t, st.Cursor)
}

func TestConfirm_WithoutModel(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Alice")
	require.NoError(t, err)

	_, err = svc.Confirm(ctx)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
