package sessions

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
)

// ---- fakes ----

type fakeUsersRepo struct {
	users map[string]*models.User
}

func (f *fakeUsersRepo) Get(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeModelsRepo struct {
	latest *models.HandModel
	err    error
}

func (f *fakeModelsRepo) LatestBySession(ctx context.Context, sessionID string) (*models.HandModel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.latest, nil
}

type fakeBlobStore struct {
	signErr error
}

func (f *fakeBlobStore) Save(ctx context.Context, key string, data []byte) error { return nil }
func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	return nil, 0, common.ErrorNotFound
}
func (f *fakeBlobStore) SignedGetURL(ctx context.Context, key string) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.example/" + key, nil
}

func newTestService(t *testing.T, userIDs ...string) *Service {
	t.Helper()
	users := &fakeUsersRepo{users: make(map[string]*models.User)}
	for _, id := range userIDs {
		users.users[id] = &models.User{ID: id, DisplayName: "User", CreatedAt: time.Now().UTC()}
	}
	return NewService(NewInMemoryRepository(), users, &fakeModelsRepo{err: common.ErrorNotFound}, &fakeBlobStore{}, 6)
}

// ---- tests ----

func TestCreate_Success(t *testing.T) {
	s := newTestService(t, "inviter")

	session, err := s.Create(context.Background(), "inviter")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if len(session.ID) != 32 {
		t.Errorf("expected 32-char session id, got %q", session.ID)
	}
	if len(session.ShareCode) != 6 {
		t.Errorf("expected 6-char share code, got %q", session.ShareCode)
	}
	for _, r := range session.ShareCode {
		if !strings.ContainsRune(common.ShareCodeAlphabet, r) {
			t.Errorf("share code %q contains %q outside the alphabet", session.ShareCode, r)
		}
	}
	if session.InviterUserID != "inviter" {
		t.Errorf("unexpected inviter: %q", session.InviterUserID)
	}
	if session.PartnerUserID != nil || session.PairedAt != nil {
		t.Errorf("new session must be unpaired")
	}
}

func TestCreate_InvalidUser(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorInvalidUser) {
		t.Fatalf("expected ErrorInvalidUser, got %v", err)
	}
}

func TestJoin_Success(t *testing.T) {
	s := newTestService(t, "inviter", "partner")

	created, err := s.Create(context.Background(), "inviter")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	joined, err := s.Join(context.Background(), created.ShareCode, "partner")
	if err != nil {
		t.Fatalf("Join error: %v", err)
	}

	if joined.PartnerUserID == nil || *joined.PartnerUserID != "partner" {
		t.Errorf("partner not recorded: %+v", joined)
	}
	if joined.PairedAt == nil {
		t.Errorf("paired_at not recorded")
	}
}

func TestJoin_SamePartnerIsNoop(t *testing.T) {
	s := newTestService(t, "inviter", "partner")

	created, _ := s.Create(context.Background(), "inviter")

	first, err := s.Join(context.Background(), created.ShareCode, "partner")
	if err != nil {
		t.Fatalf("first Join error: %v", err)
	}
	second, err := s.Join(context.Background(), created.ShareCode, "partner")
	if err != nil {
		t.Fatalf("second Join error: %v", err)
	}

	if !first.PairedAt.Equal(*second.PairedAt) {
		t.Errorf("rejoin must keep the original paired_at")
	}
}

func TestJoin_AlreadyPaired(t *testing.T) {
	s := newTestService(t, "inviter", "partner", "intruder")

	created, _ := s.Create(context.Background(), "inviter")

	if _, err := s.Join(context.Background(), created.ShareCode, "partner"); err != nil {
		t.Fatalf("Join error: %v", err)
	}

	_, err := s.Join(context.Background(), created.ShareCode, "intruder")
	if !errors.Is(err, common.ErrorAlreadyPaired) {
		t.Fatalf("expected ErrorAlreadyPaired, got %v", err)
	}
}

func TestJoin_InviterCannotJoinOwnSession(t *testing.T) {
	s := newTestService(t, "inviter")

	created, _ := s.Create(context.Background(), "inviter")

	_, err := s.Join(context.Background(), created.ShareCode, "inviter")
	if !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("expected ErrorForbidden, got %v", err)
	}
}

func TestJoin_UnknownShareCode(t *testing.T) {
	s := newTestService(t, "partner")

	_, err := s.Join(context.Background(), "ZZZZZZ", "partner")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestJoin_InvalidUser(t *testing.T) {
	s := newTestService(t, "inviter")

	created, _ := s.Create(context.Background(), "inviter")

	_, err := s.Join(context.Background(), created.ShareCode, "ghost")
	if !errors.Is(err, common.ErrorInvalidUser) {
		t.Fatalf("expected ErrorInvalidUser, got %v", err)
	}
}

func TestPoll_NoModels(t *testing.T) {
	s := newTestService(t, "inviter")

	created, _ := s.Create(context.Background(), "inviter")

	res, err := s.Poll(context.Background(), created.ID, "")
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}

	if res.Session.ID != created.ID {
		t.Errorf("unexpected session in poll result")
	}
	if res.LatestModel != nil || res.HasNewModel {
		t.Errorf("expected empty poll result, got %+v", res)
	}
}

func TestPoll_CursorSemantics(t *testing.T) {
	s := newTestService(t, "inviter")

	created, _ := s.Create(context.Background(), "inviter")

	latest := &models.HandModel{
		ID:         "m1",
		SessionID:  created.ID,
		StorageKey: "hand-models/" + created.ID + "/m1.glb",
		CreatedAt:  time.Now().UTC(),
	}
	s.handModels = &fakeModelsRepo{latest: latest}

	res, err := s.Poll(context.Background(), created.ID, "")
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if !res.HasNewModel {
		t.Errorf("empty cursor with a model present must report has_new_model")
	}
	if res.LatestModel.DownloadURL == "" {
		t.Errorf("poll result must carry a download url")
	}

	res, err = s.Poll(context.Background(), created.ID, "m1")
	if err != nil {
		t.Fatalf("Poll error: %v", err)
	}
	if res.HasNewModel {
		t.Errorf("cursor equal to latest id must not report has_new_model")
	}
	if res.LatestModel == nil {
		t.Errorf("latest model still travels with the result")
	}
}

func TestPoll_UnknownSession(t *testing.T) {
	s := newTestService(t, "inviter")

	_, err := s.Poll(context.Background(), "missing", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}
