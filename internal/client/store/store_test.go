package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/connectinghands/handshare/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestApply_FailurePreservesGoodState(t *testing.T) {
	s := Apply(State{}, UserCreated{User: &models.User{ID: "u1"}})
	s = Apply(s, SessionUpdated{Session: &models.Session{ID: "s1"}})
	s = Apply(s, CursorAdvanced{ModelID: "m1"})

	failed := Apply(s, OperationFailed{Op: "poll", Err: errors.New("boom")})

	assert.Equal(t, "poll", failed.FailedOp)
	assert.Error(t, failed.LastError)
	assert.Equal(t, "u1", failed.User.ID)
	assert.Equal(t, "s1", failed.Session.ID)
	assert.Equal(t, "m1", failed.Cursor)

	cleared := Apply(failed, ErrorCleared{})
	assert.Empty(t, cleared.FailedOp)
	assert.NoError(t, cleared.LastError)
}

func TestApply_SessionClearedResetsModelAndCursor(t *testing.T) {
	s := Apply(State{}, SessionUpdated{Session: &models.Session{ID: "s1"}})
	s = Apply(s, ModelUpdated{Model: &models.HandModel{ID: "m1"}})
	s = Apply(s, CursorAdvanced{ModelID: "m1"})

	s = Apply(s, SessionCleared{})

	assert.Nil(t, s.Session)
	assert.Nil(t, s.LatestModel)
	assert.Empty(t, s.Cursor)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	orig := State{Cursor: "m1"}

	_ = Apply(orig, CursorAdvanced{ModelID: "m2"})

	assert.Equal(t, "m1", orig.Cursor)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Dispatch(CursorAdvanced{ModelID: "m"})
			_ = st.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, "m", st.Snapshot().Cursor)
}
