// Package store keeps the client's view of the pairing workflow: who the
// user is, which session they are in, the latest model seen and the poll
// cursor. State changes go through a pure reducer so a failure can never
// corrupt previously good state.
package store

import (
	"sync"

	"github.com/connectinghands/handshare/internal/client/models"
)

// State is an immutable snapshot of the client's view.
type State struct {
	User        *models.User
	Session     *models.Session
	LatestModel *models.HandModel

	// Cursor is the id of the last model this client has seen. It travels
	// with every poll request; the server keeps no per-client state.
	Cursor string

	// FailedOp and LastError describe the most recent failure. They are
	// cleared explicitly; the rest of the state survives a failure.
	FailedOp  string
	LastError error
}

type Event interface {
	isEvent()
}

type UserCreated struct{ User *models.User }

type SessionUpdated struct{ Session *models.Session }

type SessionCleared struct{}

type ModelUpdated struct{ Model *models.HandModel }

type CursorAdvanced struct{ ModelID string }

type OperationFailed struct {
	Op  string
	Err error
}

type ErrorCleared struct{}

func (UserCreated) isEvent()     {}
func (SessionUpdated) isEvent()  {}
func (SessionCleared) isEvent()  {}
func (ModelUpdated) isEvent()    {}
func (CursorAdvanced) isEvent()  {}
func (OperationFailed) isEvent() {}
func (ErrorCleared) isEvent()    {}

// Apply computes the next state. It never mutates its input.
func Apply(s State, e Event) State {
	switch ev := e.(type) {
	case UserCreated:
		s.User = ev.User
	case SessionUpdated:
		s.Session = ev.Session
	case SessionCleared:
		s.Session = nil
		s.LatestModel = nil
		s.Cursor = ""
	case ModelUpdated:
		s.LatestModel = ev.Model
	case CursorAdvanced:
		s.Cursor = ev.ModelID
	case OperationFailed:
		s.FailedOp = ev.Op
		s.LastError = ev.Err
	case ErrorCleared:
		s.FailedOp = ""
		s.LastError = nil
	}
	return s
}

// Store serializes state transitions. Snapshot returns a copy, so readers
// never observe a half-applied update.
type Store struct {
	mu    sync.RWMutex
	state State
}

func New() *Store {
	return &Store{}
}

func (s *Store) Dispatch(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Apply(s.state, e)
	return s.state
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}
