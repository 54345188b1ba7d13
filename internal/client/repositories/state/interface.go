// Package state persists the client's identity and session position so a
// restarted client resumes where it left off.
package state

import "context"

// Snapshot is the durable slice of the client's view state.
type Snapshot struct {
	UserID      string
	DisplayName string
	SessionID   string
	Cursor      string
}

type Repository interface {
	// Load returns the stored snapshot, or (nil, nil) when nothing was
	// saved yet.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	Clear(ctx context.Context) error
}
