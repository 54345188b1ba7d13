package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
)

// InMemoryRepository is a map-backed Repository. The mutex gives the same
// deterministic first-write-wins pairing the postgres backend gets from
// its conditional UPDATE.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	byCode   map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[string]models.Session),
		byCode:   make(map[string]string),
	}
}

func copySession(s models.Session) *models.Session {
	c := s
	if s.PartnerUserID != nil {
		v := *s.PartnerUserID
		c.PartnerUserID = &v
	}
	if s.PairedAt != nil {
		v := *s.PairedAt
		c.PairedAt = &v
	}
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, session *models.Session) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = *session
	r.byCode[session.ShareCode] = session.ID

	return copySession(*session), nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	return copySession(s), nil
}

func (r *InMemoryRepository) GetByShareCode(ctx context.Context, shareCode string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[shareCode]
	if !ok {
		return nil, common.ErrorNotFound
	}

	return copySession(r.sessions[id]), nil
}

func (r *InMemoryRepository) SetPartner(ctx context.Context, id string, partnerUserID string, pairedAt time.Time) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if s.PartnerUserID == nil {
		s.PartnerUserID = &partnerUserID
		s.PairedAt = &pairedAt
		r.sessions[id] = s
	}

	return copySession(s), nil
}
