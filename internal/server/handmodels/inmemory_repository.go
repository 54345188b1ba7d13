package handmodels

import (
	"context"
	"sync"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and as a
// lightweight backend. Ordering for LatestBySession mirrors the postgres
// backend: created_at descending with id as the tie breaker.
type InMemoryRepository struct {
	mu     sync.RWMutex
	models map[string]models.HandModel
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{models: make(map[string]models.HandModel)}
}

func copyModel(m models.HandModel) *models.HandModel {
	c := m
	if m.RetrievedAt != nil {
		v := *m.RetrievedAt
		c.RetrievedAt = &v
	}
	if m.ConfirmedAt != nil {
		v := *m.ConfirmedAt
		c.ConfirmedAt = &v
	}
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, model *models.HandModel) (*models.HandModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.models[model.ID] = *model

	return copyModel(*model), nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.HandModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	return copyModel(m), nil
}

func (r *InMemoryRepository) LatestBySession(ctx context.Context, sessionID string) (*models.HandModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.HandModel
	for id := range r.models {
		m := r.models[id]
		if m.SessionID != sessionID {
			continue
		}
		if latest == nil ||
			m.CreatedAt.After(latest.CreatedAt) ||
			(m.CreatedAt.Equal(latest.CreatedAt) && m.ID > latest.ID) {
			latest = copyModel(m)
		}
	}

	if latest == nil {
		return nil, common.ErrorNotFound
	}

	return latest, nil
}

func (r *InMemoryRepository) MarkRetrieved(ctx context.Context, id string, at time.Time) (*models.HandModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.models[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if m.RetrievedAt == nil {
		m.RetrievedAt = &at
		r.models[id] = m
	}

	return copyModel(m), nil
}

func (r *InMemoryRepository) MarkConfirmed(ctx context.Context, id string, at time.Time) (*models.HandModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.models[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if m.ConfirmedAt == nil {
		m.ConfirmedAt = &at
		r.models[id] = m
	}

	return copyModel(m), nil
}
