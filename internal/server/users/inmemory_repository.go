package users

import (
	"context"
	"sync"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and the
// in-memory repository manager.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]models.User)}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = *user

	u := *user
	return &u, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	return &u, nil
}
