// Package users implements the identity resolver: a minimal, deliberately
// unauthenticated user record created once per device and referenced by id
// in all later calls.
package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/connectinghands/handshare/internal/common"
	"github.com/connectinghands/handshare/internal/server/models"
	"github.com/google/uuid"
)

const maxDisplayNameLength = 120

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new user. The display name is trimmed and defaults
// to "User" when blank.
func (s *Service) Create(ctx context.Context, displayName string) (*models.User, error) {

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = "User"
	}
	if len(displayName) > maxDisplayNameLength {
		return nil, fmt.Errorf("%w: display name too long", common.ErrorInvalidPayload)
	}

	user := &models.User{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	user, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.Get(ctx, id)
}
