package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"interviewprep/internal/cache"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
)

const identityCacheTTL = 5 * time.Minute

// IdentityService resolves session subjects to users.
type IdentityService interface {
	// Resolve returns the user with id, or nil when no such user exists.
	// Store failures are returned as errors.
	Resolve(ctx context.Context, id uuid.UUID) (*model.SafeUser, error)
	// Invalidate drops any cached copy of the user.
	Invalidate(ctx context.Context, id uuid.UUID)
}

type identityService struct {
	users repository.UserRepository
	cache *cache.Client
}

// NewIdentityService builds an IdentityService with repository and cache.
func NewIdentityService(users repository.UserRepository, cache *cache.Client) IdentityService {
	return &identityService{users: users, cache: cache}
}

func identityCacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *identityService) Resolve(ctx context.Context, id uuid.UUID) (*model.SafeUser, error) {
	var cached model.SafeUser
	if s.cache.GetJSON(ctx, identityCacheKey(id), &cached) && cached.ID == id {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.cache.SetJSON(ctx, identityCacheKey(id), user, identityCacheTTL)
	return user, nil
}

func (s *identityService) Invalidate(ctx context.Context, id uuid.UUID) {
	s.cache.Delete(ctx, identityCacheKey(id))
}
