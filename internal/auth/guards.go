package auth

import (
	"context"

	"github.com/google/uuid"

	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
)

// RequireAuthenticated passes when the request has a resolved identity.
func RequireAuthenticated(ctx context.Context) (model.SafeUser, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return model.SafeUser{}, apperrors.ErrUnauthenticated
	}
	return user, nil
}

// RequireRole passes when the identity holds role.
func RequireRole(ctx context.Context, role model.Role) (model.SafeUser, error) {
	user, err := RequireAuthenticated(ctx)
	if err != nil {
		return user, err
	}
	if user.Role != role {
		return user, apperrors.ErrForbidden
	}
	return user, nil
}

// RequireOwnerOrRole passes when the identity owns the resource or holds role.
// Callers load the resource first so a missing resource reports not found.
func RequireOwnerOrRole(ctx context.Context, ownerID uuid.UUID, role model.Role) (model.SafeUser, error) {
	user, err := RequireAuthenticated(ctx)
	if err != nil {
		return user, err
	}
	if user.ID != ownerID && user.Role != role {
		return user, apperrors.ErrForbidden
	}
	return user, nil
}
