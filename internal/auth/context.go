package auth

import (
	"context"

	"interviewprep/internal/model"
)

type contextKey int

const userKey contextKey = 0

// WithUser returns a copy of ctx carrying the resolved identity.
func WithUser(ctx context.Context, user model.SafeUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the identity resolved for the request, if any.
func UserFromContext(ctx context.Context) (model.SafeUser, bool) {
	user, ok := ctx.Value(userKey).(model.SafeUser)
	return user, ok
}
