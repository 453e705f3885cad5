package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interviewprep/internal/auth"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
)

type resolverFunc func(ctx context.Context, id uuid.UUID) (*model.SafeUser, error)

func (f resolverFunc) Resolve(ctx context.Context, id uuid.UUID) (*model.SafeUser, error) {
	return f(ctx, id)
}

func forgedToken(t *testing.T, subject string, key string, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestSessionAndIdentity(t *testing.T) {
	codec, err := auth.NewSessionCodec([]string{"current", "previous"}, time.Hour)
	require.NoError(t, err)

	known := model.SafeUser{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Role: model.RoleUser}
	gone := uuid.New()
	failing := uuid.New()
	resolver := resolverFunc(func(_ context.Context, id uuid.UUID) (*model.SafeUser, error) {
		switch id {
		case known.ID:
			return &known, nil
		case failing:
			return nil, apperrors.Dependency("find user", errors.New("connection refused"))
		default:
			return nil, nil
		}
	})

	valid, _, err := codec.Issue(known.ID)
	require.NoError(t, err)
	deleted, _, err := codec.Issue(gone)
	require.NoError(t, err)
	broken, _, err := codec.Issue(failing)
	require.NoError(t, err)

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantUser *model.SafeUser
		wantErr  bool
	}{
		{name: "no cookie"},
		{name: "garbage", cookie: &http.Cookie{Name: "session", Value: "not-a-token"}},
		{name: "valid", cookie: &http.Cookie{Name: "session", Value: valid}, wantUser: &known},
		{name: "other cookie name", cookie: &http.Cookie{Name: "sid", Value: valid}},
		{name: "rotated key", cookie: &http.Cookie{Name: "session", Value: forgedToken(t, known.ID.String(), "previous", time.Now().Add(time.Hour))}, wantUser: &known},
		{name: "unknown key", cookie: &http.Cookie{Name: "session", Value: forgedToken(t, known.ID.String(), "attacker", time.Now().Add(time.Hour))}},
		{name: "expired", cookie: &http.Cookie{Name: "session", Value: forgedToken(t, known.ID.String(), "current", time.Now().Add(-time.Minute))}},
		{name: "subject not a uuid", cookie: &http.Cookie{Name: "session", Value: forgedToken(t, "42", "current", time.Now().Add(time.Hour))}},
		{name: "deleted user", cookie: &http.Cookie{Name: "session", Value: deleted}},
		{name: "store failure", cookie: &http.Cookie{Name: "session", Value: broken}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen *model.SafeUser
			final := func(c echo.Context) error {
				if user, ok := auth.UserFromContext(c.Request().Context()); ok {
					seen = &user
				}
				return c.NoContent(http.StatusOK)
			}

			err := Session(codec, "session")(ResolveIdentity(resolver)(final))(c)

			if tt.wantErr {
				assert.Equal(t, apperrors.KindDependency, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantUser, seen)
		})
	}
}

func TestGuardMiddleware(t *testing.T) {
	member := model.SafeUser{ID: uuid.New(), Role: model.RoleUser}
	admin := model.SafeUser{ID: uuid.New(), Role: model.RoleAdmin}

	tests := []struct {
		name    string
		guard   echo.MiddlewareFunc
		user    *model.SafeUser
		wantErr error
	}{
		{name: "authenticated anonymous", guard: RequireAuthenticated(), wantErr: apperrors.ErrUnauthenticated},
		{name: "authenticated member", guard: RequireAuthenticated(), user: &member},
		{name: "admin anonymous", guard: RequireRole(model.RoleAdmin), wantErr: apperrors.ErrUnauthenticated},
		{name: "admin member", guard: RequireRole(model.RoleAdmin), user: &member, wantErr: apperrors.ErrForbidden},
		{name: "admin admin", guard: RequireRole(model.RoleAdmin), user: &admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				req = req.WithContext(auth.WithUser(req.Context(), *tt.user))
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			err := tt.guard(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, called)
				return
			}
			assert.NoError(t, err)
			assert.True(t, called)
		})
	}
}
