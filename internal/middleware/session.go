package middleware

import (
	"context"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"interviewprep/internal/auth"
	"interviewprep/internal/model"
)

// SessionContextKey is the echo.Context key holding decoded session claims.
const SessionContextKey = "session"

// IdentityResolver looks up the user a session points at. A nil user with a
// nil error means the user no longer exists.
type IdentityResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*model.SafeUser, error)
}

// Session decodes the session cookie into *auth.Claims. A missing, malformed,
// forged or expired cookie leaves the request anonymous instead of failing it.
func Session(codec *auth.SessionCodec, cookieName string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  SessionContextKey,
		TokenLookup: "cookie:" + cookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := codec.Parse(token)
			if err != nil {
				return nil, err
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// ResolveIdentity attaches the session's user to the request context. Store
// failures fail the request; an unknown user is treated as anonymous.
func ResolveIdentity(identity IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(SessionContextKey).(*auth.Claims)
			if !ok || claims == nil {
				return next(c)
			}
			userID, err := claims.UserID()
			if err != nil {
				return next(c)
			}

			req := c.Request()
			user, err := identity.Resolve(req.Context(), userID)
			if err != nil {
				return err
			}
			if user == nil {
				return next(c)
			}

			c.SetRequest(req.WithContext(auth.WithUser(req.Context(), *user)))
			return next(c)
		}
	}
}
