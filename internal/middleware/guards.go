package middleware

import (
	"github.com/labstack/echo/v4"

	"interviewprep/internal/auth"
	"interviewprep/internal/model"
)

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := auth.RequireAuthenticated(c.Request().Context()); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireRole rejects anonymous requests with 401 and other roles with 403.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := auth.RequireRole(c.Request().Context(), role); err != nil {
				return err
			}
			return next(c)
		}
	}
}
