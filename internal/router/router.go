package router

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"interviewprep/internal/auth"
	"interviewprep/internal/config"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/handler"
	"interviewprep/internal/metrics"
	appmw "interviewprep/internal/middleware"
	"interviewprep/internal/model"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserHandler
	Questions *handler.QuestionHandler
	Attempts  *handler.AttemptHandler
	Practice  *handler.PracticeHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	codec *auth.SessionCodec,
	identity appmw.IdentityResolver,
	h Handlers,
) {
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Validator = handler.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowCredentials: true,
		}))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Logout needs no identity and must clear the cookie even when the user
	// store is down, so it stays outside session resolution.
	e.POST("/api/v1/auth/logout", h.Auth.Logout)

	api := e.Group("/api/v1",
		appmw.Session(codec, cfg.SessionCookieName),
		appmw.ResolveIdentity(identity),
	)
	authenticated := appmw.RequireAuthenticated()
	adminOnly := appmw.RequireRole(model.RoleAdmin)

	// Auth
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/auth/me", h.Auth.Me)

	// Users; owner checks happen in the service once the record is loaded
	api.POST("/users", h.Users.CreateUser)
	api.GET("/users", h.Users.ListUsers, adminOnly)
	api.GET("/users/:id", h.Users.GetUser, authenticated)
	api.PUT("/users/:id", h.Users.UpdateUser, authenticated)
	api.DELETE("/users/:id", h.Users.DeleteUser, authenticated)

	// Questions and sample answers
	api.GET("/questions", h.Questions.ListQuestions)
	api.GET("/questions/:id", h.Questions.GetQuestion)
	api.POST("/questions", h.Questions.CreateQuestion, adminOnly)
	api.PUT("/questions/:id", h.Questions.UpdateQuestion, adminOnly)
	api.DELETE("/questions/:id", h.Questions.DeleteQuestion, adminOnly)
	api.GET("/questions/:id/answers", h.Questions.ListAnswers)
	api.POST("/questions/:id/answers", h.Questions.CreateAnswer, adminOnly)

	// Practice
	api.GET("/practice/random", h.Practice.Random)

	// Attempts
	api.GET("/attempts", h.Attempts.ListAttempts, authenticated)
	api.POST("/attempts", h.Attempts.CreateAttempt, authenticated)
	api.GET("/attempts/:id", h.Attempts.GetAttempt, authenticated)
	api.DELETE("/attempts/:id", h.Attempts.DeleteAttempt, authenticated)
}

// ErrorHandler renders every error as {"error": message}. Server errors are
// logged and their detail is never sent to the client.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := classify(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, apperrors.ErrorResponse{Error: message})
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, "Server error"
		}
		if he.Code == http.StatusNotFound {
			return he.Code, apperrors.ErrNotFound.Message
		}
		if msg, ok := he.Message.(string); ok && msg != "" {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.Message
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Path(), "/metrics") || c.Path() == "/healthz"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	})
}
