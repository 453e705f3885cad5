package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"interviewprep/internal/auth"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
	"interviewprep/internal/repository"
)

// LoginResult is a successful login: the user and the session token to set.
type LoginResult struct {
	User      model.SafeUser
	Token     string
	ExpiresAt time.Time
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type authService struct {
	users   repository.UserRepository
	session *auth.SessionCodec
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, session *auth.SessionCodec) AuthService {
	return &authService{users: users, session: session}
}

// Login checks credentials and issues a session. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindCredentials(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			checkPassword(string(dummyHash), password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.session.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: user.Safe(), Token: token, ExpiresAt: expiresAt}, nil
}
