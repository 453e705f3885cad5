package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"interviewprep/internal/auth"
	apperrors "interviewprep/internal/errors"
	"interviewprep/internal/model"
)

func newTestCodec(t *testing.T) *auth.SessionCodec {
	t.Helper()
	codec, err := auth.NewSessionCodec([]string{"test-secret"}, time.Hour)
	require.NoError(t, err)
	return codec
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &model.User{
		ID:           uuid.New(),
		Name:         "A",
		Email:        "a@x.com",
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login with normalized email",
			email:    "  A@X.com ",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindCredentials", mock.Anything, "a@x.com").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			email:    "a@x.com",
			password: "nope",
			setupMock: func(m *MockUserRepository) {
				m.On("FindCredentials", mock.Anything, "a@x.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "ghost@x.com",
			password: "secret1",
			setupMock: func(m *MockUserRepository) {
				m.On("FindCredentials", mock.Anything, "ghost@x.com").Return(nil, apperrors.ErrNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			codec := newTestCodec(t)
			svc := NewAuthService(repo, codec)

			result, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, stored.ID, result.User.ID)
				assert.NotEmpty(t, result.Token)

				claims, err := codec.Parse(result.Token)
				require.NoError(t, err)
				assert.Equal(t, stored.ID.String(), claims.Subject)

				payload, err := json.Marshal(map[string]any{"user": result.User})
				require.NoError(t, err)
				assert.NotContains(t, string(payload), stored.PasswordHash)
				assert.NotContains(t, string(payload), "password")
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginStoreFailure(t *testing.T) {
	repo := new(MockUserRepository)
	storeErr := apperrors.Dependency("find user by email", errors.New("connection refused"))
	repo.On("FindCredentials", mock.Anything, "a@x.com").Return(nil, storeErr)

	_, err := NewAuthService(repo, newTestCodec(t)).Login(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, apperrors.KindDependency, apperrors.KindOf(err))
}
