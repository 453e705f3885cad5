package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCodec_IssueAndParse(t *testing.T) {
	codec, err := NewSessionCodec([]string{"secret"}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionMaxAge, codec.MaxAge())

	userID := uuid.New()
	token, expiresAt, err := codec.Issue(userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := codec.Parse(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSessionCodec_KeyRotation(t *testing.T) {
	oldCodec, err := NewSessionCodec([]string{"old-key"}, time.Hour)
	require.NoError(t, err)
	token, _, err := oldCodec.Issue(uuid.New())
	require.NoError(t, err)

	rotated, err := NewSessionCodec([]string{"new-key", "old-key"}, time.Hour)
	require.NoError(t, err)
	_, err = rotated.Parse(token)
	assert.NoError(t, err, "tokens signed with a retired key still verify")

	newToken, _, err := rotated.Issue(uuid.New())
	require.NoError(t, err)
	_, err = oldCodec.Parse(newToken)
	assert.ErrorIs(t, err, ErrInvalidSession, "new tokens are signed with the first key")

	dropped, err := NewSessionCodec([]string{"new-key"}, time.Hour)
	require.NoError(t, err)
	_, err = dropped.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_RejectsExpired(t *testing.T) {
	codec, err := NewSessionCodec([]string{"secret"}, time.Hour)
	require.NoError(t, err)
	codec.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := codec.Issue(uuid.New())
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCodec_RejectsGarbage(t *testing.T) {
	codec, err := NewSessionCodec([]string{"secret"}, time.Hour)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := codec.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidSession, token)
	}
}

func TestNewSessionCodec_RequiresKeys(t *testing.T) {
	_, err := NewSessionCodec(nil, time.Hour)
	assert.ErrorIs(t, err, ErrNoSessionKeys)
}
