package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// DefaultSessionMaxAge is how long a session stays valid after login.
const DefaultSessionMaxAge = 24 * time.Hour

var (
	// ErrNoSessionKeys is returned when a codec is built without keys.
	ErrNoSessionKeys = errors.New("at least one session key is required")
	// ErrInvalidSession is returned for any token that fails verification.
	ErrInvalidSession = errors.New("invalid session")
)

// Claims is the session payload. Subject holds the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the user id carried by the session.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// SessionCodec signs and verifies session tokens. New tokens are signed with
// the first key; any key verifies, so keys can be rotated by prepending.
type SessionCodec struct {
	keys   [][]byte
	maxAge time.Duration
	now    func() time.Time
}

// NewSessionCodec creates a codec from the configured keys.
func NewSessionCodec(keys []string, maxAge time.Duration) (*SessionCodec, error) {
	if len(keys) == 0 {
		return nil, ErrNoSessionKeys
	}
	if maxAge <= 0 {
		maxAge = DefaultSessionMaxAge
	}
	c := &SessionCodec{maxAge: maxAge, now: time.Now}
	for _, k := range keys {
		c.keys = append(c.keys, []byte(k))
	}
	return c, nil
}

// MaxAge returns the session lifetime.
func (c *SessionCodec) MaxAge() time.Duration {
	return c.maxAge
}

// Issue signs a session for userID and returns the token and its expiry.
func (c *SessionCodec) Issue(userID uuid.UUID) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.maxAge)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.keys[0])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies a token against every key and returns its claims.
func (c *SessionCodec) Parse(token string) (*Claims, error) {
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	for _, key := range c.keys {
		key := key
		claims := &Claims{}
		parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err == nil && parsed.Valid && claims.Subject != "" {
			if !claims.VerifyExpiresAt(c.now(), true) {
				return nil, ErrInvalidSession
			}
			return claims, nil
		}
	}
	return nil, ErrInvalidSession
}
