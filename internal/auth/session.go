package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookie is the name of the cookie carrying the admin session.
const SessionCookie = "registry_session"

// DefaultSessionTTL is how long an admin stays signed in.
const DefaultSessionTTL = 24 * time.Hour

// SessionClaims are the claims of a signed admin session.
type SessionClaims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// Sessions issues and checks admin session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions returns a session signer. A non-positive ttl uses DefaultSessionTTL.
func NewSessions(secret string, ttl time.Duration) (*Sessions, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued sessions.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for a freshly authenticated admin.
func (s *Sessions) Issue() (string, *SessionClaims, error) {
	now := s.now()
	claims := &SessionClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing session: %w", err)
	}
	return signed, claims, nil
}

// Parse validates a session token and returns its claims.
func (s *Sessions) Parse(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || !claims.Admin || claims.ID == "" {
		return nil, errors.New("invalid session")
	}
	return claims, nil
}
