package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Authormity/internal/conf"

	"github.com/golang-jwt/jwt/v5"
)

// SessionIssuerName is the iss claim of session tokens.
const SessionIssuerName = "authormity"

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Session is a freshly minted session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionIssuer signs and verifies HS256 session tokens bound to an account id.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionIssuer creates a session issuer from auth config.
func NewSessionIssuer(c *conf.Auth) (*SessionIssuer, error) {
	if c == nil || c.Session == nil || c.Session.Secret == "" {
		return nil, errors.New("session secret is not configured")
	}
	ttl := c.Session.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionIssuer{secret: []byte(c.Session.Secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the session lifetime.
func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

// Issue mints a session for accountID.
func (s *SessionIssuer) Issue(accountID string) (*Session, error) {
	if accountID == "" {
		return nil, errors.New("session: empty account id")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		Issuer:    SessionIssuerName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("session: sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// Verify returns the account id of a valid token. Every failure wraps
// ErrUnauthenticated.
func (s *SessionIssuer) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SessionIssuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrUnauthenticated)
	}
	return claims.Subject, nil
}

type accountKey struct{}

// NewAccountContext returns a context carrying the authenticated account id.
func NewAccountContext(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountKey{}, accountID)
}

// AccountFromContext returns the authenticated account id, if any.
func AccountFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountKey{}).(string)
	return id, ok && id != ""
}
