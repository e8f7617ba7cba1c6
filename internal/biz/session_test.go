package biz

import (
	"context"
	"testing"
	"time"

	"Authormity/internal/conf"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) *SessionIssuer {
	t.Helper()
	s, err := NewSessionIssuer(&conf.Auth{Session: &conf.Session{Secret: "test-session-secret"}})
	require.NoError(t, err)
	return s
}

func TestNewSessionIssuer_RequiresSecret(t *testing.T) {
	_, err := NewSessionIssuer(&conf.Auth{Session: &conf.Session{}})
	assert.Error(t, err)
	_, err = NewSessionIssuer(nil)
	assert.Error(t, err)
}

func TestSessionIssuer_RoundTrip(t *testing.T) {
	s := newTestSessions(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	session, err := s.Issue("acc-1")
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour), session.ExpiresAt)

	accountID, err := s.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", accountID)
}

func TestSessionIssuer_Expired(t *testing.T) {
	s := newTestSessions(t)
	issuedAt := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issuedAt }

	session, err := s.Issue("acc-1")
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }
	_, err = s.Verify(session.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestSessionIssuer_RejectsForeignTokens(t *testing.T) {
	s := newTestSessions(t)

	other, err := NewSessionIssuer(&conf.Auth{Session: &conf.Session{Secret: "another-secret"}})
	require.NoError(t, err)
	foreign, err := other.Issue("acc-1")
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "acc-1",
		Issuer:    "someone-else",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "acc-1",
		Issuer:  SessionIssuerName,
	}).SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "acc-1",
		Issuer:    SessionIssuerName,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": foreign.Token,
		"wrong issuer": wrongIssuer,
		"no expiry":    noExpiry,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(token)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestAccountContext(t *testing.T) {
	_, ok := AccountFromContext(context.Background())
	assert.False(t, ok)

	_, ok = AccountFromContext(NewAccountContext(context.Background(), ""))
	assert.False(t, ok)

	id, ok := AccountFromContext(NewAccountContext(context.Background(), "acc-1"))
	assert.True(t, ok)
	assert.Equal(t, "acc-1", id)
}
