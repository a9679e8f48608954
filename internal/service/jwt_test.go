package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("super-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)
	return m
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	m := newTokens(t)

	tok, err := m.Issue("alice")
	require.NoError(t, err)

	sub, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestTokenManager_Expired(t *testing.T) {
	m := newTokens(t)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, err := m.Issue("alice")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tok, err := newTokens(t).Issue("alice")
	require.NoError(t, err)

	other, err := NewTokenManager("other-secret", "HS256", time.Minute)
	require.NoError(t, err)
	_, err = other.Validate(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_AlgorithmMismatch(t *testing.T) {
	m512, err := NewTokenManager("super-secret", "HS512", time.Minute)
	require.NoError(t, err)
	tok, err := m512.Issue("alice")
	require.NoError(t, err)

	_, err = newTokens(t).Validate(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenManager_Malformed(t *testing.T) {
	m := newTokens(t)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.Validate(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}

func TestTokenManager_MissingSubject(t *testing.T) {
	m := newTokens(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrTokenMissingSubject)
}

func TestTokenManager_MissingExpiry(t *testing.T) {
	m := newTokens(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("super-secret"))
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewTokenManager_Rejects(t *testing.T) {
	_, err := NewTokenManager("", "HS256", time.Minute)
	assert.Error(t, err)
	_, err = NewTokenManager("k", "RS256", time.Minute)
	assert.Error(t, err)
	_, err = NewTokenManager("k", "none", time.Minute)
	assert.Error(t, err)
	_, err = NewTokenManager("k", "HS256", 0)
	assert.Error(t, err)
}
