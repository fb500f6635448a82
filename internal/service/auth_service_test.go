package service

import (
	"testing"
	"time"

	"quiz-builder/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig(secret string, ttl time.Duration) *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{SessionSecret: secret, SessionTTL: ttl},
	}
}

func TestAuthServiceRoundTrip(t *testing.T) {
	svc, err := NewAuthService(authConfig("test-secret", time.Hour))
	require.NoError(t, err)

	token, err := svc.IssueSessionToken("session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sessionID, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", sessionID)
}

func TestAuthServiceRejectsWrongSecret(t *testing.T) {
	issuer, err := NewAuthService(authConfig("secret-a", time.Hour))
	require.NoError(t, err)
	verifier, err := NewAuthService(authConfig("secret-b", time.Hour))
	require.NoError(t, err)

	token, err := issuer.IssueSessionToken("session-1")
	require.NoError(t, err)

	_, err = verifier.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc, err := NewAuthService(authConfig("test-secret", -time.Minute))
	require.NoError(t, err)

	token, err := svc.IssueSessionToken("session-1")
	require.NoError(t, err)

	_, err = svc.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestAuthServiceRejectsGarbage(t *testing.T) {
	svc, err := NewAuthService(authConfig("test-secret", time.Hour))
	require.NoError(t, err)

	_, err = svc.ValidateSessionToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(authConfig("", time.Hour))
	assert.Error(t, err)
}
