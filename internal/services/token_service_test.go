package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	ts := NewTokenService("secret", time.Hour)

	token, err := ts.Issue(42, "alice")
	require.NoError(t, err)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenService_WrongSecretRejected(t *testing.T) {
	token, err := NewTokenService("secret", time.Hour).Issue(1, "alice")
	require.NoError(t, err)

	_, err = NewTokenService("other", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestTokenService_ExpiredRejected(t *testing.T) {
	ts := NewTokenService("secret", -time.Minute)

	token, err := ts.Issue(1, "alice")
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestTokenService_GarbageRejected(t *testing.T) {
	ts := NewTokenService("secret", time.Hour)

	_, err := ts.Parse("not.a.token")
	assert.Error(t, err)
}
