package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewJWTManager(secret, time.Hour)
	require.NoError(t, err)

	tok, exp, err := m.GenerateToken("sess-1", "alice", true)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsSuperuser)
}

func TestExpiredTokenRejected(t *testing.T) {
	m, err := NewJWTManager(secret, time.Minute)
	require.NoError(t, err)

	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	tok, _, err := m.GenerateToken("sess-1", "alice", false)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTamperedTokenRejected(t *testing.T) {
	m, err := NewJWTManager(secret, time.Hour)
	require.NoError(t, err)
	other, err := NewJWTManager("another-secret-another-secret-xx", time.Hour)
	require.NoError(t, err)

	tok, _, err := other.GenerateToken("sess-1", "mallory", true)
	require.NoError(t, err)

	_, err = m.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTManagerRejectsBadConfig(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.Error(t, err)
	_, err = NewJWTManager(secret, 0)
	assert.Error(t, err)
}
