package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken(42, "reader", "reader@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "reader", claims.Username)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenCarriesUniqueJTI(t *testing.T) {
	m := newTestManager()

	_, first, err := m.GenerateRefreshToken(1, "a", "a@example.com", false)
	require.NoError(t, err)
	_, second, err := m.GenerateRefreshToken(1, "a", "a@example.com", false)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, TokenTypeRefresh, first.Type)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	m := newTestManager()

	refresh, _, err := m.GenerateRefreshToken(7, "b", "b@example.com", false)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("different-secret", 15*time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken(1, "c", "c@example.com", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRefreshTokenToleratesExpiry(t *testing.T) {
	m := NewManager("test-secret", time.Minute, -time.Minute)

	expired, claims, err := m.GenerateRefreshToken(9, "d", "d@example.com", false)
	require.NoError(t, err)

	// Regular validation must reject the expired token.
	_, err = m.ValidateRefreshToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Logout-style parsing still yields the claims.
	parsed, err := m.ParseRefreshToken(expired)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, int64(9), parsed.UserID)
}

func TestParseRefreshTokenRejectsAccessToken(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken(3, "e", "e@example.com", false)
	require.NoError(t, err)

	_, err = m.ParseRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
