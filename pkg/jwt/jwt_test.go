package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-key", "wedding", time.Minute, time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	got, err := claims.ProfileID()
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestManager_RefreshTokenCarriesJTI(t *testing.T) {
	m := NewManager("test-key", "wedding", time.Minute, time.Hour)

	token, claims, err := m.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, TokenTypeRefresh, parsed.TokenType)
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("test-key", "wedding", -time.Minute, time.Hour)

	token, err := m.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.Error(t, err)
}

func TestManager_RejectsForeignIssuerAndKey(t *testing.T) {
	m := NewManager("test-key", "wedding", time.Minute, time.Hour)

	other := NewManager("test-key", "someone-else", time.Minute, time.Hour)
	token, err := other.GenerateAccessToken(uuid.New())
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.Error(t, err, "issuer mismatch")

	forged := NewManager("other-key", "wedding", time.Minute, time.Hour)
	token, err = forged.GenerateAccessToken(uuid.New())
	require.NoError(t, err)
	_, err = m.Validate(token)
	assert.Error(t, err, "signature mismatch")
}
