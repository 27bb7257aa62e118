package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	userID := uuid.New()

	signed, expiresAt, err := Generate(userID, "alice", true, "secret", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := Parse(signed, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestParseWrongSecret(t *testing.T) {
	signed, _, err := Generate(uuid.New(), "alice", false, "secret", time.Hour)
	require.NoError(t, err)

	_, err = Parse(signed, "other-secret")
	require.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	signed, _, err := Generate(uuid.New(), "alice", false, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(signed, "secret")
	require.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("not.a.token", "secret")
	require.Error(t, err)
}
