package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)

	token, err := maker.GenerateToken("lromnav", "user", "4f2c7a9e-0000-0000-0000-000000000001")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "lromnav", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "4f2c7a9e-0000-0000-0000-000000000001", claims.UserUID)
}

func TestMaker_ParseExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute)

	token, err := maker.GenerateToken("lromnav", "user", "uid")
	require.NoError(t, err)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
}

func TestMaker_ParseWrongSecret(t *testing.T) {
	maker := NewMaker("secret-a", time.Hour)
	other := NewMaker("secret-b", time.Hour)

	token, err := maker.GenerateToken("lromnav", "admin", "uid")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}
