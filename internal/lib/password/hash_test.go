package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompare(t *testing.T) {
	hash, err := GetHash("recuerdos2024")
	require.NoError(t, err)
	require.NotEqual(t, "recuerdos2024", hash)

	assert.NoError(t, CompareHash(hash, "recuerdos2024"))
	assert.Error(t, CompareHash(hash, "otra-clave"))
}

func TestCompareHash_InvalidHash(t *testing.T) {
	assert.Error(t, CompareHash("not-a-bcrypt-hash", "whatever"))
}
