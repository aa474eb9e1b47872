package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesWithCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	require.NotEqual(t, "Sup3rSecret!", hash)
	require.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash")

	require.True(t, CheckPassword(hash, "Sup3rSecret!"))
	require.False(t, CheckPassword(hash, "wrong-password"))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	second, err := HashPassword("Sup3rSecret!")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	require.False(t, CheckPassword("not-a-hash", "anything"))
}
