package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	digest, err := HashPassword("Secret1!")
	require.NoError(t, err)
	require.NotEqual(t, "Secret1!", digest)

	require.True(t, VerifyPassword("Secret1!", digest))
	require.False(t, VerifyPassword("secret1!", digest))
	require.False(t, VerifyPassword("", digest))
}

func TestVerifyPasswordMalformedDigest(t *testing.T) {
	t.Parallel()

	require.False(t, VerifyPassword("Secret1!", "not-a-bcrypt-digest"))
	require.False(t, VerifyPassword("Secret1!", ""))
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("Secret1!")
	require.NoError(t, err)
	second, err := HashPassword("Secret1!")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, VerifyPassword("Secret1!", first))
	require.True(t, VerifyPassword("Secret1!", second))
}

func TestMeetsStrengthPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes present", "Secret1!", true},
		{"too short", "Se1!", false},
		{"missing uppercase", "secret1!", false},
		{"missing lowercase", "SECRET1!", false},
		{"missing digit", "Secrets!", false},
		{"missing symbol", "Secret12", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MeetsStrengthPolicy(tc.password))
		})
	}
}
