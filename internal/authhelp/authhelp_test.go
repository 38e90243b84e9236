package authhelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(hash, "Sup3r$ecret"))
	assert.False(t, CheckPasswordHash(hash, "wrong"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("Sup3r$ecret"))
	assert.Error(t, ValidatePasswordStrength("short"))
	assert.Error(t, ValidatePasswordStrength("alllowercase1!"))
	assert.Error(t, ValidatePasswordStrength("ALLUPPERCASE1!"))
	assert.Error(t, ValidatePasswordStrength("NoNumbers!!"))
	assert.Error(t, ValidatePasswordStrength("NoSpecials123"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := CreateAccessToken("secret", "fred", "admin", "Fred")
	require.NoError(t, err)

	claims, err := VerifyAccessToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "fred", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Fred", claims.Name)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := CreateAccessToken("secret", "fred", "admin", "Fred")
	require.NoError(t, err)

	_, err = VerifyAccessToken("other-secret", token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	_, err := VerifyAccessToken("secret", "not.a.token")
	assert.Error(t, err)
}

func TestLoadUsersFromEnv(t *testing.T) {
	t.Setenv("USER_ALICE", "hunter2:admin:Alice A")
	t.Setenv("USER_BOB", "swordfish:viewer")
	t.Setenv("USER_BROKEN", "nocolons")

	users := LoadUsersFromEnv("production")

	require.Contains(t, users, "alice")
	assert.Equal(t, "admin", users["alice"].Role)
	assert.Equal(t, "Alice A", users["alice"].Name)
	assert.True(t, CheckPasswordHash(users["alice"].PasswordHash, "hunter2"))

	require.Contains(t, users, "bob")
	assert.Equal(t, "viewer", users["bob"].Role)
	assert.Equal(t, "bob", users["bob"].Name, "display name defaults to the username")

	assert.NotContains(t, users, "broken")
}

func TestDevFallbackUserOutsideProduction(t *testing.T) {
	users := LoadUsersFromEnv("development")

	require.Contains(t, users, "fred")
	assert.Equal(t, "admin", users["fred"].Role)
	assert.True(t, CheckPasswordHash(users["fred"].PasswordHash, "admin"))
}

func TestNoFallbackUserInProduction(t *testing.T) {
	users := LoadUsersFromEnv("production")
	assert.NotContains(t, users, "fred")
}

func TestAuthenticate(t *testing.T) {
	t.Setenv("USER_ALICE", "hunter2:admin:Alice")
	users := LoadUsersFromEnv("production")

	user, ok := Authenticate(users, "Alice", "hunter2")
	require.True(t, ok, "usernames are case insensitive")
	assert.Equal(t, "alice", user.Username)

	_, ok = Authenticate(users, "alice", "wrong")
	assert.False(t, ok)

	_, ok = Authenticate(users, "nobody", "hunter2")
	assert.False(t, ok)
}
