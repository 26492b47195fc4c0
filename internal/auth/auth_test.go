package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("sturdy-password")
	require.NoError(t, err)
	require.NotEqual(t, "sturdy-password", hash)

	assert.NoError(t, CheckPassword(hash, "sturdy-password"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestTokenIssueAndParse(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Issue("admin")
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestTokenParse_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Issue("admin")
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenParse_WrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue("admin")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenParse_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	_, err := tm.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminAuthenticator(t *testing.T) {
	hash, err := HashPassword("root-password")
	require.NoError(t, err)
	a := NewAdminAuthenticator("admin", hash)

	assert.NoError(t, a.Authenticate("admin", "root-password"))
	assert.ErrorIs(t, a.Authenticate("admin", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate("intruder", "root-password"), ErrInvalidCredentials)
}
