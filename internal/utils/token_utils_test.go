package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerToken_RoundTrip(t *testing.T) {
	token, err := GenerateOwnerToken("owner-1", "secret", time.Hour, "tests")
	require.NoError(t, err)

	ownerID, err := ParseOwnerToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", ownerID)
}

func TestGenerateOwnerToken_RequiresOwner(t *testing.T) {
	_, err := GenerateOwnerToken("", "secret", time.Hour, "tests")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestParseOwnerToken_Rejects(t *testing.T) {
	expired, err := GenerateOwnerToken("owner-1", "secret", -time.Minute, "tests")
	require.NoError(t, err)
	_, err = ParseOwnerToken(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := GenerateOwnerToken("owner-1", "secret", time.Hour, "tests")
	require.NoError(t, err)
	_, err = ParseOwnerToken(valid, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseOwnerToken(noSubject, "secret")
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = ParseOwnerToken("not-a-jwt", "secret")
	assert.Error(t, err)
}
