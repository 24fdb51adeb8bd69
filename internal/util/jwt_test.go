package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = TokenConfig{
	Secret:     "test-secret",
	Issuer:     "finance-tracker",
	AccessTTL:  5 * time.Minute,
	RefreshTTL: 24 * time.Hour,
}

func TestGenerateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(testTokens, 42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	access, err := ParseToken(testTokens.Secret, pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.EqualValues(t, 42, access.UserID)
	assert.Equal(t, "alice", access.Username)
	assert.Equal(t, "finance-tracker", access.Issuer)
	assert.NotEmpty(t, access.ID)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), access.ExpiresAt.Time, 5*time.Second)

	refresh, err := ParseToken(testTokens.Secret, pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), refresh.ExpiresAt.Time, 5*time.Second)
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.Equal(t, refresh.ID, pair.RefreshID)
	assert.True(t, refresh.ExpiresAt.Time.Equal(pair.RefreshExpiresAt.Truncate(time.Second)))
}

func TestParseToken_WrongType(t *testing.T) {
	pair, err := GenerateTokenPair(testTokens, 1, "alice")
	require.NoError(t, err)

	_, err = ParseToken(testTokens.Secret, pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = ParseToken(testTokens.Secret, pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestParseToken_BadSignature(t *testing.T) {
	token, err := GenerateToken(testTokens, TokenTypeAccess, 1, "alice")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token, TokenTypeAccess)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseToken_Expired(t *testing.T) {
	claims := &Claims{
		TokenType: TokenTypeAccess,
		UserID:    1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testTokens.Secret))
	require.NoError(t, err)

	_, err = ParseToken(testTokens.Secret, token, TokenTypeAccess)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{TokenType: TokenTypeAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testTokens.Secret, token, TokenTypeAccess)
	assert.Error(t, err)
}
