package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrWrongTokenType = errors.New("token has wrong type")

// Claims is the JWT payload. user_id and username ride along with the
// registered subject/expiry claims.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing secret and lifetimes of both token kinds.
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair is what login hands back. RefreshID and RefreshExpiresAt
// identify the refresh token so it can be revoked later.
type TokenPair struct {
	Access           string
	Refresh          string
	RefreshID        string
	RefreshExpiresAt time.Time
}

// GenerateToken signs a token of the given type for the user.
func GenerateToken(cfg TokenConfig, tokenType string, userID uint, username string) (string, error) {
	signed, _, err := signToken(cfg, tokenType, userID, username)
	return signed, err
}

func signToken(cfg TokenConfig, tokenType string, userID uint, username string) (string, *Claims, error) {
	ttl := cfg.AccessTTL
	if tokenType == TokenTypeRefresh {
		ttl = cfg.RefreshTTL
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := time.Now()
	claims := &Claims{
		TokenType: tokenType,
		UserID:    userID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// GenerateTokenPair issues a short-lived access token and a longer-lived refresh token.
func GenerateTokenPair(cfg TokenConfig, userID uint, username string) (TokenPair, error) {
	access, err := GenerateToken(cfg, TokenTypeAccess, userID, username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, claims, err := signToken(cfg, TokenTypeRefresh, userID, username)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		Access:           access,
		Refresh:          refresh,
		RefreshID:        claims.ID,
		RefreshExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ParseToken verifies signature and expiry and checks the token type.
func ParseToken(secret, tokenStr, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
