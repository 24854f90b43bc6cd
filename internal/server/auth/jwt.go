// Package auth issues and validates the HS256 JWTs used by the HTTP API.
// Access and refresh tokens share the signing key and differ only in the
// TokenType claim and lifetime, so refresh needs no server-side state.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/mooddiary/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims carries the registered claims plus the user id and the token type.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string
	TokenType string
}

func GenerateToken(userID, tokenType string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:    userID,
		TokenType: tokenType,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken validates tokenString and returns the user id it was
// issued for. The token must carry the expected type; an access token can
// not be replayed as a refresh token or vice versa. Expired tokens map to
// common.ErrTokenExpired so transports can signal the client to refresh.
func GetUserIDFromToken(tokenString, tokenType string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != tokenType {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
