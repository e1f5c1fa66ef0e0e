package auth

import (
	"errors"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user identity in a signed session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// TokenManager issues and verifies HS256 session tokens. Tokens carry no
// expiry claim: a token is valid only while its session_tokens row exists,
// so revocation is a row delete rather than waiting out a deadline. Nothing
// caps how many rows a user can accumulate, which is unbounded growth under
// repeated logins without logouts.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue signs a token binding the user ID.
func (m *TokenManager) Issue(userID uint64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: strconv.FormatUint(userID, 10),
	})
	return token.SignedString(m.secret)
}

// Verify checks the signature and returns the embedded user ID. Any
// structural or signature problem is ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (uint64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
