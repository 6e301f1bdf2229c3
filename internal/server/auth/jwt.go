// Package auth issues and validates access tokens and password hashes.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/i2clabs/fileserver/internal/common"
	"github.com/i2clabs/fileserver/internal/server/models"
)

// Claims embeds the registered JWT claims plus the principal fields carried
// by every access token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"uid"`
	Privilege string `json:"privilege"`
	IsAdmin   bool   `json:"is_admin"`
}

// GenerateToken signs an HS256 access token for the given user, valid for
// validityDuration from now.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:    user.ID,
		Privilege: user.Privilege,
		IsAdmin:   user.IsAdmin,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// PrincipalFromToken parses and verifies a token string and returns the
// principal it carries. Expired tokens yield common.ErrTokenExpired; any
// other structural or signature problem yields common.ErrInvalidToken.
func PrincipalFromToken(tokenString string, secretKey []byte) (*models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &models.Principal{
		UserID:    claims.UserID,
		Privilege: claims.Privilege,
		IsAdmin:   claims.IsAdmin,
	}, nil
}
