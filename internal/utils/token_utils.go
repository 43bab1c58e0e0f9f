package utils

import (
	"github.com/golang-jwt/jwt/v5"
)

// GenerateJWT signs claims with HS256, the only method the API accepts.
func GenerateJWT(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
