package utils

import (
	"errors"

	"hireloop/config"

	"github.com/golang-jwt/jwt"
)

// Caller identity roles supplied by the identity provider.
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractCallerFromToken returns the caller id (subject) and role claims
// from a valid token. Tokens are issued by the identity service; this
// service only verifies them.
func ExtractCallerFromToken(tokenString string) (callerID, role string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token claims")
	}
	callerID, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if callerID == "" || role == "" {
		return "", "", errors.New("token missing subject or role")
	}
	return callerID, role, nil
}
