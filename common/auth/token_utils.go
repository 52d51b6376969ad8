package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrSecretNotConfigured = errors.New("JWT secret not configured")

// Identity is the caller identity carried by a validated token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// TokenValidator checks HMAC signed tokens issued by the auth backend.
type TokenValidator struct {
	secretKey []byte
}

func NewTokenValidator(secret string) *TokenValidator {
	if secret == "" {
		return &TokenValidator{}
	}
	return &TokenValidator{secretKey: []byte(secret)}
}

// ParseAndValidateToken parses a JWT token string and returns its claims.
// If expectedType is non-empty, the claim "typ" must match it.
func (v *TokenValidator) ParseAndValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	if v == nil || v.secretKey == nil {
		return nil, ErrSecretNotConfigured
	}

	// The auth service signs with HS256 only.
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}

// Identify validates an access token and extracts the caller identity.
func (v *TokenValidator) Identify(tokenStr string) (Identity, error) {
	claims, err := v.ParseAndValidateToken(tokenStr, TokenTypeAccess)
	if err != nil {
		return Identity{}, err
	}

	id := Identity{
		UserID: stringClaim(claims, "sub"),
		Email:  stringClaim(claims, "email"),
		Role:   stringClaim(claims, "role"),
	}
	if id.UserID == "" {
		id.UserID = stringClaim(claims, "user_id")
	}
	if id.UserID == "" {
		return Identity{}, fmt.Errorf("token has no subject")
	}
	return id, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
