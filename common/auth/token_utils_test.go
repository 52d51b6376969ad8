package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func claimsFor(typ string, exp time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "a@b.com",
		"role":  "seller",
		"typ":   typ,
		"exp":   time.Now().Add(exp).Unix(),
	}
}

func TestIdentify_ValidAccessToken(t *testing.T) {
	v := NewTokenValidator("secret")
	id, err := v.Identify(sign(t, "secret", jwt.SigningMethodHS256, claimsFor("access", time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "user-1", Email: "a@b.com", Role: "seller"}, id)
}

func TestIdentify_Rejects(t *testing.T) {
	v := NewTokenValidator("secret")

	cases := map[string]string{
		"refresh type":  sign(t, "secret", jwt.SigningMethodHS256, claimsFor("refresh", time.Minute)),
		"expired":       sign(t, "secret", jwt.SigningMethodHS256, claimsFor("access", -time.Minute)),
		"wrong secret":  sign(t, "other", jwt.SigningMethodHS256, claimsFor("access", time.Minute)),
		"garbage":       "not-a-token",
		"hs384":         sign(t, "secret", jwt.SigningMethodHS384, claimsFor("access", time.Minute)),
		"hs512":         sign(t, "secret", jwt.SigningMethodHS512, claimsFor("access", time.Minute)),
		"missing claim": sign(t, "secret", jwt.SigningMethodHS256, jwt.MapClaims{"typ": "access", "exp": time.Now().Add(time.Minute).Unix()}),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Identify(token)
			assert.Error(t, err)
		})
	}
}

func TestParseAndValidateToken_RejectsUnsignedToken(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claimsFor("access", time.Minute)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenValidator("secret").ParseAndValidateToken(unsigned, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseAndValidateToken_NoSecret(t *testing.T) {
	_, err := NewTokenValidator("").ParseAndValidateToken("x", "")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}
