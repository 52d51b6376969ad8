package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("API_GATEWAY_URL", "http://gateway:8080/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "http://gateway:8080", cfg.APIGatewayURL)
	assert.Equal(t, 30*time.Minute, cfg.OnboardingTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.Equal(t, 100, cfg.RateLimitRPM)
	assert.False(t, cfg.CloudWatchEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("API_GATEWAY_URL", "http://gateway")
	t.Setenv("ONBOARDING_TTL", "10m")
	t.Setenv("DASHBOARD_CACHE_TTL", "garbage")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("RATE_LIMIT_BURST", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.OnboardingTTL)
	assert.Equal(t, 5*time.Minute, cfg.DashboardTTL)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 7, cfg.RateLimitBurst)
}

func TestLoad_RequiresSecretAndGateway(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("API_GATEWAY_URL", "http://gateway")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "x")
	t.Setenv("API_GATEWAY_URL", "")
	_, err = Load()
	assert.ErrorContains(t, err, "API_GATEWAY_URL")
}

func TestLoad_IdentityProviders(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("API_GATEWAY_URL", "http://gateway")
	t.Setenv("IDP_REDIRECT_URL", "https://shop.example.com/onboarding/callback")
	t.Setenv("IDP_PROVIDERS", "Google, github")
	t.Setenv("IDP_GOOGLE_AUTHORIZE_URL", "https://accounts.google.com/o/oauth2/v2/auth")
	t.Setenv("IDP_GOOGLE_CLIENT_ID", "google-client")
	t.Setenv("IDP_GITHUB_AUTHORIZE_URL", "https://github.com/login/oauth/authorize")

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.IdentityProviders, 1, "github has no client id")
	p := cfg.IdentityProviders[0]
	assert.Equal(t, "google", p.Name)
	assert.Equal(t, "google-client", p.ClientID)
	assert.Equal(t, []string{"openid", "email", "profile"}, p.Scopes)
	assert.Equal(t, "https://shop.example.com/onboarding/callback", cfg.IdentityRedirectURL)
}

type stubSecrets map[string]string

func (s stubSecrets) GetSecret(_ context.Context, ref string) (string, error) {
	v, ok := s[ref]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{JWTSecret: "from-env", JWTSecretRef: "storefront/app#JWT_SECRET"}
	cfg.applySecrets(context.Background(), stubSecrets{"storefront/app#JWT_SECRET": "from-store"})
	assert.Equal(t, "from-store", cfg.JWTSecret)

	cfg = &Config{JWTSecret: "from-env", JWTSecretRef: "storefront/missing"}
	cfg.applySecrets(context.Background(), stubSecrets{})
	assert.Equal(t, "from-env", cfg.JWTSecret, "lookup failure keeps the env value")

	cfg = &Config{JWTSecret: "from-env"}
	cfg.applySecrets(context.Background(), stubSecrets{"": "never"})
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoad_SecretRef(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("API_GATEWAY_URL", "http://gateway")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "storefront/JWT_SECRET", cfg.JWTSecretRef)

	t.Setenv("AWS_JWT_SECRET_REF", "storefront/app#JWT_SECRET")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "storefront/app#JWT_SECRET", cfg.JWTSecretRef)
}
