package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	awspkg "github.com/Brutalvik/smartai-shopping-sub000/pkg/aws"
)

// Config holds everything the storefront BFF reads from the environment.
type Config struct {
	Env  string
	Port string

	JWTSecret    string
	CookieDomain string
	CookieSecure bool

	// Base URL of the auth/catalog/sales backend (usually the API gateway).
	APIGatewayURL   string
	UpstreamTimeout time.Duration
	RequestTimeout  time.Duration

	RedisURL      string
	OnboardingTTL time.Duration
	CartTTL       time.Duration
	DashboardTTL  time.Duration

	DatabaseURL string

	AllowedOrigins string
	RateLimitRPM   int
	RateLimitBurst int

	UseAWSSecrets     bool
	JWTSecretRef      string
	ProductBucket     string
	UploadMaxExpiry   time.Duration
	EventsTopicARN    string
	SalesQueueURL     string
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string

	// Social sign-in. Providers without an authorize URL or client id are
	// skipped.
	IdentityRedirectURL string
	IdentityProviders   []IdentityProvider
}

// IdentityProvider is one social sign-in provider read from
// IDP_<NAME>_AUTHORIZE_URL, IDP_<NAME>_CLIENT_ID and IDP_<NAME>_SCOPES.
type IdentityProvider struct {
	Name         string
	AuthorizeURL string
	ClientID     string
	Scopes       []string
}

// SecretGetter resolves a secret reference such as "storefront/app#JWT_SECRET".
type SecretGetter interface {
	GetSecret(ctx context.Context, ref string) (string, error)
}

// Load reads .env (if present) and the process environment. When
// AWS_USE_SECRETS=true the JWT secret is read from Secrets Manager using
// AWS_JWT_SECRET_REF, falling back to the env value if the lookup fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8000"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		CookieDomain: os.Getenv("COOKIE_DOMAIN"),
		CookieSecure: getBool("COOKIE_SECURE", false),

		APIGatewayURL:   strings.TrimRight(os.Getenv("API_GATEWAY_URL"), "/"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),

		RedisURL:      os.Getenv("REDIS_URL"),
		OnboardingTTL: getDuration("ONBOARDING_TTL", 30*time.Minute),
		CartTTL:       getDuration("CART_TTL", 7*24*time.Hour),
		DashboardTTL:  getDuration("DASHBOARD_CACHE_TTL", 5*time.Minute),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		RateLimitRPM:   getInt("RATE_LIMIT_RPM", 100),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 50),

		UseAWSSecrets:     getBool("AWS_USE_SECRETS", false),
		JWTSecretRef:      getEnv("AWS_JWT_SECRET_REF", "storefront/JWT_SECRET"),
		ProductBucket:     os.Getenv("PRODUCT_IMAGES_BUCKET"),
		UploadMaxExpiry:   getDuration("UPLOAD_URL_MAX_EXPIRY", time.Hour),
		EventsTopicARN:    os.Getenv("STOREFRONT_SNS_TOPIC_ARN"),
		SalesQueueURL:     os.Getenv("SALES_EVENTS_QUEUE_URL"),
		CloudWatchEnabled: getBool("CLOUDWATCH_ENABLED", false),
		CloudWatchGroup:   getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/services"),
		MetricsNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),

		IdentityRedirectURL: os.Getenv("IDP_REDIRECT_URL"),
		IdentityProviders:   loadIdentityProviders(os.Getenv("IDP_PROVIDERS")),
	}

	if cfg.UseAWSSecrets {
		if awsCfg, err := awspkg.LoadAWSConfig(context.Background()); err == nil {
			cfg.applySecrets(context.Background(), awspkg.NewSecretsClient(awsCfg))
		} else {
			zap.L().Warn("aws config unavailable, using env JWT_SECRET", zap.Error(err))
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecrets overrides env values with the ones held in the secret store.
func (c *Config) applySecrets(ctx context.Context, secrets SecretGetter) {
	if c.JWTSecretRef == "" {
		return
	}
	jwt, err := secrets.GetSecret(ctx, c.JWTSecretRef)
	if err != nil {
		zap.L().Warn("secrets manager lookup failed, using env JWT_SECRET", zap.String("ref", c.JWTSecretRef), zap.Error(err))
		return
	}
	if jwt != "" {
		c.JWTSecret = jwt
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.APIGatewayURL == "" {
		return fmt.Errorf("API_GATEWAY_URL is required")
	}
	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive")
	}
	return nil
}

func loadIdentityProviders(names string) []IdentityProvider {
	var out []IdentityProvider
	for _, name := range splitList(names) {
		prefix := "IDP_" + strings.ToUpper(name) + "_"
		p := IdentityProvider{
			Name:         strings.ToLower(name),
			AuthorizeURL: os.Getenv(prefix + "AUTHORIZE_URL"),
			ClientID:     os.Getenv(prefix + "CLIENT_ID"),
			Scopes:       splitList(getEnv(prefix+"SCOPES", "openid,email,profile")),
		}
		if p.AuthorizeURL == "" || p.ClientID == "" {
			zap.L().Warn("identity provider not fully configured, skipping", zap.String("provider", name))
			continue
		}
		out = append(out, p)
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		zap.L().Warn("invalid duration, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return d
}
