package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Brutalvik/smartai-shopping-sub000/clients"
	"github.com/Brutalvik/smartai-shopping-sub000/common/auth"
	apperrors "github.com/Brutalvik/smartai-shopping-sub000/common/errors"
	"github.com/Brutalvik/smartai-shopping-sub000/common/logger"
	"github.com/Brutalvik/smartai-shopping-sub000/common/middleware"
	"github.com/Brutalvik/smartai-shopping-sub000/config"
	"github.com/Brutalvik/smartai-shopping-sub000/controllers"
	"github.com/Brutalvik/smartai-shopping-sub000/database"
	"github.com/Brutalvik/smartai-shopping-sub000/metrics"
	"github.com/Brutalvik/smartai-shopping-sub000/models"
	awspkg "github.com/Brutalvik/smartai-shopping-sub000/pkg/aws"
	"github.com/Brutalvik/smartai-shopping-sub000/repository"
	"github.com/Brutalvik/smartai-shopping-sub000/routes"
	"github.com/Brutalvik/smartai-shopping-sub000/services"
)

const serviceName = "storefront-bff"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[BFF] invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, awsErr := awspkg.LoadAWSConfig(ctx)
	if awsErr != nil {
		log.Printf("[BFF] AWS config unavailable, AWS integrations disabled: %v", awsErr)
	}
	awsReady := awsErr == nil

	// ── CloudWatch Logs ──
	var logSink io.Writer
	if cfg.CloudWatchEnabled && awsReady {
		cwLogs, err := awspkg.NewCloudWatchLogsClient(ctx, awsCfg, cfg.CloudWatchGroup, serviceName)
		if err != nil {
			log.Printf("[BFF] CloudWatch Logs init failed: %v", err)
		} else {
			logSink = cwLogs
		}
	}

	zapLogger, err := logger.InitializeWithWriter(cfg.Env, logSink)
	if err != nil {
		log.Fatalf("[BFF] failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	var cw *awspkg.MetricsClient
	if awsReady {
		cw = awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled)
	}

	// ── Redis: onboarding flows, carts, dashboard cache ──
	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// ── Postgres: saved dashboard views (optional) ──
	var views repository.ViewRepository
	if cfg.DatabaseURL != "" {
		db, err := database.ConnectPostgres(zapLogger, cfg.DatabaseURL, &models.DashboardView{})
		if err != nil {
			zapLogger.Warn("postgres unavailable, saved dashboard views disabled", zap.Error(err))
		} else {
			defer func() { _ = database.ClosePostgres(db) }()
			views = repository.NewGormViewRepository(db)
		}
	}

	// ── AWS: events, uploads ──
	var events awspkg.SNSPublisher
	if awsReady && cfg.EventsTopicARN != "" {
		events = awspkg.NewSNSClient(awsCfg)
	}
	var presigner awspkg.ObjectPresigner
	if awsReady && cfg.ProductBucket != "" {
		presigner = awspkg.NewS3Presigner(awsCfg, cfg.ProductBucket)
	}

	gateway := clients.NewGatewayClient(cfg.APIGatewayURL, cfg.UpstreamTimeout)
	authAPI := clients.NewAuthClient(gateway)
	catalog := clients.NewCatalogClient(gateway)

	providers := make([]clients.IdentityProvider, 0, len(cfg.IdentityProviders))
	for _, p := range cfg.IdentityProviders {
		providers = append(providers, clients.IdentityProvider{
			Name:         p.Name,
			AuthorizeURL: p.AuthorizeURL,
			ClientID:     p.ClientID,
			Scopes:       p.Scopes,
		})
	}
	identity := clients.NewIdentityClient(cfg.IdentityRedirectURL, providers...)

	// ── Services ──
	dashboardCache := database.NewDashboardCache(redisClient, cfg.DashboardTTL)
	dashboardService := services.NewDashboardService(catalog, dashboardCache, views, zapLogger)
	onboardingService := services.NewOnboardingService(
		database.NewSessionRepository(redisClient, cfg.OnboardingTTL),
		authAPI, identity, events, cfg.EventsTopicARN, cw, zapLogger,
	)
	productService := services.NewProductService(catalog, dashboardService, presigner, cfg.UploadMaxExpiry, events, cfg.EventsTopicARN, cw, zapLogger)
	cartService := services.NewCartService(database.NewCartRepository(redisClient, cfg.CartTTL), catalog, events, cfg.EventsTopicARN, cw, zapLogger)

	if awsReady && cfg.SalesQueueURL != "" {
		consumer := services.NewSalesConsumer(awspkg.NewSQSConsumer(awsCfg, cfg.SalesQueueURL), dashboardService, cw, zapLogger)
		go consumer.Start(ctx)
	}

	// ── HTTP ──
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(zapLogger))
	r.Use(apperrors.ErrorMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(metrics.Middleware())
	r.Use(middleware.MetricsMiddleware(cw, serviceName))
	limiter := middleware.NewRateLimiter(ctx, rate.Limit(float64(cfg.RateLimitRPM)/60), cfg.RateLimitBurst, 10*time.Minute)
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	cookies := controllers.CookieSettings{Domain: cfg.CookieDomain, Secure: cfg.CookieSecure}
	validator := auth.NewTokenValidator(cfg.JWTSecret)

	routes.RegisterRoutes(r, routes.Controllers{
		BFF:            controllers.NewBFFController(gateway, zapLogger),
		Session:        controllers.NewSessionController(authAPI, validator, cookies, zapLogger),
		Onboarding:     controllers.NewOnboardingController(onboardingService, cookies, cfg.OnboardingTTL, zapLogger),
		Dashboard:      controllers.NewDashboardController(dashboardService),
		SellerProducts: controllers.NewSellerProductController(productService, dashboardService),
		Cart:           controllers.NewCartController(cartService),
	}, validator)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("storefront BFF listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("shutdown error", zap.Error(err))
	}
}
