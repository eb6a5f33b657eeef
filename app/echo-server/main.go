package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"myStorefront/app/echo-server/router"
	"myStorefront/business/recommendation"
	"myStorefront/internal/middleware"
	psqlRepo "myStorefront/internal/repository/postgres"
	redisRepo "myStorefront/internal/repository/redis"
	"myStorefront/internal/rest"
	"myStorefront/pkg/config"
	"myStorefront/pkg/database"
	redisdb "myStorefront/pkg/database/redis"
	"myStorefront/pkg/logger"
	"myStorefront/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func recommendationConfig(cfg config.RecommendationConfig) recommendation.Config {
	return recommendation.Config{
		CandidatePoolSize:     cfg.CandidatePoolSize,
		MinConfidence:         cfg.MinConfidence,
		MinTrendingViews:      cfg.MinTrendingViews,
		TrendingWindow:        time.Duration(cfg.TrendingWindowDays) * 24 * time.Hour,
		ProfileOrderLimit:     cfg.ProfileOrderLimit,
		ProfileViewLimit:      cfg.ProfileViewLimit,
		HistoryExclusionLimit: cfg.HistoryExclusionLimit,
		BestSellerDays:        cfg.BestSellerDays,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting recommendation service", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Session tokens are checked against Redis when it is configured
	var tokenValidator middleware.TokenValidator
	if cfg.Redis.Enabled {
		redisClient, err := redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisdb.CloseRedisClient(redisClient)

		tokenValidator = redisRepo.NewTokenRepository(redisClient)
		logger.Info("Redis connected successfully")
	}

	// Init repo
	catalogRepo := psqlRepo.NewCatalogRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	preferenceRepo := psqlRepo.NewPreferenceRepository(db)
	clickRepo := psqlRepo.NewRecommendationClickRepository(db)
	userRepo := psqlRepo.NewUserRepository(db)

	// Init service
	recoService := recommendation.NewService(
		catalogRepo,
		interactionRepo,
		preferenceRepo,
		clickRepo,
		userRepo,
		recommendationConfig(cfg.Recommendation),
	)

	// Init handler
	recoHandler := rest.NewRecommendationHandler(recoService, recommendation.BuildBundle)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.HeaderRequestID},
	}))

	// Auth middleware
	optionalAuth := middleware.OptionalAuth(tokenValidator)
	authRequired := middleware.AuthMiddlewareWithRedis(tokenValidator)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recoHandler, optionalAuth, authRequired)
	router.SetupRecommendationAdminRoutes(api, recoHandler, authRequired, adminOnly)
	router.SetupMetricsRoute(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
