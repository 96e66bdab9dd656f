package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pageza/whatnext/backend/config"
	"github.com/pageza/whatnext/backend/internal/api"
	"github.com/pageza/whatnext/backend/internal/database"
	"github.com/pageza/whatnext/backend/internal/logger"
	"github.com/pageza/whatnext/backend/internal/middleware"
	"github.com/pageza/whatnext/backend/internal/router"
	"github.com/pageza/whatnext/backend/internal/server"
	"github.com/pageza/whatnext/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg)
	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	verifier, err := service.NewIdentityVerifier(cfg.Identity, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create identity verifier")
	}

	generator := service.NewGenerationClient(cfg.Generation, nil)
	if err := generator.ConfigErr(); err != nil {
		// Recommendations fail with 500 until these are set; meal logging still works
		log.Warn().Err(err).Msg("Generation service is not configured")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled() {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		limiter = middleware.NewRecommendationRateLimiter(redisClient, cfg.RecommendRateLimit, cfg.RecommendRateWindow)
	}

	store := service.NewMealStore(db)
	history := service.NewHistoryAggregator(store, cfg.Location)
	recommender := service.NewRecommendationService(history, generator)

	handler := router.SetupRouter(router.Options{
		CORSOrigins:     cfg.CORSAllowedOrigins,
		Authenticator:   service.NewAuthGate(verifier),
		Health:          api.NewHealthHandler(db),
		Meals:           api.NewMealHandler(store, history),
		Recommendations: api.NewRecommendationHandler(recommender, limiter),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, handler).Run(ctx); err != nil {
		log.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}
