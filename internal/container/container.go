package container

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-trip-planner/app/db"
	"github.com/FACorreiaa/go-trip-planner/config"
	"github.com/FACorreiaa/go-trip-planner/internal/api/auth"
	"github.com/FACorreiaa/go-trip-planner/internal/api/flights"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/hotels"
	"github.com/FACorreiaa/go-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-trip-planner/internal/api/routing"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trip"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	AuthHandler *auth.AuthHandler
	TripHandler *trip.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthServiceImpl(authRepo, cfg.JWT, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	aiClient, err := generativeAI.NewAIClient(ctx)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		return nil, err
	}

	// A missing Maps key leaves the resolver on its deterministic fallback.
	var matrixClient routing.DistanceMatrixClient
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		matrixClient = routing.NewGoogleDistanceMatrixClient(apiKey)
	}
	resolver := routing.NewResolverImpl(matrixClient, logger)
	enricher := routing.NewEnricherImpl(resolver, logger)

	flightService := flights.NewServiceImpl(nil, logger)
	hotelService := hotels.NewServiceImpl(nil, logger)

	plannerService := planner.NewServiceImpl(aiClient, flightService, hotelService, enricher, logger)

	tripRepo := trip.NewPostgresRepo(pool, logger)
	tripService := trip.NewServiceImpl(tripRepo, plannerService, logger)
	tripHandler := trip.NewHandlerImpl(tripService, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Pool:        pool,
		AuthHandler: authHandler,
		TripHandler: tripHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
