package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/aadil-nv/invoise-management/internal/core/ports/repositories"
	"github.com/aadil-nv/invoise-management/internal/core/services"
	"github.com/aadil-nv/invoise-management/internal/handlers"
	"github.com/aadil-nv/invoise-management/internal/middleware"
	"github.com/aadil-nv/invoise-management/internal/platform/config"
	"github.com/aadil-nv/invoise-management/internal/repositories/database/mongodb"
	"github.com/aadil-nv/invoise-management/internal/repositories/database/pgsql"
	"github.com/aadil-nv/invoise-management/internal/repositories/memory"
	"github.com/aadil-nv/invoise-management/internal/utils"
	"github.com/aadil-nv/invoise-management/pkg/database"
	"github.com/gin-gonic/gin"
)

// @title Inventory Backend API
// @version 1.0
// @description Sales and stock management for shop owners.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	issueToken := flag.String("issue-token", "", "print a signed access token for the given owner id and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *issueToken != "" {
		token, err := utils.GenerateOwnerToken(*issueToken, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)
		if err != nil {
			logger.Error("Failed to issue token", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()
	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("driver", cfg.StoreDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	serviceContainer := services.NewServiceContainer(cfg, repos)

	rateLimiter, err := middleware.NewMemoryRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to configure rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store_driver", cfg.StoreDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore connects the configured store driver and returns its repositories
// together with a function that releases the connection.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, err := database.NewMongoClient(ctx, cfg.MongoURI, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		repo := mongodb.NewMongoRepository(client, cfg.MongoDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			database.CloseMongoClient(client)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("MongoDB store ready", slog.String("database", cfg.MongoDatabase))
		return mongodb.NewRepositoryProvider(repo), func() { database.CloseMongoClient(client) }, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil

	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Database connection pool established.")

		logger.Info("Running database migrations...")
		if err := database.RunPostgresMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			database.ClosePgxPool(dbPool, logger)
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool, logger) }, nil
	}
}
