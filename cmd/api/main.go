package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	_ "github.com/planwise/planwise-api/docs" // Swagger docs (generated)
	"github.com/planwise/planwise-api/internal/auth"
	"github.com/planwise/planwise-api/internal/config"
	"github.com/planwise/planwise-api/internal/database"
	httpServer "github.com/planwise/planwise-api/internal/http"
	"github.com/planwise/planwise-api/internal/logging"
	"github.com/planwise/planwise-api/internal/ratelimit"
	"github.com/planwise/planwise-api/internal/recommendation"
	"github.com/planwise/planwise-api/internal/user"
)

// @title           Planwise API
// @version         1.0
// @description     Insurance-plan recommendation backend with token-based authentication.

// @host      localhost:4000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database tables ready")

	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Repositories and shared collaborators
	userRepo := user.NewRepository(db)
	recommendationRepo := recommendation.NewRepository(db)
	denylist := auth.NewDenylist(redisClient)
	rateLimiter := ratelimit.NewLimiter(redisClient)
	hasher := user.NewBcryptHasher(user.HashCost)

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Services
	authService := auth.NewService(userRepo, hasher, tokenService, denylist, logger, cfg.Auth.TokenTTL)
	userService := user.NewService(userRepo, hasher)
	recommendationService := recommendation.NewService(recommendationRepo, userRepo)

	// HTTP handlers and middleware
	authHandler := auth.NewHandler(authService, rateLimiter, !cfg.Server.IsDevelopment(), cfg.Auth.TokenTTL)
	authMiddleware := auth.NewMiddleware(tokenService, denylist)
	userHandler := user.NewHandler(userService, rateLimiter)
	recommendationHandler := recommendation.NewHandler(recommendationService)

	router := httpServer.NewRouter(cfg, logger, authHandler, authMiddleware, userHandler, recommendationHandler)

	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		logger,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
