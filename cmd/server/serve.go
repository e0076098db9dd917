package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/avatarctic/petpal/configs"
	"github.com/avatarctic/petpal/internal/application/services"
	"github.com/avatarctic/petpal/internal/core/domain/content"
	"github.com/avatarctic/petpal/internal/core/ports"
	"github.com/avatarctic/petpal/internal/infrastructure/db"
	"github.com/avatarctic/petpal/internal/infrastructure/email"
	"github.com/avatarctic/petpal/internal/infrastructure/health"
	"github.com/avatarctic/petpal/internal/infrastructure/httpserver"
	"github.com/avatarctic/petpal/internal/infrastructure/maintenance"
	"github.com/avatarctic/petpal/internal/infrastructure/perplexity"
	"github.com/avatarctic/petpal/internal/infrastructure/redis"
	"github.com/avatarctic/petpal/internal/infrastructure/repositories"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const directoryCacheTTL = 10 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	cfg, logger, database, err := bootstrap()
	if err != nil {
		return err
	}
	defer database.Close()

	logger.Info("Starting PetPal API...")

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	if err := database.Migrate(cfg.Server.MigrationsPath); err != nil {
		logger.WithError(err).Warn("Failed to run migrations")
	}

	// Redis backed token state and rate limit counters
	redisTokenRepo := repositories.NewTokenRedisRepository(redisClient, logger)
	redisRateLimitRepo := repositories.NewRateLimitRedisRepository(redisClient)
	redisCache := redis.NewRedisCache(redisClient, "appcache")

	userRepo := repositories.NewUserRepository(database, logger)
	petRepo := repositories.NewPetRepository(database, logger)
	eventRepo := repositories.NewEventRepository(database, logger)
	dbTokenRepo := repositories.NewTokenDBRepository(database, logger)
	tokenRepo := repositories.NewTokenRepository(dbTokenRepo, redisTokenRepo)

	// Directory reads are read-heavy and rarely change
	providerRepo := repositories.NewCachingProviderRepository(repositories.NewProviderRepository(database, logger), redisCache, directoryCacheTTL)
	cityInfoRepo := repositories.NewCachingCityInfoRepository(repositories.NewCityInfoRepository(database, logger), redisCache, directoryCacheTTL)

	servicesStore, petCareStore, err := contentStores(cfg, database, redisClient, logger)
	if err != nil {
		return err
	}

	emailService, err := email.NewEmailService(cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	userService := services.NewUserService(userRepo, emailService, logger)
	authService := services.NewAuthService(userRepo, tokenRepo, &cfg.JWT, logger)
	petService := services.NewPetService(petRepo, logger)
	eventService := services.NewEventService(eventRepo, petService, logger)
	directoryService := services.NewDirectoryService(providerRepo, cityInfoRepo)
	contentService := services.NewContentService(servicesStore, petCareStore, perplexity.NewClient(cfg.Perplexity, logger), logger)

	rateLimiterService := services.NewRateLimiterService(redisRateLimitRepo, &services.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.DefaultRequestsPerMinute,
		BurstMultiplier:   cfg.RateLimit.BurstMultiplier,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}, logger)

	var cleaner *maintenance.Cleaner
	if cfg.Maintenance.Enabled {
		cleaner = maintenance.NewCleaner(tokenRepo, logger,
			maintenance.WithSessionSchedule(cfg.Maintenance.SessionSchedule),
			maintenance.WithTokenSchedule(cfg.Maintenance.TokenSchedule),
		)
		if err := cleaner.Start(); err != nil {
			return fmt.Errorf("failed to start maintenance scheduler: %w", err)
		}
	}

	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Environment:    cfg.Server.Environment,
	}

	server := httpserver.NewServer(serverConfig, logger, httpserver.ServerDeps{
		UserService:        userService,
		AuthService:        authService,
		PetService:         petService,
		EventService:       eventService,
		DirectoryService:   directoryService,
		ContentService:     contentService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)},
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cleaner != nil {
		select {
		case <-cleaner.Stop().Done():
		case <-shutdownCtx.Done():
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited")
	return nil
}

// contentStores builds the services and pet care stores for the configured backend.
func contentStores(cfg *config.Config, database *db.Database, redisClient *goredis.Client, logger *logrus.Logger) (ports.ContentStore, ports.ContentStore, error) {
	switch cfg.Content.Backend {
	case config.ContentBackendRedis:
		cache := redis.NewRedisCache(redisClient, cfg.Content.RedisPrefix)
		return repositories.NewContentCacheRepository(cache, content.KindServices, logger),
			repositories.NewContentCacheRepository(cache, content.KindPetCare, logger), nil
	case config.ContentBackendMemory:
		logger.Warn("AI content is memoized in process memory and is lost on restart")
		return repositories.NewContentMemoryRepository(), repositories.NewContentMemoryRepository(), nil
	default:
		servicesStore, err := repositories.NewContentPostgresRepository(database, content.KindServices, logger)
		if err != nil {
			return nil, nil, err
		}
		petCareStore, err := repositories.NewContentPostgresRepository(database, content.KindPetCare, logger)
		if err != nil {
			return nil, nil, err
		}
		return servicesStore, petCareStore, nil
	}
}
