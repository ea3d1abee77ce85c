// Package container wires the application dependency graph.
//
// Initialization order matters: config first, then infrastructure
// (database, cache, object storage, task queue), then repositories,
// services and handlers. Each stage only consumes what earlier stages
// produced.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bookcatalog-backend/internal/config"
	authHandler "bookcatalog-backend/internal/domains/auth/handler"
	authRepo "bookcatalog-backend/internal/domains/auth/repository"
	authService "bookcatalog-backend/internal/domains/auth/service"
	bookHandler "bookcatalog-backend/internal/domains/book/handler"
	bookRepo "bookcatalog-backend/internal/domains/book/repository"
	bookService "bookcatalog-backend/internal/domains/book/service"
	catalogHandler "bookcatalog-backend/internal/domains/catalog/handler"
	catalogRepo "bookcatalog-backend/internal/domains/catalog/repository"
	catalogService "bookcatalog-backend/internal/domains/catalog/service"
	infraCache "bookcatalog-backend/internal/infrastructure/cache"
	"bookcatalog-backend/internal/infrastructure/database"
	"bookcatalog-backend/internal/infrastructure/storage"
	"bookcatalog-backend/pkg/cache"
	"bookcatalog-backend/pkg/jwt"
	"bookcatalog-backend/pkg/logger"
)

// Container holds every long-lived dependency of the application.
// One instance is built at startup and shared for the process lifetime.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	Storage     *storage.MinIOStorage
	Processor   *storage.ImageProcessor
	AsynqClient *asynq.Client

	// Repositories
	UserRepo    authRepo.UserRepositoryInterface
	TokenRepo   authRepo.TokenRepositoryInterface
	CatalogRepo catalogRepo.RepositoryInterface
	Resolver    *catalogRepo.Resolver
	BookRepo    bookRepo.RepositoryInterface

	// Services
	AuthService     authService.ServiceInterface
	CatalogService  catalogService.ServiceInterface
	BookService     bookService.ServiceInterface
	FavoriteService bookService.FavoriteServiceInterface
	CoverService    bookService.CoverServiceInterface
	ImportService   bookService.ImportServiceInterface

	// Handlers
	AuthHandler     *authHandler.AuthHandler
	CatalogHandler  *catalogHandler.CatalogHandler
	BookHandler     *bookHandler.BookHandler
	FavoriteHandler *bookHandler.FavoriteHandler
	ImportHandler   *bookHandler.ImportHandler
}

// NewContainer builds the full dependency graph. It fails fast on
// anything the API cannot run without (config, database, object
// storage) and degrades gracefully when Redis is unreachable.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)
	logger.Info("configuration loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)
	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(connectCtx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("database connected", map[string]interface{}{
		"host": dbConfig.Host,
		"name": dbConfig.DBName,
	})

	// Redis is not critical at boot. Search caching falls back to
	// database reads until the connection recovers.
	redisClient := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisClient.Connect(context.Background()); err != nil {
		logger.Warn("redis unavailable, continuing without warm cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.RedisClient = redisClient
	c.Cache = infraCache.NewRedisCache(redisClient)

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Processor = storage.NewImageProcessor()

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool
	c.UserRepo = authRepo.NewUserRepository(pool)
	c.TokenRepo = authRepo.NewTokenRepository(pool)
	c.CatalogRepo = catalogRepo.NewCatalogRepository(pool)
	c.Resolver = catalogRepo.NewResolver(pool)
	c.BookRepo = bookRepo.NewBookRepository(pool)
}

func (c *Container) initServices() {
	c.AuthService = authService.NewAuthService(c.UserRepo, c.TokenRepo, c.JWTManager)
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.CatalogRepo, c.Cache, c.Storage, c.AsynqClient)
	c.FavoriteService = bookService.NewFavoriteService(c.BookRepo, c.Cache, c.Storage)
	c.CoverService = bookService.NewCoverService(c.BookRepo, c.Storage, c.Processor, c.AsynqClient)
	c.ImportService = bookService.NewImportService(c.BookRepo, c.Resolver, c.Cache)
}

func (c *Container) initHandlers() {
	c.AuthHandler = authHandler.NewAuthHandler(c.AuthService)
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, c.CoverService)
	c.FavoriteHandler = bookHandler.NewFavoriteHandler(c.FavoriteService)
	c.ImportHandler = bookHandler.NewImportHandler(c.ImportService)
}

// Cleanup releases every long-lived connection. Called once during
// graceful shutdown.
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("failed to close task queue client", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container resources released", nil)
}
