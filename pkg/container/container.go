package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"launchsignal-backend/internal/config"
	infraCache "launchsignal-backend/internal/infrastructure/cache"
	"launchsignal-backend/internal/infrastructure/database"
	"launchsignal-backend/internal/infrastructure/storage"
	"launchsignal-backend/internal/shared/middleware"
	"launchsignal-backend/pkg/cache"
	"launchsignal-backend/pkg/jwt"

	"launchsignal-backend/internal/domains/user"
	userHandler "launchsignal-backend/internal/domains/user/handler"
	userRepo "launchsignal-backend/internal/domains/user/repository"
	userService "launchsignal-backend/internal/domains/user/service"

	startupHandler "launchsignal-backend/internal/domains/startup/handler"
	startupRepo "launchsignal-backend/internal/domains/startup/repository"
	startupService "launchsignal-backend/internal/domains/startup/service"

	feedbackHandler "launchsignal-backend/internal/domains/feedback/handler"
	feedbackRepo "launchsignal-backend/internal/domains/feedback/repository"
	feedbackService "launchsignal-backend/internal/domains/feedback/service"

	contactHandler "launchsignal-backend/internal/domains/contact/handler"
	contactService "launchsignal-backend/internal/domains/contact/service"
)

// Container is the root of the dependency graph shared by the API and the
// worker.
type Container struct {
	// Infrastructure
	Config        *config.Config
	DB            *database.PostgresDB
	Cache         cache.Cache
	JWTManager    *jwt.Manager
	AsynqClient   *asynq.Client
	RedisOpt      asynq.RedisClientOpt
	MediaStore    storage.MediaStore
	Authenticator *middleware.Authenticator

	// Repositories
	UserRepo      user.Repository
	StartupRepo   startupRepo.StartupRepository
	UpvoteRepo    startupRepo.UpvoteRepository
	AnalyticsRepo startupRepo.AnalyticsRepository
	FeedbackRepo  feedbackRepo.FeedbackRepository

	// Services
	UserService     user.Service
	StartupService  startupService.ServiceInterface
	FeedbackService feedbackService.ServiceInterface
	ContactService  contactService.ServiceInterface

	// Handlers
	UserHandler     *userHandler.UserHandler
	StartupHandler  *startupHandler.StartupHandler
	FeedbackHandler *feedbackHandler.FeedbackHandler
	ContactHandler  *contactHandler.ContactHandler
}

// NewContainer builds the graph in dependency order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initCache()
	if err := c.initMediaStore(); err != nil {
		return nil, err
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	c.RedisOpt = asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	c.AsynqClient = asynq.NewClient(c.RedisOpt)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Msg("Database connected")
	return nil
}

// initCache falls back to an in-process cache when Redis is unreachable.
// Trending and login throttling then become per-instance.
func (c *Container) initCache() {
	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed, using in-memory cache")
		c.Cache = cache.NewMemoryCache()
		return
	}

	c.Cache = redisCache
	log.Info().Msg("Redis connected")
}

func (c *Container) initMediaStore() error {
	if !c.Config.MinIO.Enabled {
		c.MediaStore = storage.InlineMediaStore{}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	minioStorage, err := storage.NewMinIOStorage(ctx, c.Config.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init MinIO: %w", err)
	}
	c.MediaStore = storage.NewObjectMediaStore(minioStorage).WithImageProcessor(storage.NewImageProcessor())
	log.Info().Str("bucket", c.Config.MinIO.Bucket).Msg("MinIO media storage enabled")
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.StartupRepo = startupRepo.NewStartupRepository(pool)
	c.UpvoteRepo = startupRepo.NewUpvoteRepository(pool)
	c.AnalyticsRepo = startupRepo.NewAnalyticsRepository(pool)
	c.FeedbackRepo = feedbackRepo.NewFeedbackRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.Cache,
		userService.NewGoogleVerifier(c.Config.Google.ClientID),
	)

	c.StartupService = startupService.NewStartupService(
		c.StartupRepo,
		c.UpvoteRepo,
		c.AnalyticsRepo,
		c.UserService,
		c.Cache,
		c.MediaStore,
		startupService.Options{ResetStatusOnEdit: c.Config.Moderation.ResetOnEdit},
	)

	c.FeedbackService = feedbackService.NewFeedbackService(c.FeedbackRepo)
	c.ContactService = contactService.NewContactService(c.AsynqClient)
}

func (c *Container) initHandlers() {
	c.Authenticator = middleware.NewAuthenticator(c.JWTManager, c.Config.Cookie.Name, c.UserService)

	c.UserHandler = userHandler.NewUserHandler(c.UserService, userHandler.CookieConfig{
		Name:   c.Config.Cookie.Name,
		MaxAge: int(c.JWTManager.TTL() / time.Second),
		Secure: c.Config.Cookie.Secure,
	})
	c.StartupHandler = startupHandler.NewStartupHandler(c.StartupService)
	c.FeedbackHandler = feedbackHandler.NewFeedbackHandler(c.FeedbackService)
	c.ContactHandler = contactHandler.NewContactHandler(c.ContactService)
}

// SeedAdmin provisions the configured admin account. It is a no-op when no
// admin email is configured.
func (c *Container) SeedAdmin(ctx context.Context) error {
	admin := c.Config.Admin
	if admin.Email == "" {
		return nil
	}
	if err := c.UserService.SeedAdmin(ctx, admin.Email, admin.Password, admin.FullName); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("email", admin.Email).Msg("Admin account ready")
	return nil
}

// Cleanup releases pooled connections on shutdown.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Info().Msg("Container cleanup completed")
}
