package di

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"directory-service/cmd/api/infrastructure"
	"directory-service/internal/adapter/cache"
	"directory-service/internal/adapter/db/document"
	"directory-service/internal/adapter/db/relational"
	ginhandler "directory-service/internal/adapter/gin/handler"
	"directory-service/internal/adapter/gin/middleware"
	"directory-service/internal/adapter/gin/router"
	"directory-service/internal/adapter/repository/cached"
	"directory-service/internal/adapter/storage"
	"directory-service/internal/config"
	"directory-service/internal/usecase/district"
	"directory-service/internal/usecase/place"
	"directory-service/internal/usecase/user"
	redisclient "directory-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	Mongo       *mongo.Client
	RedisClient *redisclient.Client
	DistrictUC  *district.Usecase
	PlaceUC     *place.Usecase
	UserUC      *user.Usecase
	RateLimiter *middleware.RateLimiter
	Handlers    router.Handlers
}

type repositories struct {
	districts district.Repository
	places    place.Repository
	users     user.Repository
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (_ *Container, err error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	repos, err := c.initStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.RedisRequired() {
		c.RedisClient, err = infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
	}

	// Left as a nil interface when the cache is off so usecases skip purging.
	var views cache.UserViewCache
	if cfg.Redis.CacheEnabled {
		views = cache.NewRedisUserViewCache(c.RedisClient.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
	}
	userRepo := cached.NewCachedUserRepository(repos.users, views, l)

	photos := storage.NewOSPhotoStore(cfg.Upload.Dir, l)

	c.DistrictUC = district.New(repos.districts, views, l)
	c.PlaceUC = place.New(repos.places, repos.districts, views, l)
	c.UserUC = user.New(userRepo, repos.places, photos, l)

	if cfg.RateLimit.Enabled {
		c.RateLimiter = middleware.NewRateLimiter(
			c.RedisClient.Client,
			middleware.RateLimiterConfig{
				Enabled:           true,
				RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
				BurstCapacity:     cfg.RateLimit.BurstCapacity,
			},
			l,
		)
	}

	c.Handlers = router.Handlers{
		District: ginhandler.NewDistrictHandler(c.DistrictUC, l),
		Place:    ginhandler.NewPlaceHandler(c.PlaceUC, l),
		User:     ginhandler.NewUserHandler(c.UserUC, l),
		Rows:     ginhandler.NewRowHandler(c.DistrictUC, c.PlaceUC, c.UserUC, l),
	}

	l.Info("container initialized",
		zap.String("backend", cfg.App.StoreBackend),
		zap.Bool("cache_enabled", cfg.Redis.CacheEnabled),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
	)

	return c, nil
}

// initStore opens the configured backend and builds its repositories.
func (c *Container) initStore(ctx context.Context) (repositories, error) {
	switch c.Config.App.StoreBackend {
	case config.BackendRelational:
		db, err := infrastructure.NewDatabase(c.Config, c.Logger)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		return repositories{
			districts: relational.NewDistrictRepo(db, c.Logger),
			places:    relational.NewPlaceRepo(db, c.Logger),
			users:     relational.NewUserRepo(db, c.Logger),
		}, nil

	default:
		client, db, err := infrastructure.NewMongo(ctx, c.Config, c.Logger)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to initialize document store: %w", err)
		}
		c.Mongo = client
		return repositories{
			districts: document.NewDistrictRepo(db, c.Logger),
			places:    document.NewPlaceRepo(db, c.Logger),
			users:     document.NewUserRepo(db, c.Logger),
		}, nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := infrastructure.CloseMongo(ctx, c.Mongo); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
