package container

import (
	"context"
	"fmt"

	"gw2/crafter/internal/api"
	"gw2/crafter/internal/cache"
	"gw2/crafter/internal/client"
	"gw2/crafter/internal/config"
	"gw2/crafter/internal/engine"
	"gw2/crafter/internal/provider"
	"gw2/crafter/internal/repository"
	"gw2/crafter/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Client     client.GW2Client
	Cache      cache.Cache
	Repository repository.ItemRepository
	Providers  *provider.Providers

	Service *service.Service
	API     *api.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. Redis
// and postgres are optional; without them the cache lives in-process and
// the local item index is disabled.
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	container.Client = client.NewGW2Client(cfg.GW2)

	if cfg.Redis.Host != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		log.Info("Connected to Redis, using redis provider cache")
		container.redis = rdb
		container.Cache = cache.NewRedisCache(rdb)
	} else {
		log.Info("Redis not configured, using in-process provider cache")
		container.Cache = cache.NewMemoryCache()
	}

	if cfg.Database.Host != "" {
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := repository.EnsureSchema(context.Background(), db); err != nil {
			return nil, err
		}

		log.Info("Connected to database, local item index enabled")
		container.db = db
		container.Repository = repository.NewItemRepository(db)
	} else {
		log.Info("Database not configured, local item index disabled")
	}

	container.Providers = provider.New(container.Client, container.Cache, container.Repository, cfg)

	builder := engine.NewTreeBuilder(container.Providers.Recipes)
	enricher := engine.NewEnricher(container.Providers.Items)
	comparator := engine.NewComparator(container.Providers.Listings, builder, enricher, cfg.Crafting.MaxDepth)

	container.Service = service.NewService(
		builder,
		enricher,
		comparator,
		container.Providers.Listings,
		container.Repository,
		cfg.Crafting.MaxDepth,
	)

	container.API = api.NewServer(container.Service, cfg.Server)

	return container, nil
}

// Run serves the HTTP API until the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	return c.API.Run(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return err
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
