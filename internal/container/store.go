package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/puzzle-link/internal/health"
	"github.com/serroba/puzzle-link/internal/link"
	"github.com/serroba/puzzle-link/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// RedisClient is the shared Redis connection pool.
type RedisClient struct {
	Client *redis.Client
}

// Shutdown closes the pool.
func (c *RedisClient) Shutdown() error {
	return c.Client.Close()
}

// RedisPackage provides a lazily connected *RedisClient.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*RedisClient, error) {
		options := do.MustInvoke[*Options](i)

		return &RedisClient{Client: redis.NewClient(&redis.Options{Addr: options.RedisAddr})}, nil
	})
}

// PostgresPackage migrates the schema and provides a PostgreSQL-backed record store.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*store.PostgresStore, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if err := store.MigratePostgres(options.DatabaseURL, logger); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		return store.NewPostgresStore(pool), nil
	})
}

// StorePackage provides the link.Repository selected by Options.Store,
// wrapped in a Redis cache when Options.CacheTTL is positive.
func StorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		records, err := openStore(i, options)
		if err != nil {
			return nil, err
		}

		logger.Info("record store ready", zap.String("store", options.Store))

		if options.CacheTTL > 0 && options.Store != StoreRedis {
			client := do.MustInvoke[*RedisClient](i)
			ttl := time.Duration(options.CacheTTL) * time.Second

			logger.Info("redis cache enabled", zap.Duration("ttl", ttl))

			return store.NewRedisCache(records, client.Client, ttl), nil
		}

		return records, nil
	})

	do.Provide(injector, func(i *do.Injector) (*health.Handler, error) {
		records := do.MustInvoke[link.Repository](i)

		checker, ok := records.(health.Checker)
		if !ok {
			return nil, fmt.Errorf("record store %T cannot be pinged", records)
		}

		return health.NewHandler(checker), nil
	})
}

func openStore(i *do.Injector, options *Options) (link.Repository, error) {
	switch options.Store {
	case StoreSQLite:
		return store.OpenSQLiteStore(options.DBPath)
	case StoreMemory:
		return store.NewMemoryStore(), nil
	case StorePostgres:
		return do.Invoke[*store.PostgresStore](i)
	case StoreRedis:
		return store.NewRedisStore(do.MustInvoke[*RedisClient](i).Client), nil
	default:
		return nil, fmt.Errorf("unknown store %q", options.Store)
	}
}
