package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/puzzle-link/internal/link"
)

// RedisCache wraps a link.Repository with a Redis read-through cache.
// Exists always asks the wrapped store: the cache may hold only a subset.
type RedisCache struct {
	store        link.Repository
	client       redis.UniversalClient
	recordPrefix string
	puzzlePrefix string
	ttl          time.Duration
}

// NewRedisCache creates a cache decorator whose entries expire after ttl.
func NewRedisCache(store link.Repository, client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{
		store:        store,
		client:       client,
		recordPrefix: "cache:link:",
		puzzlePrefix: "cache:puzzle:",
		ttl:          ttl,
	}
}

func (c *RedisCache) Exists(ctx context.Context, hashed link.HashedCode, puzzle link.Code) (bool, error) {
	return c.store.Exists(ctx, hashed, puzzle)
}

// Insert writes to the wrapped store, then to the cache.
func (c *RedisCache) Insert(ctx context.Context, record *link.Record) error {
	if err := c.store.Insert(ctx, record); err != nil {
		return err
	}

	c.cache(ctx, record)

	return nil
}

func (c *RedisCache) FindByHashedLinkCode(ctx context.Context, hashed link.HashedCode) (*link.Record, error) {
	if record, ok := c.cached(ctx, hashed); ok {
		return record, nil
	}

	record, err := c.store.FindByHashedLinkCode(ctx, hashed)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, record)

	return record, nil
}

func (c *RedisCache) FindByPuzzleCode(ctx context.Context, puzzle link.Code) (*link.Record, error) {
	if hashed, err := c.client.Get(ctx, c.puzzlePrefix+string(puzzle)).Result(); err == nil {
		if record, ok := c.cached(ctx, link.HashedCode(hashed)); ok {
			return record, nil
		}
	}

	record, err := c.store.FindByPuzzleCode(ctx, puzzle)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, record)

	return record, nil
}

func (c *RedisCache) cached(ctx context.Context, hashed link.HashedCode) (*link.Record, bool) {
	fields, err := c.client.HGetAll(ctx, c.recordPrefix+string(hashed)).Result()
	if err != nil || len(fields) == 0 {
		return nil, false
	}

	record, err := recordFromFields(fields)
	if err != nil {
		return nil, false
	}

	return record, true
}

// cache is best effort: a failed write only costs a later miss.
func (c *RedisCache) cache(ctx context.Context, record *link.Record) {
	fields, err := recordFields(record)
	if err != nil {
		return
	}

	recordKey := c.recordPrefix + string(record.HashedLinkCode)
	puzzleKey := c.puzzlePrefix + string(record.PuzzleCode)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, recordKey, fields)
	pipe.Set(ctx, puzzleKey, string(record.HashedLinkCode), c.ttl)

	if c.ttl > 0 {
		pipe.Expire(ctx, recordKey, c.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Ping checks the wrapped store, which is the source of truth.
func (c *RedisCache) Ping(ctx context.Context) error {
	if pinger, ok := c.store.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}

	return nil
}

// Shutdown shuts down the wrapped store if it has a lifecycle.
func (c *RedisCache) Shutdown() error {
	if closer, ok := c.store.(interface{ Shutdown() error }); ok {
		return closer.Shutdown()
	}

	return nil
}

var _ link.Repository = (*RedisCache)(nil)
