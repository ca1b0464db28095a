package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alysesue/bookings-api-sub000/internal/config"
)

const (
	valuePrefix    = "availability:v1:"
	providerPrefix = "availability:provider:"
)

// RedisCache — кэш на Redis: значение в JSON и множество ключей на каждого провайдера.
type RedisCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewRedisClient создаёт клиент и проверяет соединение.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisCache(rdb *goredis.Client, ttl time.Duration, log *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log.With(zap.String("component", "redis_cache"))}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, valuePrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Битое значение считаем промахом и удаляем.
		c.log.Warn("drop undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.rdb.Del(ctx, valuePrefix+key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, providerIDs []uuid.UUID, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, valuePrefix+key, raw, c.ttl)
		for _, id := range providerIDs {
			idx := providerPrefix + id.String()
			pipe.SAdd(ctx, idx, key)
			pipe.Expire(ctx, idx, c.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) InvalidateProvider(ctx context.Context, providerID uuid.UUID) error {
	idx := providerPrefix + providerID.String()

	keys, err := c.rdb.SMembers(ctx, idx).Result()
	if err != nil {
		return fmt.Errorf("redis smembers: %w", err)
	}

	toDelete := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		toDelete = append(toDelete, valuePrefix+k)
	}
	toDelete = append(toDelete, idx)

	if err := c.rdb.Del(ctx, toDelete...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	c.log.Debug("provider cache invalidated", zap.Stringer("provider_id", providerID), zap.Int("keys", len(keys)))
	return nil
}
