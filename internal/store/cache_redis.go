package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

const socialProfileKeyPrefix = "fbtoken:"

// redisClient is the subset of *redis.Client used by the cache.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type redisProfileCache struct {
	client redisClient
	logger *logger.Logger
}

// NewRedisProfileCache connects to the Redis server in cfg and verifies it
// with a ping.
func NewRedisProfileCache(ctx context.Context, cfg config.Cache, log *logger.Logger) (SocialProfileCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisProfileCache").Msg("error connecting redis (ping)")
		client.Close()
		return nil, nil, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	log.Info().Str("func", "NewRedisProfileCache").Str("address", cfg.RedisAddress).Msg("connected to redis successfully")

	return newRedisProfileCache(client, log), client, nil
}

func newRedisProfileCache(client redisClient, log *logger.Logger) *redisProfileCache {
	return &redisProfileCache{client: client, logger: log}
}

func (c *redisProfileCache) GetProfile(ctx context.Context, key string) (models.SocialProfile, error) {
	raw, err := c.client.Get(ctx, socialProfileKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.SocialProfile{}, ErrCacheMiss
		}
		return models.SocialProfile{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	var profile models.SocialProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*redisProfileCache.GetProfile").Msg("corrupted cache entry")
		return models.SocialProfile{}, ErrCacheMiss
	}

	return profile, nil
}

func (c *redisProfileCache) SetProfile(ctx context.Context, key string, profile models.SocialProfile, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("error encoding social profile: %w", err)
	}

	if err := c.client.Set(ctx, socialProfileKeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	return nil
}

// noopProfileCache is used when no Redis address is configured. Every
// lookup misses.
type noopProfileCache struct{}

func NewNoopProfileCache() SocialProfileCache {
	return noopProfileCache{}
}

func (noopProfileCache) GetProfile(context.Context, string) (models.SocialProfile, error) {
	return models.SocialProfile{}, ErrCacheMiss
}

func (noopProfileCache) SetProfile(context.Context, string, models.SocialProfile, time.Duration) error {
	return nil
}
