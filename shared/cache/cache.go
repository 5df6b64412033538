package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"salon/infras/otel"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "cache"
	attributeKey  = "cache.key"
	Nil           = redis.Nil
)

// RedisCache stores read models as JSON. Plain strings are stored as they are.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, ttlSeconds int) error
	Get(ctx context.Context, key string, value any) error
	// Increment bumps a counter and starts its expiry on the first hit of a window.
	Increment(ctx context.Context, key string, windowSeconds int) (int64, error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

func (c *redisCache) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+operation)
	scope.SetAttribute(attributeKey, key)

	return ctx, scope
}

func (c *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := c.scope(ctx, "Get", key)
	defer scope.End()

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			scope.TraceError(err)
		}

		return fmt.Errorf("cache get %s: %w", key, err)
	}

	if s, ok := value.(*string); ok {
		*s = string(raw)

		return nil
	}

	if err = json.Unmarshal(raw, value); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")

		return fmt.Errorf("cache decode %s: %w", key, err)
	}

	return nil
}

func (c *redisCache) Save(ctx context.Context, key string, value any, ttlSeconds int) (err error) {
	ctx, scope := c.scope(ctx, "Save", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var payload []byte

	if s, ok := value.(string); ok {
		payload = []byte(s)
	} else if payload, err = json.Marshal(value); err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	if err = c.client.Set(ctx, key, payload, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}

	log.Debug().Str("key", key).Int("ttl", ttlSeconds).Msg("cached")

	return nil
}

func (c *redisCache) Increment(ctx context.Context, key string, windowSeconds int) (count int64, err error) {
	ctx, scope := c.scope(ctx, "Increment", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var incr *redis.IntCmd

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, time.Duration(windowSeconds)*time.Second)

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("cache incr %s: %w", key, err)
	}

	return incr.Val(), nil
}
