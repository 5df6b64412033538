package cache

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Through serves key from c, falling back to load on any miss. A loaded value is
// written back in the background, unless keep rejects it.
func Through[T any](
	ctx context.Context,
	c RedisCache,
	key string,
	ttlSeconds int,
	load func(ctx context.Context) (T, error),
	keep ...func(T) bool,
) (T, error) {
	var value T

	if err := c.Get(ctx, key, &value); err == nil {
		log.Debug().Str("key", key).Msg("cache hit")

		return value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	for _, accept := range keep {
		if !accept(value) {
			return value, nil
		}
	}

	go func(ctx context.Context) {
		if err := c.Save(ctx, key, value, ttlSeconds); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to write back cache entry")
		}
	}(context.WithoutCancel(ctx))

	return value, nil
}
