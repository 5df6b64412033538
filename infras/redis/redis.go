package redis

import (
	"context"
	"net"
	"salon/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// New connects to the primary node and fails hard when it cannot be reached. The cache and
// the rate limiter both depend on it.
func New(cfg *config.Config) *goRedis.Client {
	primary := cfg.Cache.Redis.Primary
	addr := net.JoinHostPort(primary.Host, primary.Port)

	client := goRedis.NewClient(&goRedis.Options{
		Addr:       addr,
		Password:   primary.Password,
		DB:         primary.DB,
		ClientName: cfg.App.Name,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", addr).Int("db", primary.DB).Msg("Connected to Redis")

	return client
}
