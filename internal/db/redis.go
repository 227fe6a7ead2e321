package db

import (
	"context"
	"time"

	"backend-honeymoonhq/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

// ConnectRedis returns nil when no address is configured; the hub relay and
// the trip config store then run in process memory.
func ConnectRedis(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		ClientName: "honeymoonhq",
	})
}

// PingRedis checks that a configured client can reach its server.
func PingRedis(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
