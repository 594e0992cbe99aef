package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"giveaway-entry-backend/internal/common/config"
	"giveaway-entry-backend/internal/common/logger"
)

// Client wraps go-redis client to allow future extensions.
type Client struct {
	*redis.Client
}

// Open creates a new Redis client and pings it to validate the connection.
func Open(ctx context.Context, addr, password string, db int) (*Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("empty redis addr")
	}
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Client{Client: c}, nil
}

// OpenFromConfig opens the client described by cfg.Redis.
func OpenFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	c, err := Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("addr", cfg.RedisAddr()).
		Int("db", cfg.Redis.DB).
		Msg("Redis client initialized")
	return c, nil
}
