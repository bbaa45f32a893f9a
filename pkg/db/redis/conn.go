package redis

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/nikhilmalhotra7/ai-video-bot/internal/config"
)

// NewRedisClient connects to redis and verifies the connection with a
// ping. Callers are expected to tolerate an error here: the service
// degrades to its in-memory store when redis is unreachable.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	redisHost := cfg.Redis.RedisAddr
	if redisHost == "" {
		redisHost = ":6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         redisHost,
		Password:     cfg.Redis.RedisPassword,
		DB:           cfg.Redis.DB,
		MinIdleConns: cfg.Redis.MinIdleConns,
		PoolSize:     cfg.Redis.PoolSize,
		PoolTimeout:  time.Duration(cfg.Redis.PoolTimeout) * time.Second,
	})
	if err := client.Ping(client.Context()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
