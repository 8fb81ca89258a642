package db

import (
	"context"
	"log"
	"time"

	"roadmap-service/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis for the rate limiter. It returns nil
// when no address is configured; callers treat that as disabled.
func InitRedis() *redis.Client {
	cfg := config.ServiceConfig.Redis
	if cfg.Address == "" {
		log.Println("REDIS_ADDR is not set, rate limiting disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %s", err)
		return nil
	}
	log.Println("Connected to Redis")
	return client
}
