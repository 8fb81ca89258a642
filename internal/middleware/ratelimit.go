package middleware

import (
	"log"
	"net/http"

	"roadmap-service/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit applies a fixed-window per-user limit backed by Redis.
// A nil client disables limiting, and Redis outages fail open so the
// limiter can never take the API down with it.
func RateLimit(client *redis.Client) gin.HandlerFunc {
	limit := config.ServiceConfig.Redis.RateLimit
	window := config.ServiceConfig.Redis.RateLimitWindow
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}
		key := "ratelimit:" + UserID(c)

		count, err := client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Printf("rate limiter unavailable: %s", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := client.Expire(c.Request.Context(), key, window).Err(); err != nil {
				log.Printf("rate limiter expire failed: %s", err)
			}
		}
		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
