package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimitPrefix namespaces the limiter counters
const RateLimitPrefix = "ratelimit"

// NewMemoryRateStore keeps counters in process memory
func NewMemoryRateStore() limiter.Store {
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          RateLimitPrefix,
		CleanUpInterval: time.Minute,
	})
}

// NewRedisRateStore keeps counters in Redis so every instance shares them
func NewRedisRateStore(rdb *redis.Client) (limiter.Store, error) {
	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: RateLimitPrefix})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare Redis rate limit store: %w", err)
	}
	return store, nil
}

// RateLimitMiddleware allows limit requests per client IP per window.
// Store failures let the request through.
func RateLimitMiddleware(store limiter.Store, limit int, window time.Duration) gin.HandlerFunc {
	lim := limiter.New(store, limiter.Rate{Period: window, Limit: int64(limit)})

	return func(c *gin.Context) {
		ip := c.ClientIP()
		state, err := lim.Get(c.Request.Context(), ip)
		if err != nil {
			logrus.WithFields(logrus.Fields{"ip": ip, "error": err.Error()}).Warn("Rate limiter unavailable")
			c.Next()
			return
		}

		resetIn := state.Reset - time.Now().Unix()
		if resetIn < 0 {
			resetIn = 0
		}
		resetSeconds := strconv.FormatInt(resetIn, 10)
		c.Header("RateLimit-Limit", strconv.FormatInt(state.Limit, 10))
		c.Header("RateLimit-Remaining", strconv.FormatInt(state.Remaining, 10))
		c.Header("RateLimit-Reset", resetSeconds)

		if state.Reached {
			logrus.WithFields(logrus.Fields{
				"security": true,
				"event":    "RATE_LIMITED",
				"ip":       ip,
				"path":     c.Request.URL.Path,
			}).Warn("Security event")
			c.Header("Retry-After", resetSeconds)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
