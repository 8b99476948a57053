package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"fmt"
	"time" // Time durations

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"
)

// NewRedisClient connects to Redis and pings it once
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,     // Redis server address
		Password:     password, // Redis password
		DB:           db,       // Redis database number
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// Cache stores JSON values in Redis with a fixed TTL. A nil *Cache, or one
// without a client, is a cache that always misses.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache returns a Cache over rdb; rdb may be nil
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false
	}
	return true
}

// Set stores value under key; failures are logged, not returned
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache write failed")
	}
}

// Delete removes key from Redis
func (c *Cache) Delete(ctx context.Context, key string) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Cache delete failed")
	}
}

// PaymentsCacheKey is the cache key of a user's payment list
func PaymentsCacheKey(userID uint) string {
	return fmt.Sprintf("payments:user:%d", userID)
}
