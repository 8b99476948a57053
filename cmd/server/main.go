package main

import (
	"context"                       // context package is needed for Redis operations and shutdown
	"os"                            // Signal types
	"os/signal"                     // Graceful shutdown on SIGINT/SIGTERM
	"securepay/internal/api"        // Custom package for API handlers
	"securepay/internal/config"     // Custom package for configuration
	"securepay/internal/db"         // Database connection and migration
	"securepay/internal/middleware" // Custom package for middleware
	"securepay/internal/server"     // HTTPS server
	"securepay/internal/store"      // GORM-backed repositories
	"securepay/internal/utils"      // Hashing, sessions and cache helpers
	"syscall"                       // SIGTERM
	"time"                          // Cache TTL

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// paymentsCacheTTL bounds how stale a cached payment list may be
const paymentsCacheTTL = 30 * time.Second

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and make sure the schema exists
	database, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}

	// Redis is optional: without it rate limits are per process and lists are not cached
	var (
		redisClient *redis.Client
		rateStore   = middleware.NewMemoryRateStore()
		cache       *utils.Cache
	)
	if cfg.RedisAddr != "" {
		redisClient, err = utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		rateStore, err = middleware.NewRedisRateStore(redisClient)
		if err != nil {
			logrus.Fatalf("failed to set up rate limiting: %v", err)
		}
		cache = utils.NewCache(redisClient, paymentsCacheTTL)
	} else {
		logrus.Warn("REDIS_ADDR not set, using in-memory rate limiting and no cache")
	}

	st := store.New(database)
	router, err := api.NewRouter(api.Deps{
		Config:   cfg,
		Users:    st,
		Payments: st,
		Hasher:   utils.NewHasher(cfg.BcryptCost),
		Sessions: utils.NewSessionIssuer(cfg.JWTSecret),
		CSRF:     middleware.NewCSRF(cfg.CSRFKey(), cfg.TrustedOrigins()...),
		Limiter:  rateStore,
		Cache:    cache,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv, err := server.New(":"+cfg.AppPort, cfg.TLSCertFile, cfg.TLSKeyFile, router)
	if err != nil {
		logrus.Fatalf("cannot start HTTPS server: %v", err)
	}

	logrus.WithField("port", cfg.AppPort).Info("Secure Payments API starting") // Log server start
	runErr := srv.Run(ctx)

	// In-flight requests are done with the limiter, cache and store by now
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close Redis client")
		}
	}
	if err := db.Close(database); err != nil {
		logrus.WithError(err).Warn("failed to close database")
	}
	if runErr != nil {
		logrus.Fatalf("server stopped with error: %v", runErr) // Exit non-zero, e.g. after a forced shutdown
	}
}
