package main

import (
	"context"                  // Startup and shutdown deadlines
	"errors"                   // Error inspection
	"nav_site/internal/api"    // Router and handlers
	"nav_site/internal/config" // Custom package for configuration
	"nav_site/internal/db"     // Storage context
	"nav_site/internal/utils"  // List cache
	"net/http"                 // HTTP server
	"os"                       // Signals
	"os/signal"                // Signal notification
	"syscall"                  // SIGTERM
	"time"                     // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

const shutdownTimeout = 10 * time.Second

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown LOG_LEVEL, using info")
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logrus.Warn("JWT_SECRET is not set, using the built-in default secret")
	}

	// Open the database and wait for bootstrap before serving
	store, err := db.Open(cfg.DBPath, db.Options{
		SchemaPath:    cfg.SchemaPath,
		AdminUsername: cfg.AdminUsername,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()
	if err := store.Bootstrap(context.Background()); err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}

	cache := connectCache(cfg)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(cfg, store, cache)
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for an interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
}

// connectCache returns the Redis-backed list cache, or nil when Redis is not
// configured or unreachable.
func connectCache(cfg *config.Config) *utils.Cache {
	if cfg.RedisAddr == "" {
		logrus.Info("REDIS_ADDR not set, list cache disabled")
		return nil
	}
	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("Redis unreachable, list cache disabled")
		_ = redisClient.Close()
		return nil
	}
	logrus.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
	return utils.NewCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second)
}
