package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-cart/cache"
	"storefront-cart/config"
	"storefront-cart/database"
	"storefront-cart/logger"
	"storefront-cart/middleware"
	"storefront-cart/routes"
	"storefront-cart/services"
	"storefront-cart/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load environment variables
	_ = config.LoadEnv()
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	// Validate critical environment variables
	warnings, err := cfg.Validate()
	if err != nil {
		log.Fatal("environment validation failed", zap.Error(err))
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL, logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	if n, err := database.SeedCatalog(db); err != nil {
		log.Warn("could not seed catalog", zap.Error(err))
	} else if n > 0 {
		log.Info("seeded demo catalog", zap.Int("products", n))
	}

	// Snapshot cache is optional
	var cartCache cache.CartCache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, running without cart cache", zap.Error(err))
		} else {
			defer client.Close()
			cartCache = cache.NewRedisCache(client, cfg.CartCacheTTL)
		}
	}

	cartService := services.NewCartService(db, services.NewGormCatalog(db), cartCache, log)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	defer rateLimiter.Stop()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	utils.UseJSONFieldNames()

	// Setup Gin router
	r := gin.New()
	r.Use(logger.GinMiddleware(log))
	r.Use(logger.Recovery(log))

	origins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" {
		origins = []string{cfg.FrontendURL}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:             db,
		Cart:           cartService,
		RateLimiter:    rateLimiter,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("error closing database connection", zap.Error(err))
		} else {
			log.Info("database connection closed")
		}
	}

	log.Info("server exited gracefully")
}
