package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/controller"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/router"
	"github.com/ikkim/storefront-backend/internal/scheduler"
	"github.com/ikkim/storefront-backend/pkg/cache"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.Log.Level
	if logLevel == "" {
		logLevel = "info"
		if cfg.Server.Environment == "development" {
			logLevel = "debug"
		}
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Shared cache tier is optional; the catalog falls back to memory only.
	var sharedCache *redis.Client
	if cfg.Redis.Enabled {
		sharedCache, err = redis.New(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, continuing with in-memory catalog cache", map[string]interface{}{
				"addr":  cfg.Redis.Addr(),
				"error": err.Error(),
			})
			sharedCache = nil
		}
	}
	defer func() {
		if err := sharedCache.Close(); err != nil {
			logger.Error("Failed to close redis connection", err)
		}
	}()

	catalogCache := cache.New(cache.WithDefaultTTL(cfg.Cache.TTL))

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.GetDB())
	inventoryRepo := repository.NewInventoryRepository(db.GetDB())
	stockRepo := repository.NewStockRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	addressRepo := repository.NewAddressRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	productService := service.NewProductService(productRepo, catalogCache, sharedCache, cfg.Cache.TTL)
	cartService := service.NewCartService(cartRepo)
	addressService := service.NewAddressService(addressRepo)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		addressRepo,
		productRepo,
		inventoryRepo,
		stockRepo,
		productService,
	)

	// Initialize controllers
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	addressController := controller.NewAddressController(addressService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		productController,
		cartController,
		orderController,
		addressController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start cache sweeper
	if cfg.Cache.SweepSpec != "" {
		sweeper := scheduler.NewCacheSweepScheduler(catalogCache, cfg.Cache.SweepSpec)
		if err := sweeper.Start(); err != nil {
			logger.Warn("Cache sweeper disabled", map[string]interface{}{
				"spec":  cfg.Cache.SweepSpec,
				"error": err.Error(),
			})
		} else {
			defer sweeper.Stop()
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: engine,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
