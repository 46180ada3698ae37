package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-stock-proxy/internal/proxy/config"
	delivery "golang-stock-proxy/internal/proxy/delivery/http"
	_ "golang-stock-proxy/internal/proxy/docs"
	"golang-stock-proxy/internal/proxy/repository"
	"golang-stock-proxy/internal/proxy/service"
	"golang-stock-proxy/pkg/cache"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the akshare proxy service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Akshare Proxy Service", logger.Field("name", cfg.App.Name))

	// Initialize repositories
	marketRepo := repository.NewMarketDataRepository(cfg, appLogger)

	if cfg.Cache.Enabled {
		var remote *goredis.Client
		if cfg.Redis.Enabled {
			redisClient, err := redis.NewClient(redis.Config{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				PoolSize: cfg.Redis.PoolSize,
			})
			if err != nil {
				appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
			}
			defer redisClient.Close()
			remote = redisClient.Client
		}

		tieredCache := cache.NewTieredCache(cfg.Cache.DefaultTTL, cfg.Cache.CleanupInterval, remote, appLogger)
		marketRepo = repository.NewCachedMarketDataRepository(marketRepo, tieredCache, cfg.Cache.DefaultTTL, appLogger)
	}

	var feedRepo repository.NewsFeedRepository
	if cfg.News.FeedURLTemplate != "" {
		feedRepo = repository.NewNewsFeedRepository(cfg.News.FeedURLTemplate, cfg.Provider.Timeout, appLogger)
	}

	// Initialize services
	stockSvc := service.NewStockService(marketRepo, feedRepo, cfg.News, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	delivery.RegisterMiddleware(e, appLogger)

	// Initialize handlers and routes
	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stockHandler.RegisterRoutes(e.Group("/api/stock"))

	systemHandler := delivery.NewSystemHandler()
	systemHandler.RegisterRoutes(e.Group(""))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Akshare Proxy API
// @version 1.0
// @description Market data proxy for Chinese A-share stocks.
// @BasePath /
func main() {
	rootCmd := &cobra.Command{Use: "proxy-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-proxy.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing proxy-service CLI: %s\n", err)
		os.Exit(1)
	}
}
