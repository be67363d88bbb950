// Package main is the entry point for the ledger API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigpay/internal/config"
	applog "gigpay/internal/logger"
	"gigpay/internal/metrics"
	"gigpay/internal/repositories"
	"gigpay/internal/repositories/cache"
	"gigpay/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := applog.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := repositories.InitDB(cfg, log)
	if err != nil {
		log.Fatal("failed to initialise database", "error", err.Error())
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			log.Warn("failed to close database connection", "error", err.Error())
		}
	}()

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cacheService := cache.NewCacheService(redisClient, cfg.CacheTTL)
	defer func() {
		if err := cacheService.Close(); err != nil {
			log.Warn("failed to close redis connection", "error", err.Error())
		}
	}()

	// Clear cached profiles on startup
	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheService.HealthCheck(startupCtx); err != nil {
		log.Warn("redis unavailable, profiles will be read from the database", "error", err.Error())
	} else if err := cacheService.FlushAll(startupCtx); err != nil {
		log.Warn("failed to flush redis cache", "error", err.Error())
	} else {
		log.Info("redis cache flushed on startup")
	}
	cancel()

	monitor, err := repositories.StartPoolMonitor(db, log, cfg.PoolStatsSpec)
	if err != nil {
		log.Fatal("failed to start pool monitor", "error", err.Error())
	}
	if _, err := monitor.AddFunc(cfg.PoolStatsSpec, func() {
		stats := cacheService.GetStats()
		log.Info("redis pool stats",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"timeouts", stats.Timeouts,
			"total_conns", stats.TotalConns,
			"idle_conns", stats.IdleConns,
		)
	}); err != nil {
		log.Warn("failed to schedule redis pool stats", "error", err.Error())
	}
	defer monitor.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "gigpay",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Deps{
		Config:  cfg,
		DB:      db,
		Cache:   cacheService,
		Metrics: metrics.NewCollector(),
		Logger:  log,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("graceful shutdown failed", "error", err.Error())
		}
	}()

	log.Info("listening", "port", cfg.Port, "env", cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err.Error())
	}
}
