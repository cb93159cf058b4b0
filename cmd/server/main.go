package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/parcel-tracking/internal/adapter/httpapi"
	"github.com/couchcryptid/parcel-tracking/internal/adapter/jobqueue"
	"github.com/couchcryptid/parcel-tracking/internal/adapter/weather"
	"github.com/couchcryptid/parcel-tracking/internal/config"
	"github.com/couchcryptid/parcel-tracking/internal/jobs"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
	"github.com/couchcryptid/parcel-tracking/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	db, err := store.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	statuses := jobs.NewStatusStore(jobs.NewRedisKV(redisClient), cfg.JobStatusTTL)
	dispatcher := jobqueue.NewDispatcher(cfg, logger)

	// Weather is feature-flagged via OPENWEATHERMAP_API_KEY / WEATHER_ENABLED.
	var weatherProvider httpapi.WeatherProvider
	if cfg.WeatherEnabled {
		client := weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout, logger, metrics)
		weatherProvider = weather.NewCachedClient(client, weather.NewRedisCache(redisClient), cfg.WeatherCacheTTL, logger, metrics)
		logger.Info("weather integration enabled", "cache_ttl", cfg.WeatherCacheTTL, "timeout", cfg.WeatherTimeout)
	} else {
		logger.Info("weather integration disabled")
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, db, weatherProvider, dispatcher, statuses, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := dispatcher.Close(); err != nil {
		logger.Error("job dispatcher close error", "error", err)
	}

	logger.Info("shutdown complete")
}
