package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/geoforge/revgeo"
	"github.com/geoforge/revgeo/internal/config"
	"github.com/geoforge/revgeo/internal/db/sqlite"
	logpkg "github.com/geoforge/revgeo/internal/logger"
	"github.com/geoforge/revgeo/internal/metrics"
	chiTransport "github.com/geoforge/revgeo/internal/transport/chi"
	"github.com/geoforge/revgeo/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting revgeo API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("databases", cfg.Databases),
	)

	// Register Prometheus metrics explicitly (no init())
	metrics.RegisterGeocoderMetrics()

	geocoder := revgeo.New(
		revgeo.WithRadius(cfg.Geocoder.RadiusMeters),
		revgeo.WithLanguage(cfg.Geocoder.Language),
		revgeo.WithAddressCacheSize(cfg.Geocoder.AddressCacheSize),
		revgeo.WithQueryCacheSize(cfg.Geocoder.QueryCacheSize),
		revgeo.WithLogger(logger),
	)

	// Open and import every configured database — composition root owns the
	// store handles, the engine only reads through them.
	ctx := context.Background()
	stores := make([]chiTransport.Pinger, 0, len(cfg.Databases))
	for _, path := range cfg.Databases {
		store, err := sqlite.Open(path)
		if err != nil {
			logger.Fatal("Failed to open database", zap.String("path", path), zap.Error(err))
		}
		defer store.Close()

		if err := store.Ping(ctx); err != nil {
			logger.Fatal("Database not readable", zap.String("path", path), zap.Error(err))
		}

		id, err := geocoder.Import(ctx, store)
		if err != nil {
			logger.Fatal("Failed to import database", zap.String("path", path), zap.Error(err))
		}
		logger.Info("Database imported", zap.String("id", id), zap.String("path", path))
		stores = append(stores, store)
	}

	server := chiTransport.NewServer(geocoder, stores, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
