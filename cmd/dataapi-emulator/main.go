package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dataapi/internal/config"
	"github.com/kailas-cloud/dataapi/internal/db"
	"github.com/kailas-cloud/dataapi/internal/db/memory"
	dbRedis "github.com/kailas-cloud/dataapi/internal/db/redis"
	"github.com/kailas-cloud/dataapi/internal/domain"
	"github.com/kailas-cloud/dataapi/internal/emulator"
	logpkg "github.com/kailas-cloud/dataapi/internal/logger"
	"github.com/kailas-cloud/dataapi/internal/metrics"
	openaiEmb "github.com/kailas-cloud/dataapi/internal/transport/openai"
	"github.com/kailas-cloud/dataapi/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: config/$ENV.yaml)")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := loadConfig(env, *configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Data API emulator",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("namespaces", cfg.Namespaces),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterEmbeddingMetrics()

	embedders := make(map[string]domain.Embedder, len(cfg.Embedding.Providers))
	for name, p := range cfg.Embedding.Providers {
		embedders[name] = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:   p.APIKey,
			BaseURL:  p.BaseURL,
			Provider: name,
			Logger:   logger,
		})
		logger.Info("Embedding provider configured", zap.String("provider", name))
	}

	handler := emulator.NewHandler(store, emulator.Config{
		APIPath:         cfg.HTTP.APIPath,
		Tokens:          cfg.Auth.Tokens,
		KeyPrefix:       cfg.Storage.KeyPrefix,
		Namespaces:      cfg.Namespaces,
		MaxCount:        cfg.Commands.MaxCount,
		Embedders:       embedders,
		CacheEmbeddings: cfg.Embedding.Cache,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func loadConfig(env, path string) (config.Config, error) {
	if path == "" {
		return config.Load(env)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newStore picks the storage backend. Redis and Valkey share the rueidis store.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverRedis, config.DriverValkey:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
