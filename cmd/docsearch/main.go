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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/config"
	dbMongo "github.com/kailas-cloud/docsearch/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/docsearch/internal/db/redis"
	domdoc "github.com/kailas-cloud/docsearch/internal/domain/document"
	"github.com/kailas-cloud/docsearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/docsearch/internal/logger"
	"github.com/kailas-cloud/docsearch/internal/metrics"
	"github.com/kailas-cloud/docsearch/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/docsearch/internal/transport/chi"
	connectionuc "github.com/kailas-cloud/docsearch/internal/usecase/connection"
	documentuc "github.com/kailas-cloud/docsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
	"github.com/kailas-cloud/docsearch/internal/version"
)

// resultCache is what both the search and document services need.
type resultCache interface {
	searchuc.ResultCache
	documentuc.ResultCache
	Ping(ctx context.Context) error
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

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

	fields, err := cfg.FieldMapping()
	if err != nil {
		logger.Fatal("Invalid field mapping", zap.Error(err))
	}

	logger.Info("Starting docsearch gateway",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("field_profile", cfg.Fields.Profile),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("search_index", cfg.MongoDB.SearchIndex),
	)

	metrics.RegisterSearchMetrics()

	ctx := context.Background()

	cache, closeCache := buildCache(ctx, &cfg, logger)
	defer closeCache()

	planner := dbMongo.NewPlanner(cfg.MongoDB.SearchIndex, fields).WithRawPattern(cfg.Search.RawPattern)
	formatter := domdoc.NewFormatter(fields).OnDecodeSkipped(func(id string, err error) {
		metrics.DateDecodeSkippedTotal.Inc()
		logger.Warn("Date code skipped", zap.String("id", id), zap.Error(err))
	})

	connSvc := connectionuc.New(dbMongo.NewDialer(planner), cfg.MongoDB.DBName, cfg.MongoDB.Collection)
	connectTimeout := time.Duration(cfg.MongoDB.ConnectTimeoutSec) * time.Second

	// Auto-connect from configuration; failure leaves the gateway waiting for POST /connect.
	if cfg.MongoDB.URI != "" {
		logger.Info("[CONNECT] connecting with configured URI")
		dialCtx, cancel := context.WithTimeout(logpkg.ContextWithLogger(ctx, logger), connectTimeout)
		if _, err := connSvc.Connect(dialCtx, cfg.MongoDB.URI, "", ""); err != nil {
			logger.Error("[CONNECT] configured URI failed, starting disconnected", zap.Error(err))
		}
		cancel()
	}

	searchSvc := searchuc.New(connSvc, planner, formatter, cache, request.Limits{
		Default: fields.DefaultLimit,
		Min:     cfg.Search.MinLimit,
		Max:     cfg.Search.MaxLimit,
	})
	docSvc := documentuc.New(connSvc, formatter, cache)
	healthSvc := healthuc.New(connSvc, cache)

	server := chiTransport.NewServer(connSvc, searchSvc, docSvc, healthSvc, chiTransport.Options{
		ConnectTimeout: connectTimeout,
		SearchRPS:      cfg.Search.RateLimitRPS,
		SearchBurst:    cfg.Search.RateLimitBurst,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
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
	if err := connSvc.Close(shutdownCtx); err != nil {
		logger.Error("Error closing MongoDB connection", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCache creates the result cache backend for cfg.Cache.Driver.
func buildCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (resultCache, func()) {
	switch cfg.Cache.Driver {
	case "redis", "valkey":
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		if err := store.WaitForReady(ctx, 10*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to result cache", zap.Strings("addrs", cfg.Cache.Addrs))
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		return resultcache.NewRedis(store, cfg.Cache.KeyPrefix, ttl), store.Close
	default:
		return resultcache.NewMemory(), func() {}
	}
}
