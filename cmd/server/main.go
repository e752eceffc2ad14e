package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/damon-houk/wex-purchase-conversion/internal/application/service"
	"github.com/damon-houk/wex-purchase-conversion/internal/config"
	"github.com/damon-houk/wex-purchase-conversion/internal/domain/repository"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/api"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/cache"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/db"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/handler"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/logger"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/metrics"
	"github.com/damon-houk/wex-purchase-conversion/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.NewJSONLogger(os.Stdout, logger.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	log = logger.NewJSONLogger(os.Stdout, cfg.Level())
	logger.SetDefaultLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", map[string]interface{}{"error": err.Error()})
	}
}

func run(cfg config.Config, log logger.Logger) error {
	log.Info("Starting WEX purchase conversion service", map[string]interface{}{
		"addr":          cfg.Server.Addr,
		"cache_backend": cfg.Cache.Backend,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	badgerDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	rateCache, err := newRateCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		if err := rateCache.Close(); err != nil {
			log.Error("Error closing rate cache", map[string]interface{}{"error": err.Error()})
		}
	}()

	treasury := api.NewTreasuryAPIClient(api.ClientConfig{
		BaseURL:        cfg.Treasury.BaseURL,
		ConnectTimeout: cfg.Treasury.ConnectTimeout,
		ReadTimeout:    cfg.Treasury.ReadTimeout,
	}, log, m)

	warmer := service.NewCacheWarmer(rateCache, service.WarmerConfig{
		Workers:   cfg.Warmer.Workers,
		QueueSize: cfg.Warmer.QueueSize,
	}, log, m)
	warmer.Start()
	// Runs before the cache is closed
	defer warmer.Stop()

	txRepo := db.NewBadgerTransactionRepository(badgerDB)
	resolver := service.NewExchangeRateService(treasury, rateCache, warmer, log, m)
	txService := service.NewTransactionService(txRepo)
	conversionService := service.NewConversionService(txRepo, resolver, log)

	router := mux.NewRouter()
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware(m),
	)
	handler.NewTransactionHandler(txService, log).RegisterRoutes(router)
	handler.NewConversionHandler(conversionService, log).RegisterRoutes(router)
	handler.NewHealthHandler(treasury, cfg.Treasury.ConnectTimeout+cfg.Treasury.ReadTimeout, log).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", map[string]interface{}{"addr": cfg.Server.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newRateCache(ctx context.Context, cfg config.CacheConfig) (repository.RateCache, error) {
	if cfg.Backend != config.CacheBackendRedis {
		return cache.NewExchangeRateCache(), nil
	}

	redisCache, err := cache.NewRedisRateCache(ctx, cache.RedisConfig{
		Addr:      cfg.RedisAddr,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		KeyPrefix: cfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
	}
	return redisCache, nil
}
