// cmd/eventaide/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"eventaide/internal/common/cache"
	"eventaide/internal/common/config"
	apphttp "eventaide/internal/common/http"
	"eventaide/internal/common/logger"
	"eventaide/internal/common/observability"
	"eventaide/internal/server"
	cityresolver "eventaide/internal/services/city-resolver"
	"eventaide/internal/services/dialogue"
	eventaggregator "eventaide/internal/services/event-aggregator"
	"eventaide/internal/services/ticketmaster"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, envFile, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting eventaide...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("envFile", envFile),
	)

	obs, err := observability.New(cfg.App.Name, cfg.Tracing, prometheus.DefaultRegisterer)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Optional Redis cache ---
	var (
		tmCache   ticketmaster.Cache
		cityCache cityresolver.Cache
		readiness server.Pinger
	)
	if rc := connectCache(ctx, cfg.Cache, zapLog); rc != nil {
		defer rc.Close()
		tmCache, cityCache, readiness = rc, rc, rc
	}

	// --- Services ---
	tmCfg := ticketmaster.FromAppConfig(cfg.Ticketmaster)
	if err := tmCfg.Validate(); err != nil {
		zapLog.Fatal("invalid ticketmaster config", zap.Error(err))
	}
	if tmCfg.APIKey == "" {
		zapLog.Warn("TICKETMASTER_API_KEY is not set; event lookups will fail")
	}
	events := ticketmaster.NewClient(tmCfg, ticketmaster.Dependencies{
		HTTP:   apphttp.NewClient("ticketmaster", tmCfg.Timeout),
		Cache:  tmCache,
		Logger: log.With(map[string]interface{}{"service": "ticketmaster"}),
	})

	resolverCfg := cityresolver.FromAppConfig(cfg.CityResolver)
	if err := resolverCfg.Validate(); err != nil {
		zapLog.Fatal("invalid city_resolver config", zap.Error(err))
	}
	resolver := cityresolver.NewService(resolverCfg, cityresolver.Dependencies{
		HTTP:   apphttp.NewClient("city_resolver", resolverCfg.Timeout),
		Cache:  cityCache,
		Logger: log.With(map[string]interface{}{"service": "city-resolver"}),
	})

	aggregatorCfg := &eventaggregator.Config{
		MaxEvents: cfg.Dialogue.TopN,
		StateCode: cfg.Dialogue.StateCode,
	}
	if err := aggregatorCfg.Validate(); err != nil {
		zapLog.Fatal("invalid aggregator config", zap.Error(err))
	}
	aggregator := eventaggregator.NewService(eventaggregator.ServiceDependencies{
		Source: events,
		Logger: log.With(map[string]interface{}{"service": "event-aggregator"}),
	}, aggregatorCfg)

	dialogueCfg := dialogue.FromAppConfig(cfg.Dialogue)
	if err := dialogueCfg.Validate(); err != nil {
		zapLog.Fatal("invalid dialogue config", zap.Error(err))
	}
	dlg := dialogue.NewService(dialogue.ServiceDependencies{
		Resolver:   resolver,
		Aggregator: aggregator,
		Recorder:   obs,
		Logger:     log.With(map[string]interface{}{"service": "dialogue"}),
	}, dialogueCfg)

	// --- HTTP API ---
	srv := server.New(cfg.Server, server.Dependencies{
		Dialogue: dlg,
		Cache:    readiness,
		Logger:   log.With(map[string]interface{}{"component": "http"}),
	})
	if err := srv.Run(ctx); err != nil {
		zapLog.Error("HTTP server failed", zap.Error(err))
	}

	zapLog.Info("eventaide stopped gracefully")
}

// connectCache returns a connected Redis cache, or nil when caching is disabled
// or Redis stays unreachable (the service then runs uncached).
func connectCache(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) *cache.RedisCache {
	if !cfg.Enabled {
		log.Info("Redis cache disabled")
		return nil
	}

	rc := cache.NewRedis(cfg)
	err := retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return rc.Ping(pingCtx)
	}, 3, 500*time.Millisecond, log, "Redis connection")
	if err != nil {
		log.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		_ = rc.Close()
		return nil
	}

	log.Info("Redis cache connected", zap.String("address", cfg.Address))
	return rc
}
