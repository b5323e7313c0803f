// cmd/eventaide-mcp/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"eventaide/internal/common/cache"
	"eventaide/internal/common/config"
	apphttp "eventaide/internal/common/http"
	"eventaide/internal/common/logger"
	"eventaide/internal/common/observability"
	"eventaide/internal/mcpserver"
	"eventaide/internal/services/ticketmaster"
)

// stdout carries the MCP protocol, so every log line goes to stderr.
func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logger.New("info", "json", "stderr").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, "stderr")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs, err := observability.New(cfg.MCP.ServerName, cfg.Tracing, prometheus.NewRegistry())
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tmCfg := ticketmaster.FromAppConfig(cfg.Ticketmaster)
	if err := tmCfg.Validate(); err != nil {
		zapLog.Fatal("invalid ticketmaster config", zap.Error(err))
	}

	deps := ticketmaster.Dependencies{
		HTTP:   apphttp.NewClient("ticketmaster", tmCfg.Timeout),
		Logger: log.With(map[string]interface{}{"service": "ticketmaster"}),
	}
	if cfg.Cache.Enabled {
		rc := cache.NewRedis(cfg.Cache)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			zapLog.Warn("Redis unavailable, continuing without cache", zap.Error(err))
		} else {
			deps.Cache = rc
		}
	}

	srv := mcpserver.New(mcpserver.Config{
		Name:             cfg.MCP.ServerName,
		Version:          cfg.App.Version,
		DefaultCity:      cfg.MCP.DefaultCity,
		DefaultStateCode: cfg.MCP.DefaultStateCode,
	}, mcpserver.Dependencies{
		Source:   ticketmaster.NewClient(tmCfg, deps),
		Recorder: obs,
		Logger:   log.With(map[string]interface{}{"component": "mcp"}),
	})

	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		zapLog.Fatal("MCP server failed", zap.Error(err))
	}
}
