package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/faciam-dev/urlpreview/internal/config"
	"github.com/faciam-dev/urlpreview/internal/events"
	"github.com/faciam-dev/urlpreview/internal/logger"
	"github.com/faciam-dev/urlpreview/internal/registry/interfaces"
	"github.com/faciam-dev/urlpreview/internal/server"
	"github.com/faciam-dev/urlpreview/pkg/metrics"
)

func main() {
	openapi := flag.String("openapi", "", "write OpenAPI JSON and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("load config", "err", err)
		os.Exit(1)
	}
	logger.Set(logger.New(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := cfg.FramePolicy()
	if err != nil {
		logger.L.Error("frame-src policy", "err", err)
		os.Exit(1)
	}

	reg := interfaces.Builtins()
	if cfg.ExtensionsDir != "" {
		w := interfaces.NewWatcher(cfg.ExtensionsDir, reg, cfg.WatchDebounce, logger.L)
		if err := w.Sync(ctx); err != nil {
			logger.L.Error("load interfaces", "dir", cfg.ExtensionsDir, "err", err)
		}
		if _, err := w.Start(ctx); err != nil {
			logger.L.Error("watch interfaces", "dir", cfg.ExtensionsDir, "err", err)
		}
		if cfg.ResyncInterval > 0 {
			if _, err := w.ScheduleResync(ctx, cfg.ResyncInterval); err != nil {
				logger.L.Error("schedule resync", "err", err)
			}
		}
	}

	evtConf, err := events.LoadConfig(cfg.EventsConfig)
	if err != nil {
		logger.L.Error("Failed to load events configuration", "err", err)
		os.Exit(1)
	}
	var sinks []events.Sink
	if wh := events.NewWebhookSink(evtConf.Sinks.Webhook); wh != nil {
		sinks = append(sinks, wh)
	}
	if rs, err := events.NewRedisSink(evtConf.Sinks.Redis); err == nil && rs != nil {
		sinks = append(sinks, rs)
		defer rs.Close()
	} else if err != nil {
		logger.L.Error("redis sink", "err", err)
	}
	if ks, err := events.NewKafkaSink(evtConf.Sinks.Kafka); err == nil && ks != nil {
		sinks = append(sinks, ks)
		defer ks.Close()
	} else if err != nil {
		logger.L.Error("kafka sink", "err", err)
	}
	if len(sinks) > 0 {
		d := events.NewDispatcher(evtConf, events.LogDLQ{Logger: logger.L}, sinks...)
		events.Relay(ctx, reg, d)
	}

	metrics.StartInterfaceGauge(ctx, reg, time.Minute, func(err error) {
		logger.L.Error("interface gauge", "err", err)
	})

	api := server.New(reg, policy, cfg)

	if *openapi != "" {
		data, err := json.MarshalIndent(api.OpenAPI(), "", "  ")
		if err != nil {
			logger.L.Error("marshal openapi", "err", err)
			os.Exit(1)
		}
		p := filepath.Clean(*openapi)
		if err := os.WriteFile(p, data, 0o600); err != nil {
			logger.L.Error("write openapi", "err", err)
			os.Exit(1)
		}
		return
	}

	logger.L.Info("listening", "addr", cfg.Addr)
	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     api.Adapter(),
		ReadTimeout: 5 * time.Second,
		// the interface stream holds connections open
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("server error", "err", err)
		os.Exit(1)
	}
}
