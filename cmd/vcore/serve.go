package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/metric"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/natsclient"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/seed"
	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/service"
)

func runServe(cliCfg *CLIConfig, cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := natsclient.Connect(ctx, cfg.NATS, logger)
	if err != nil {
		return err
	}
	defer client.Close(5 * time.Second)

	registry := metric.NewRegistry()

	opts := []service.Option{
		service.WithNATS(client),
		service.WithLogger(logger),
		service.WithMetrics(registry.Core()),
	}
	store, err := buildStore(ctx, cliCfg, cfg, client)
	if err != nil {
		return err
	}
	if store != nil {
		opts = append(opts, service.WithStore(store))
	}

	svc, err := service.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}

	var metricsServer *http.Server
	if cliCfg.MetricsPort > 0 {
		metricsServer = serveMetrics(cliCfg.MetricsPort, registry, logger)
	}

	logger.Info("serving", "stream_id", svc.ID(), "nats_url", cfg.NATS.URL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("shutdown signal received", "signal", s.String())
	case <-ctx.Done():
	}

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}
	return svc.Stop(cliCfg.ShutdownTimeout)
}

// buildStore selects the seed store: the NATS KV bucket from the config
// when one is named, the file store when -seed-dir is set, none otherwise.
func buildStore(ctx context.Context, cliCfg *CLIConfig, cfg config.Config,
	client *natsclient.Client) (seed.Store, error) {
	if cfg.Service.SeedBucket != "" {
		return seed.NewKVStore(ctx, client, cfg.Service.SeedBucket)
	}
	if cliCfg.SeedDir != "" {
		return seed.NewFileStore(cliCfg.SeedDir)
	}
	return nil, nil
}

func serveMetrics(port int, registry *metric.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", registry.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("metrics exposed", "port", port)
	return server
}
