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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"recipebook/pkg/config"
	"recipebook/pkg/logger"
	"recipebook/pkg/metrics"
	"recipebook/pkg/otel"
	"recipebook/pkg/recipe/memory"
)

const serviceName = "recipebook"

// @title Recipebook API
// @version 1.0
// @description In-memory recipe catalogue
// @host localhost:8080
// @BasePath /
func main() {
	configDir := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), cfg.Log.Format, serviceName, otel.GetTraceID)

	if err := run(log, cfg); err != nil {
		log.Error(context.Background(), "startup", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func run(log *logger.Logger, cfg *config.Config) error {
	ctx := context.Background()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: serviceName,
		Exporter:    cfg.Tracing.Exporter,
		Host:        cfg.Tracing.Endpoint,
		Probability: cfg.Tracing.Probability,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Warn(ctx, "tracing shutdown", "error", err)
		}
	}()

	store := memory.New()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &api{
		repo:    store,
		log:     log,
		metrics: metrics.New(reg, store.Len),
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newRouter(a, tp.Tracer(serviceName), cfg.Metrics.Enabled),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	log.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "shutdown timed out, forcing close", "timeout", cfg.Server.ShutdownTimeout)
		srv.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}

	log.Info(ctx, "stopped")
	return nil
}
