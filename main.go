package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"Composite/internal/calc/composite"
	"Composite/internal/config"
	"Composite/internal/logging"
	"Composite/internal/server"
)

var wg sync.WaitGroup

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	// Tables are built before the listener starts accepting requests.
	predictor := composite.Default()
	catalog := predictor.Catalog()
	logger.Info("predictor ready",
		"version", server.Version,
		"method", composite.Method,
		"fiber_types", len(catalog),
		"combinations", catalog.Count())

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: server.NewHandler(cfg, predictor, logger),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	wg.Wait()
	logger.Info("server stopped")
}
