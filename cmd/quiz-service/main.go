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

	"golang.org/x/sync/errgroup"

	"quizkit/internal/archive"
	"quizkit/internal/archive/sqlite"
	"quizkit/internal/config"
	"quizkit/internal/httpapi"
	"quizkit/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Service.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Service.DB = *dbPath
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("quiz-service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	store, err := sqlite.Open(context.Background(), cfg.Service.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	api := httpapi.NewAPI(archive.NewService(store, archive.WithCacheSize(cfg.Service.CacheSize)), store, log)
	server := &http.Server{
		Addr: cfg.Service.Addr,
		Handler: httpapi.NewRouter(api, httpapi.RouterOptions{
			AllowedOrigins: cfg.Service.AllowedOrigins,
			RequestTimeout: cfg.Service.RequestTimeout,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("quiz-service listening", "addr", cfg.Service.Addr, "db", cfg.Service.DB)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down quiz-service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
