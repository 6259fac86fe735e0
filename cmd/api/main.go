// The api binary serves the enrichment HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mealdex/enrich/internal/app"
	"github.com/mealdex/enrich/internal/infrastructure/config"
	"github.com/mealdex/enrich/internal/infrastructure/http/handlers"
	"github.com/mealdex/enrich/internal/infrastructure/http/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Missing .env is fine, environment variables may be set directly
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	log := application.Logger
	log.Info("starting enrichment api",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port))

	handler := handlers.NewEnrichmentHandler(
		application.Orchestrator,
		application.Store,
		application.Mailer,
		log,
		cfg.IsProduction(),
	)

	srv := server.New(cfg, handler, handler.Demo(app.NewDemoOrchestrator(log)), application.Registry, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
