package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/server"
)

func main() {
	cfg := config.LoadOrDefault()

	// Flags override env config
	port := flag.String("port", cfg.Server.Port, "Server port")
	contentPath := flag.String("content", cfg.Content.Path, "Content file or directory (empty serves the embedded default)")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (debug logs, console encoding)")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Content.Path = *contentPath
	cfg.Logging.Development = *dev

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return srv.Watch(ctx) })

	err = g.Wait()
	logger.Info("Shutting down gracefully...")
	if closeErr := srv.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func newLogger(cfg config.LogConfig) (*logging.Logger, error) {
	if cfg.Development {
		return logging.New(logging.DevelopmentConfig())
	}
	lc := logging.DefaultConfig()
	lc.Level = cfg.Level
	return logging.New(lc)
}
