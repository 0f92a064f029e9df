package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/itpreg/internal/api"
	"github.com/mcoot/itpreg/internal/config"
	"github.com/mcoot/itpreg/internal/factory"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	var level slog.Level
	if err := level.UnmarshalText([]byte(settings.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, settings, logger)
	stop()
	if err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// run serves until ctx is cancelled or the listener fails. The application
// is closed before run returns on every path.
func run(ctx context.Context, settings *config.Config, logger *slog.Logger) error {
	cfg, err := factory.FromSettings(settings, logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", slog.String("error", err.Error()))
		}
	}()

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = settings.Server.Host
	serverConfig.Port = settings.Server.Port
	server := api.NewServer(app.Handler(), serverConfig, logger)

	// Open countdown streams would otherwise hold shutdown until its timeout
	server.OnShutdown(app.Hub.Close)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		return app.RunCountdown(ctx)
	})

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("window_start", cfg.Window.Start.String()),
		slog.String("window_end", cfg.Window.End.String()))

	return g.Wait()
}
