package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/digital-codes/platansense/internal/app"
	"github.com/digital-codes/platansense/internal/config"
)

// RunWorker starts the job processor polling loop. Blocks until
// SIGINT/SIGTERM. Exactly one worker instance should run per data directory;
// a second instance would double-invoke the external pipeline.
func RunWorker(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting worker", slog.String("version", version))

	defer closeContainer(container, logger)

	processor, err := container.Processor()
	if err != nil {
		return fmt.Errorf("failed to initialize processor: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := processor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("processor error: %w", err)
	}

	logger.Info("worker stopped")
	return nil
}
