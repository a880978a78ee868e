// Command utilreport prints the technician utilization trend for a date
// range, either as a table with a chart or as JSON.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lorrc/field-service-analytics/internal/config"
	"github.com/lorrc/field-service-analytics/internal/core/services"
	"github.com/lorrc/field-service-analytics/internal/infrastructure/logging"
	"github.com/lorrc/field-service-analytics/internal/infrastructure/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	// 1. Load store configuration
	cfg, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      "text",
		Output:      stderr,
		ServiceName: "utilreport",
		Environment: cfg.App.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Open the fact store
	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.Database.Driver, err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("error closing store", "error", closeErr)
		}
	}()

	// 3. Build the report
	svc := services.NewUtilizationService(store.Reader, logger, cfg.Analytics.RankingSize)
	trend, err := svc.GetTrend(ctx, opts.start, opts.end, opts.interval)
	if err != nil {
		return err
	}

	logger.Debug("trend report ready", slog.Int("points", len(trend.Points)))
	return render(stdout, trend, opts.format)
}
