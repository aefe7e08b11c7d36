package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/app/aggregator"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// The first signal stops ingestion and drains the queue; a second one
	// kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := aggregator.InitAggregator(ctx, *cfg)
	if err != nil {
		slog.Error("Failed to create trade aggregator", "error", err)
		os.Exit(1)
	}

	go func() {
		<-ctx.Done()
		stop()
		slog.Info("Shutting down trade aggregator...")
	}()

	runErr := app.Run(ctx)
	app.Stop()

	if runErr != nil {
		slog.Error("Trade aggregator stopped with error", "error", runErr)
		os.Exit(1)
	}
	slog.Info("Trade aggregator stopped")
}
