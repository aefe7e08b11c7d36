package main

import (
	"context"
	"flag"
	"log"

	"github.com/muhammadchandra19/trade-aggregator/pkg/logger"
	"github.com/muhammadchandra19/trade-aggregator/pkg/migration"
	"github.com/muhammadchandra19/trade-aggregator/pkg/questdb"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/migrations"
	"github.com/muhammadchandra19/trade-aggregator/services/trade-aggregator/pkg/config"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of migrations to apply (0 = all pending for up, 1 for down)")
	)
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.LoadMigration()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Fatalf("Failed to initialize QuestDB client: %v", err)
	}
	defer client.Close()

	runner := migration.NewRunner(client, appLogger, migrations.Files)

	switch *direction {
	case "up":
		err = runner.MigrateUp(ctx, *steps)
	case "down":
		n := *steps
		if n == 0 {
			n = 1
		}
		err = runner.MigrateDown(ctx, n)
	default:
		log.Fatalf("Unknown direction %q, expected up or down", *direction)
	}
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")
}
