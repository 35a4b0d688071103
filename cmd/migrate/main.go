package main

import (
	"context"
	"flag"

	pgstate "github.com/muhammadchandra19/token-exchange/internal/infrastructure/postgresql/state"
	"github.com/muhammadchandra19/token-exchange/pkg/config"
	"github.com/muhammadchandra19/token-exchange/pkg/logger"
	migration "github.com/muhammadchandra19/token-exchange/pkg/migration-pg"
	"github.com/muhammadchandra19/token-exchange/pkg/postgresql"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	ctx := context.Background()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.GetZap().Fatal("Failed to load config: " + err.Error())
	}

	// Initialize PostgreSQL client
	pgClient, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.GetZap().Fatal("Failed to initialize PostgreSQL client: " + err.Error())
	}
	defer pgClient.Close()

	// Create migration runner
	runner := migration.NewRunner(pgClient, log, migration.Config{
		Source:    pgstate.Migrations(),
		Schema:    cfg.Postgres.SearchPath,
		TableName: "schema_migrations",
	})

	// Ensure migration tracking table exists
	if err := runner.EnsureMigrationTable(ctx); err != nil {
		log.GetZap().Fatal("Failed to create migration table: " + err.Error())
	}

	// Run migrations based on direction
	switch *direction {
	case "up":
		if err := runner.MigrateUp(ctx, *steps); err != nil {
			log.GetZap().Fatal("Failed to migrate up: " + err.Error())
		}
	case "down":
		if err := runner.MigrateDown(ctx, *steps); err != nil {
			log.GetZap().Fatal("Failed to migrate down: " + err.Error())
		}
	default:
		log.GetZap().Fatal("Invalid direction, use 'up' or 'down': " + *direction)
	}

	log.Info("Migration completed successfully", logger.Field{Key: "direction", Value: *direction})
}
