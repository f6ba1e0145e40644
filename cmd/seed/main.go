// Command seed replaces the inventory with a demonstration data set.
//
// It reads the same configuration as the service (INVENTORY_CONFIG, .env and
// INVENTORY_* overrides), migrates the database and runs internal/seed.
// Mutations are recorded in the audit trail with source "seed".
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/iot-inventory/internal/audit"
	"github.com/nerrad567/iot-inventory/internal/events"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/config"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/database"
	"github.com/nerrad567/iot-inventory/internal/infrastructure/logging"
	"github.com/nerrad567/iot-inventory/internal/inventory"
	"github.com/nerrad567/iot-inventory/internal/seed"
	"github.com/nerrad567/iot-inventory/migrations"
)

const defaultConfigPath = "configs/config.yaml"

// version is set at build time via ldflags.
var version = "dev"

func main() {
	readings := flag.Int("readings", seed.DefaultReadings, "number of random readings to create")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *readings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, readings int) error {
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	path := defaultConfigPath
	if p := os.Getenv("INVENTORY_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version).With("component", "seed")

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() //nolint:errcheck // process exits next

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	bus := events.NewBus(log)
	bus.Register(events.NewAuditSink(audit.NewSQLiteRepository(db.DB), "seed"))
	svcs := inventory.NewServices(db.DB, bus)

	log.Info("seeding database", "path", cfg.Database.Path)
	res, err := seed.Run(ctx, db.DB, svcs, log, seed.Options{Readings: readings})
	if err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	log.Info("database seeded",
		"users", res.Users,
		"zones", res.Zones,
		"sensors", res.Sensors,
		"devices", res.Devices,
		"readings", res.Readings,
	)
	return nil
}
