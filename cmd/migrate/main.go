// Command migrate applies, reverts and reports the embedded SQL migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"blog/internal/config"
	"blog/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|status> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DBDriver == config.DriverMongo {
		return fmt.Errorf("DB_DRIVER=mongo has no SQL migrations; indexes are created on connect")
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{AutoMigrate: false})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "status":
		status, err := database.Status(ctx, db)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, s := range status {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			log.Printf("%-8s %s", state, s.String())
		}
	case "down":
		if flag.NArg() >= 2 {
			version, err := strconv.Atoi(flag.Arg(1))
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
			}
			if err := database.RollbackMigration(ctx, db, version); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			log.Printf("rolled back migration %d", version)
			return nil
		}
		version, err := database.RollbackLatest(ctx, db)
		if err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		if version == 0 {
			log.Println("nothing to roll back")
			return nil
		}
		log.Printf("rolled back migration %d", version)
	default:
		return usage()
	}

	return nil
}
