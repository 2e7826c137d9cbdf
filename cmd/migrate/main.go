package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Rrens/medical-agent/internal/config"
	"github.com/Rrens/medical-agent/internal/repository/postgres"
	"github.com/Rrens/medical-agent/internal/repository/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("failed to load config: %v", err)
	}

	switch strings.ToLower(cfg.Database.Driver) {
	case "postgres", "postgresql":
		fmt.Printf("Migrating postgres at %s:%d...\n", cfg.Database.Host, cfg.Database.Port)
		if *down {
			err = postgres.RollbackMigration(cfg.Database.DSN())
		} else {
			err = postgres.RunMigrations(cfg.Database.DSN())
		}

	case "sqlite":
		fmt.Printf("Migrating sqlite database %s...\n", cfg.Database.SQLitePath)
		var db *sqlite.DB
		db, err = sqlite.Open(context.Background(), cfg.Database.SQLitePath)
		if err == nil {
			err = db.Migrate(!*down)
			db.Close()
		}

	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err != nil {
		fail("migration failed: %v", err)
	}

	if *down {
		fmt.Println("✅ rolled back one migration")
	} else {
		fmt.Println("✅ migrations applied")
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
