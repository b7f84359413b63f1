package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/stevenscomputer/site/internal/config"
	"github.com/stevenscomputer/site/internal/logging"
	"github.com/stevenscomputer/site/internal/migrations"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply all pending migrations
  up          same as the default
  down        roll back the most recent migration
  version     print the applied schema version`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "", "up":
		if err := migrations.Up(cfg.Database); err != nil {
			logging.Fatal("migration failed", "driver", cfg.Database.Driver, "error", err)
		}
	case "down":
		if err := migrations.Down(cfg.Database); err != nil {
			logging.Fatal("rollback failed", "driver", cfg.Database.Driver, "error", err)
		}
	case "version":
		v, dirty, err := migrations.Version(cfg.Database)
		if err != nil {
			logging.Fatal("read version failed", "error", err)
		}
		slog.Info("schema version", "version", v, "dirty", dirty)
	default:
		usage()
	}
}
