package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"giveaway-entry-backend/internal/common/config"
	"giveaway-entry-backend/internal/common/logger"
)

// @title           Giveaway Entry API
// @version         1.0
// @description     Accepts giveaway entries and rejects emails already registered for a giveaway.
// @BasePath        /

// @tag.name entries
// @tag.description Entry submission

// @tag.name health
// @tag.description Liveness of the entry store

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "giveaway-entry",
		Usage:   "Giveaway entry submission service",
		Version: fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Action:  runServer,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: runServer,
			},
			{
				Name:  "migrate",
				Usage: "Manage the giveaway_entries schema (postgres, sqlite)",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: runMigrateUp,
					},
					{
						Name:   "down",
						Usage:  "Roll back the last migration",
						Action: runMigrateDown,
					},
					{
						Name:   "status",
						Usage:  "Show migration status",
						Action: runMigrateStatus,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration once and installs the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	logger.Init(cfg.ServiceName, cfg.Debug)
	return cfg, nil
}
