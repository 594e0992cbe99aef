package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"

	"giveaway-entry-backend/internal/common/config"
	"giveaway-entry-backend/internal/common/logger"
	"giveaway-entry-backend/internal/platform/db"
)

func runMigrateUp(ctx context.Context, _ *cli.Command) error {
	return withSQLStore(ctx, func(conn *sqlx.DB) error {
		if err := db.MigrateUp(ctx, conn); err != nil {
			return err
		}
		version, err := db.Version(ctx, conn)
		if err != nil {
			return err
		}
		logger.Info().Int64("version", version).Msg("Migrations applied")
		return nil
	})
}

func runMigrateDown(ctx context.Context, _ *cli.Command) error {
	return withSQLStore(ctx, func(conn *sqlx.DB) error {
		return db.MigrateDown(ctx, conn)
	})
}

func runMigrateStatus(ctx context.Context, _ *cli.Command) error {
	return withSQLStore(ctx, func(conn *sqlx.DB) error {
		return db.MigrationStatus(ctx, conn)
	})
}

func withSQLStore(ctx context.Context, fn func(conn *sqlx.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Store.Driver == config.DriverRedis {
		return fmt.Errorf("migrations do not apply to store driver %q", cfg.Store.Driver)
	}

	conn, err := db.OpenFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database open: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}
