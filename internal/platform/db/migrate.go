package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/vinovest/sqlx"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

func setup(conn *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)

	dialect := "postgres"
	if conn.DriverName() == DriverSQLite {
		dialect = "sqlite3"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return nil
}

// MigrateUp applies all pending migrations.
func MigrateUp(ctx context.Context, conn *sqlx.DB) error {
	if err := setup(conn); err != nil {
		return err
	}
	return goose.UpContext(ctx, conn.DB, migrationsDir)
}

// MigrateDown rolls back the last migration.
func MigrateDown(ctx context.Context, conn *sqlx.DB) error {
	if err := setup(conn); err != nil {
		return err
	}
	return goose.DownContext(ctx, conn.DB, migrationsDir)
}

// MigrationStatus logs the state of every migration.
func MigrationStatus(ctx context.Context, conn *sqlx.DB) error {
	if err := setup(conn); err != nil {
		return err
	}
	return goose.StatusContext(ctx, conn.DB, migrationsDir)
}

// Version returns the current schema version.
func Version(ctx context.Context, conn *sqlx.DB) (int64, error) {
	if err := setup(conn); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, conn.DB)
}
