package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/vinovest/sqlx"
	_ "modernc.org/sqlite"

	"giveaway-entry-backend/internal/common/config"
	"giveaway-entry-backend/internal/common/logger"
)

// Driver names as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open initializes a connection pool and pings it.
func Open(ctx context.Context, driver, dsn string, opts Options) (*sqlx.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty %s DSN", driver)
	}

	if driver == DriverSQLite {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(dsn)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// A single connection keeps :memory: databases intact and
		// serializes writers the way SQLite wants anyway.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
		conn.SetMaxIdleConns(opts.MaxIdleConns)
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// OpenFromConfig opens the SQL store selected by cfg.Store.Driver.
func OpenFromConfig(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	opts := Options{
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		conn, err := Open(ctx, DriverPostgres, cfg.Postgres.URL, opts)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Int("max_open_conns", opts.MaxOpenConns).
			Msg("PostgreSQL client initialized")
		return conn, nil
	case config.DriverSQLite:
		conn, err := Open(ctx, DriverSQLite, cfg.SQLite.Path, opts)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.SQLite.Path).Msg("SQLite client initialized")
		return conn, nil
	default:
		return nil, fmt.Errorf("store driver %q is not a SQL driver", cfg.Store.Driver)
	}
}

func isMemory(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func ensureDir(dsn string) error {
	if isMemory(dsn) {
		return nil
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return os.MkdirAll(filepath.Dir(path), 0o750)
}

func sqliteDSN(dsn string) string {
	if isMemory(dsn) || strings.Contains(dsn, "_pragma=busy_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
