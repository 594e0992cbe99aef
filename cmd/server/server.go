package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"giveaway-entry-backend/internal/common/config"
	"giveaway-entry-backend/internal/common/logger"
	"giveaway-entry-backend/internal/features/entry/repository"
	entryredis "giveaway-entry-backend/internal/features/entry/repository/redis"
	"giveaway-entry-backend/internal/features/entry/repository/sqldb"
	"giveaway-entry-backend/internal/features/entry/service"
	apphttp "giveaway-entry-backend/internal/http"
	"giveaway-entry-backend/internal/platform/db"
	redisplatform "giveaway-entry-backend/internal/platform/redis"
)

func runServer(ctx context.Context, _ *cli.Command) error {
	// Create cancellable root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Info().
		Str("store_driver", cfg.Store.Driver).
		Str("entry_path", cfg.Server.EntryPath).
		Bool("normalized_duplicate_check", cfg.Entry.NormalizedDuplicateCheck).
		Msg("Starting giveaway entry service")

	repo, closeStore, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("Entry store close failed")
		}
	}()

	svc := service.NewEntryService(repo, service.Options{
		StoreTimeout:             cfg.Store.Timeout,
		NormalizedDuplicateCheck: cfg.Entry.NormalizedDuplicateCheck,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      apphttp.NewRouter(cfg, svc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	logger.Info().Msg("Server exited")
	return nil
}

// openRepository builds the entry store chosen by STORE_DRIVER. The store
// client is created once here and shared by every request.
func openRepository(ctx context.Context, cfg *config.Config) (repository.EntryRepository, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		client, err := redisplatform.OpenFromConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("redis open: %w", err)
		}
		return entryredis.NewEntryRepository(client, cfg.Redis.KeyPrefix), client.Close, nil

	default:
		conn, err := db.OpenFromConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("database open: %w", err)
		}
		if cfg.Postgres.AutoMigrate || cfg.Store.Driver == config.DriverSQLite {
			if err := db.MigrateUp(ctx, conn); err != nil {
				_ = conn.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
		}
		return sqldb.NewSQLRepository(conn), conn.Close, nil
	}
}
