// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/repository"
	"giveaway-entry-backend/internal/features/entry/repository/sqldb"
	"giveaway-entry-backend/internal/platform/db"
)

// NewTestDB creates a migrated in-memory SQLite database.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:", db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	require.NoError(t, db.MigrateUp(ctx, conn))
	return conn
}

// NewTestRepository returns a SQL entry store on a fresh database.
func NewTestRepository(t *testing.T) (*sqlx.DB, repository.EntryRepository) {
	t.Helper()
	conn := NewTestDB(t)
	return conn, sqldb.NewSQLRepository(conn)
}

// NewTestEntry inserts an entry directly, bypassing the service checks.
func NewTestEntry(t *testing.T, repo repository.EntryRepository, giveawayID, email string) *models.Entry {
	t.Helper()
	entry, err := repo.Insert(context.Background(), &models.Entry{
		GiveawayID: giveawayID,
		Name:       "Test User",
		Email:      email,
		Phone:      "5551234567",
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	return entry
}

// CountEntries returns how many rows exist for the pair.
func CountEntries(t *testing.T, conn *sqlx.DB, giveawayID, email string) int {
	t.Helper()
	var n int
	err := conn.Get(&n, conn.Rebind(`SELECT COUNT(*) FROM giveaway_entries WHERE giveaway_id = ? AND email = ?`), giveawayID, email)
	require.NoError(t, err)
	return n
}
