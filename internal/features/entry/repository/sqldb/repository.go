package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/repository"
)

const entryColumns = `id, giveaway_id, giveaway_title, name, email, phone, shared, share_count, created_at`

const pqUniqueViolation = "23505"

type sqlRepository struct {
	db *sqlx.DB
}

// NewSQLRepository works on any sqlx pool whose driver sqlx can rebind for
// (postgres, sqlite).
func NewSQLRepository(db *sqlx.DB) repository.EntryRepository {
	return &sqlRepository{db: db}
}

// FindOne looks up an entry by giveaway_id and email
func (r *sqlRepository) FindOne(ctx context.Context, giveawayID, email string) (*models.Entry, error) {
	query := r.db.Rebind(`
		SELECT ` + entryColumns + `
		FROM ` + repository.TableName + `
		WHERE giveaway_id = ? AND email = ?
		LIMIT 1
	`)

	var entry models.Entry
	if err := r.db.GetContext(ctx, &entry, query, giveawayID, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}

	return &entry, nil
}

// Insert stores a new entry and assigns its ID.
func (r *sqlRepository) Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	stored := *entry
	stored.ID = uuid.New().String()

	query := `
		INSERT INTO ` + repository.TableName + ` (` + entryColumns + `)
		VALUES (:id, :giveaway_id, :giveaway_title, :name, :email, :phone, :shared, :share_count, :created_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, &stored); err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	return &stored, nil
}

func (r *sqlRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// isUniqueViolation recognizes a unique constraint an operator may have
// added on (giveaway_id, email).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return false
}
