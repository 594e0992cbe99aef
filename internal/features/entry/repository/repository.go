package repository

import (
	"context"
	"errors"

	"giveaway-entry-backend/internal/features/entry/models"
)

// TableName is the logical table (or key namespace) entries live in.
const TableName = "giveaway_entries"

var (
	ErrNotFound = errors.New("entry not found")
	// ErrDuplicateEntry is returned by Insert when the store itself enforces
	// uniqueness of (giveaway_id, email) and the pair already exists.
	ErrDuplicateEntry = errors.New("entry already exists for giveaway and email")
)

type EntryRepository interface {
	// FindOne returns the first entry matching giveawayID and email exactly,
	// or ErrNotFound.
	FindOne(ctx context.Context, giveawayID, email string) (*models.Entry, error)
	// Insert stores entry and returns it with the store-assigned ID.
	Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	Ping(ctx context.Context) error
}
