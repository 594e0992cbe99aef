package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/repository"
)

// entryRepository keeps each entry as JSON under giveaway_entries:<id>. Every
// giveaway has one index hash giveaway_entries:idx:<giveaway_id> mapping email
// to entry id, so no (giveaway_id, email) pair can share a key with another.
type entryRepository struct {
	client redis.Cmdable
	prefix string
}

func NewEntryRepository(client redis.Cmdable, keyPrefix string) repository.EntryRepository {
	return &entryRepository{
		client: client,
		prefix: keyPrefix,
	}
}

func (r *entryRepository) keyByID(id string) string {
	return fmt.Sprintf("%s%s:%s", r.prefix, repository.TableName, id)
}

func (r *entryRepository) keyIndex(giveawayID string) string {
	return fmt.Sprintf("%s%s:idx:%s", r.prefix, repository.TableName, giveawayID)
}

func (r *entryRepository) FindOne(ctx context.Context, giveawayID, email string) (*models.Entry, error) {
	id, err := r.client.HGet(ctx, r.keyIndex(giveawayID), email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry index: %w", err)
	}

	data, err := r.client.Get(ctx, r.keyByID(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// index written but entry missing: a failed insert, treat as absent
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var entry models.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", id, err)
	}
	return &entry, nil
}

// Insert claims the email in the giveaway's index with HSETNX first, so two
// inserts of the same (giveaway_id, email) cannot both succeed.
func (r *entryRepository) Insert(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	stored := *entry
	stored.ID = uuid.New().String()

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entry: %w", err)
	}

	idxKey := r.keyIndex(stored.GiveawayID)
	ok, err := r.client.HSetNX(ctx, idxKey, stored.Email, stored.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim entry index: %w", err)
	}
	if !ok {
		return nil, repository.ErrDuplicateEntry
	}

	if err := r.client.Set(ctx, r.keyByID(stored.ID), data, 0).Err(); err != nil {
		// release the claim so a retry by the caller can succeed
		_ = r.client.HDel(context.WithoutCancel(ctx), idxKey, stored.Email).Err()
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}

	return &stored, nil
}

func (r *entryRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
