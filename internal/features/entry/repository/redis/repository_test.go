package redis_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/repository"
	entryredis "giveaway-entry-backend/internal/features/entry/repository/redis"
)

const testPrefix = "test:"

// newTestClient runs against an in-process server, or against REDIS_ADDR
// when it is set.
func newTestClient(t *testing.T) (*goredis.Client, string) {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	prefix := testPrefix
	if addr == "" {
		addr = miniredis.RunT(t).Addr()
	} else {
		prefix = testPrefix + uuid.NewString() + ":"
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			_ = client.Del(ctx, keys...).Err()
		}
		_ = client.Close()
	})

	return client, prefix
}

func newTestRepository(t *testing.T) (repository.EntryRepository, *goredis.Client, string) {
	t.Helper()
	client, prefix := newTestClient(t)
	return entryredis.NewEntryRepository(client, prefix), client, prefix
}

func newEntry(giveawayID, email string) *models.Entry {
	return &models.Entry{
		GiveawayID: giveawayID,
		Name:       "Jo",
		Email:      email,
		Phone:      "5551234567",
		ShareCount: 2,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestInsertAndFindOne(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, newEntry("g1", "jo@x.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	found, err := repo.FindOne(ctx, "g1", "jo@x.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)
	assert.Equal(t, "g1", found.GiveawayID)
	assert.Equal(t, 2, found.ShareCount)
	assert.True(t, stored.CreatedAt.Equal(found.CreatedAt))
}

func TestInsert_KeyLayout(t *testing.T) {
	repo, client, prefix := newTestRepository(t)
	ctx := context.Background()

	stored, err := repo.Insert(ctx, newEntry("g1", "jo@x.com"))
	require.NoError(t, err)

	id, err := client.HGet(ctx, prefix+"giveaway_entries:idx:g1", "jo@x.com").Result()
	require.NoError(t, err)
	assert.Equal(t, stored.ID, id)

	exists, err := client.Exists(ctx, prefix+"giveaway_entries:"+stored.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestFindOne_NotFound(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	_, err := repo.FindOne(context.Background(), "g1", "nobody@x.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindOne_IndexWithoutEntry(t *testing.T) {
	repo, client, prefix := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, client.HSet(ctx, prefix+"giveaway_entries:idx:g1", "jo@x.com", "missing-id").Err())

	_, err := repo.FindOne(ctx, "g1", "jo@x.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInsert_Duplicate(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, newEntry("g1", "jo@x.com"))
	require.NoError(t, err)

	_, err = repo.Insert(ctx, newEntry("g1", "jo@x.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)

	_, err = repo.Insert(ctx, newEntry("g2", "jo@x.com"))
	assert.NoError(t, err)
}

func TestColonsInKeysDoNotCollide(t *testing.T) {
	repo, _, _ := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Insert(ctx, newEntry("a:b", "c@d.ee"))
	require.NoError(t, err)

	_, err = repo.FindOne(ctx, "a", "b:c@d.ee")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	second, err := repo.Insert(ctx, newEntry("a", "b:c@d.ee"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	found, err := repo.FindOne(ctx, "a:b", "c@d.ee")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	found, err = repo.FindOne(ctx, "a", "b:c@d.ee")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)
	assert.Equal(t, "a", found.GiveawayID)
}

// failingSet breaks only SET so the index claim succeeds first.
type failingSet struct {
	goredis.Cmdable
}

func (f failingSet) Set(ctx context.Context, key string, _ interface{}, _ time.Duration) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx, "set", key)
	cmd.SetErr(errors.New("OOM command not allowed"))
	return cmd
}

func TestInsert_ReleasesClaimWhenStoreFails(t *testing.T) {
	client, prefix := newTestClient(t)
	ctx := context.Background()

	broken := entryredis.NewEntryRepository(failingSet{Cmdable: client}, prefix)
	_, err := broken.Insert(ctx, newEntry("g1", "jo@x.com"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateEntry)

	exists, err := client.HExists(ctx, prefix+"giveaway_entries:idx:g1", "jo@x.com").Result()
	require.NoError(t, err)
	assert.False(t, exists)

	repo := entryredis.NewEntryRepository(client, prefix)
	_, err = repo.Insert(ctx, newEntry("g1", "jo@x.com"))
	assert.NoError(t, err)
}

func TestPing(t *testing.T) {
	repo, _, _ := newTestRepository(t)

	assert.NoError(t, repo.Ping(context.Background()))
}
