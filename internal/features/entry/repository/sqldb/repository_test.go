package sqldb_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-entry-backend/internal/features/entry/models"
	"giveaway-entry-backend/internal/features/entry/repository"
	"giveaway-entry-backend/internal/testutil"
)

func TestInsert_AssignsID(t *testing.T) {
	_, repo := testutil.NewTestRepository(t)
	ctx := context.Background()
	title := "Spring Giveaway"
	createdAt := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	stored, err := repo.Insert(ctx, &models.Entry{
		GiveawayID:    "g1",
		GiveawayTitle: &title,
		Name:          "Jo",
		Email:         "jo@x.com",
		Phone:         "5551234567",
		Shared:        true,
		ShareCount:    3,
		CreatedAt:     createdAt,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	found, err := repo.FindOne(ctx, "g1", "jo@x.com")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)
	assert.Equal(t, "Jo", found.Name)
	assert.Equal(t, "5551234567", found.Phone)
	require.NotNil(t, found.GiveawayTitle)
	assert.Equal(t, title, *found.GiveawayTitle)
	assert.True(t, found.Shared)
	assert.Equal(t, 3, found.ShareCount)
	assert.True(t, createdAt.Equal(found.CreatedAt), "created_at %v", found.CreatedAt)
}

func TestInsert_DoesNotMutateInput(t *testing.T) {
	_, repo := testutil.NewTestRepository(t)

	in := &models.Entry{GiveawayID: "g1", Name: "Jo", Email: "jo@x.com", Phone: "5551234567", CreatedAt: time.Now().UTC()}
	stored, err := repo.Insert(context.Background(), in)

	require.NoError(t, err)
	assert.Empty(t, in.ID)
	assert.NotEqual(t, in, stored)
}

func TestInsert_NullTitle(t *testing.T) {
	_, repo := testutil.NewTestRepository(t)
	testutil.NewTestEntry(t, repo, "g1", "jo@x.com")

	found, err := repo.FindOne(context.Background(), "g1", "jo@x.com")

	require.NoError(t, err)
	assert.Nil(t, found.GiveawayTitle)
	assert.False(t, found.Shared)
	assert.Zero(t, found.ShareCount)
}

func TestFindOne_NotFound(t *testing.T) {
	_, repo := testutil.NewTestRepository(t)

	_, err := repo.FindOne(context.Background(), "g1", "nobody@x.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindOne_ScopedToGiveaway(t *testing.T) {
	_, repo := testutil.NewTestRepository(t)
	testutil.NewTestEntry(t, repo, "g1", "jo@x.com")

	_, err := repo.FindOne(context.Background(), "g2", "jo@x.com")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindOne_CaseSensitive(t *testing.T) {
	_, repo := testutil.NewTestRepository(t)
	testutil.NewTestEntry(t, repo, "g1", "jo@x.com")

	_, err := repo.FindOne(context.Background(), "g1", "JO@X.COM")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFindOne_MultipleRows(t *testing.T) {
	conn, repo := testutil.NewTestRepository(t)
	testutil.NewTestEntry(t, repo, "g1", "jo@x.com")
	testutil.NewTestEntry(t, repo, "g1", "jo@x.com")

	found, err := repo.FindOne(context.Background(), "g1", "jo@x.com")

	require.NoError(t, err)
	assert.NotEmpty(t, found.ID)
	assert.Equal(t, 2, testutil.CountEntries(t, conn, "g1", "jo@x.com"))
}

func TestInsert_UniqueConstraintIsDuplicate(t *testing.T) {
	conn, repo := testutil.NewTestRepository(t)
	_, err := conn.Exec(`CREATE UNIQUE INDEX uq_giveaway_entries ON giveaway_entries (giveaway_id, email)`)
	require.NoError(t, err)
	testutil.NewTestEntry(t, repo, "g1", "jo@x.com")

	_, err = repo.Insert(context.Background(), &models.Entry{
		GiveawayID: "g1", Name: "Jo", Email: "jo@x.com", Phone: "5551234567", CreatedAt: time.Now().UTC(),
	})

	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestPing(t *testing.T) {
	conn, repo := testutil.NewTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	require.NoError(t, conn.Close())
	assert.Error(t, repo.Ping(ctx))
}
