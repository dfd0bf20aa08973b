package sqlite_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleEntries() []*movielog.Entry {
	national := "US"
	return []*movielog.Entry{
		{
			ID:          "heat",
			Title:       "Heat",
			Published:   true,
			Tags:        []string{"crime", "drama"},
			National:    &national,
			CoverImage:  "/covers/heat.jpg",
			ReleaseDate: date(1995, time.December, 15),
			WatchDate:   date(2024, time.March, 2),
			Score:       9,
			Summary:     "Cops and robbers.",
			Impression:  "Still holds up.",
			Body:        "The diner scene.",
		},
		{
			ID:        "ran",
			Title:     "Ran",
			Published: true,
			Tags:      []string{},
			Score:     8.5,
		},
	}
}

func TestCatalogStore_WriteArtifact(t *testing.T) {
	t.Parallel()

	t.Run("round trips entries in order", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.WriteArtifact(ctx, sampleEntries()))

		got, err := store.ReadArtifact(ctx)
		require.NoError(t, err)
		assert.Equal(t, sampleEntries(), got)
	})

	t.Run("replaces previous contents", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.WriteArtifact(ctx, sampleEntries()))
		require.NoError(t, store.WriteArtifact(ctx, sampleEntries()[1:]))

		n, err := store.CountEntries(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		ids, err := store.FindEntryIDsByTag(ctx, "crime")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("stores NaN scores as NULL", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		store := sqlite.NewCatalogStore(db)
		ctx := context.Background()

		entries := []*movielog.Entry{
			{ID: "x", Title: "X", Published: true, Tags: []string{}, Score: movielog.Score(math.NaN())},
		}
		require.NoError(t, store.WriteArtifact(ctx, entries))

		var nulls int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE score IS NULL").Scan(&nulls)
		require.NoError(t, err)
		assert.Equal(t, 1, nulls)

		got, err := store.ReadArtifact(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Score.IsNaN())
	})

	t.Run("rejects invalid entries without partial writes", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.WriteArtifact(ctx, sampleEntries()))

		err := store.WriteArtifact(ctx, []*movielog.Entry{
			{ID: "ok", Title: "OK", Tags: []string{}},
			{ID: "", Title: "Missing ID"},
		})
		assert.Equal(t, movielog.EINVALID, movielog.ErrorCode(err))

		got, err := store.ReadArtifact(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))

		err := store.WriteArtifact(context.Background(), []*movielog.Entry{
			{ID: "a", Title: "A"},
			{ID: "a", Title: "A again"},
		})
		require.Error(t, err)
	})
}

func TestCatalogStore_ReadArtifact(t *testing.T) {
	t.Parallel()

	t.Run("returns not found for an empty database", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))

		_, err := store.ReadArtifact(context.Background())

		assert.Equal(t, movielog.ENOTFOUND, movielog.ErrorCode(err))
	})

	t.Run("returns an empty catalog after a write with no entries", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.WriteArtifact(ctx, nil))

		got, err := store.ReadArtifact(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("returns an empty catalog after entries are replaced by none", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.WriteArtifact(ctx, sampleEntries()))
		require.NoError(t, store.WriteArtifact(ctx, []*movielog.Entry{}))

		got, err := store.ReadArtifact(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("keeps absent national as null", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewCatalogStore(setupTestDB(t))
		ctx := context.Background()

		require.NoError(t, store.WriteArtifact(ctx, []*movielog.Entry{{ID: "ran", Title: "Ran", Tags: []string{}}}))

		got, err := store.ReadArtifact(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].National)
	})
}

func TestCatalogStore_FindEntryIDsByTag(t *testing.T) {
	t.Parallel()

	store := sqlite.NewCatalogStore(setupTestDB(t))
	ctx := context.Background()

	entries := []*movielog.Entry{
		{ID: "c", Title: "C", Tags: []string{"noir"}},
		{ID: "a", Title: "A", Tags: []string{"comedy"}},
		{ID: "b", Title: "B", Tags: []string{"comedy", "noir"}},
	}
	require.NoError(t, store.WriteArtifact(ctx, entries))

	ids, err := store.FindEntryIDsByTag(ctx, "noir")
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b"}, ids)
}
