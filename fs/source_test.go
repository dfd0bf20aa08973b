package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/movielog/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestPathToSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "the-thing", fs.PathToSlug("movies/the-thing.md"))
	assert.Equal(t, "alien", fs.PathToSlug("alien.md"))
	assert.Equal(t, "2001.a.space.odyssey", fs.PathToSlug("2001.a.space.odyssey.md"))
}

func TestDocumentSource_ListDocuments(t *testing.T) {
	t.Parallel()

	t.Run("reads markdown files in name order", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "zodiac.md"), "z")
		writeFile(t, filepath.Join(dir, "alien.md"), "a")
		writeFile(t, filepath.Join(dir, "heat.md"), "h")

		docs, err := fs.NewDocumentSource(dir).ListDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "alien", docs[0].Slug)
		assert.Equal(t, "heat", docs[1].Slug)
		assert.Equal(t, "zodiac", docs[2].Slug)
		assert.Equal(t, filepath.Join(dir, "alien.md"), docs[0].Path)
		assert.Equal(t, "a", string(docs[0].Content))
	})

	t.Run("skips other files and subdirectories", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "alien.md"), "a")
		writeFile(t, filepath.Join(dir, "notes.txt"), "n")
		writeFile(t, filepath.Join(dir, "drafts", "heat.md"), "h")

		docs, err := fs.NewDocumentSource(dir).ListDocuments(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "alien", docs[0].Slug)
	})

	t.Run("returns empty list for empty directory", func(t *testing.T) {
		t.Parallel()

		docs, err := fs.NewDocumentSource(t.TempDir()).ListDocuments(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewDocumentSource(filepath.Join(t.TempDir(), "missing")).ListDocuments(context.Background())

		require.Error(t, err)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "alien.md"), "a")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fs.NewDocumentSource(dir).ListDocuments(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})
}
