package main_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/movielog"
	"github.com/fwojciec/movielog/bubbletea"
	main "github.com/fwojciec/movielog/cmd/movielog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDocs = map[string]string{
	"heat.md": `---
title: Heat
tags: [crime, drama]
national: US
release_date: 1995-12-15
watch_date: 2024-03-02
point: 9
summary: Cops and robbers.
---
The diner scene.
`,
	"ran.md": `---
title: Ran
tags: [drama, war]
watch_date: 2023-07-09
point: 8.5
---
`,
	"draft.md": `---
title: Draft
published: false
---
Not ready.
`,
	"undated.md": `---
title: Mystery Film
point: 6
---
`,
}

// fixture is a source directory, artifact path and config file in a temp dir.
type fixture struct {
	dir    string
	src    string
	out    string
	config string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		src:    filepath.Join(dir, "movies"),
		out:    filepath.Join(dir, "public", "movies.json"),
		config: filepath.Join(dir, "movielog.toml"),
	}
	require.NoError(t, os.MkdirAll(f.src, 0o755))
	for name, content := range sampleDocs {
		f.writeDoc(t, name, content)
	}

	config := fmt.Sprintf("[paths]\nsource_dir = %q\nartifact = %q\n\n[render]\nstyle = \"notty\"\n", f.src, f.out)
	require.NoError(t, os.WriteFile(f.config, []byte(config), 0o644))
	return f
}

func (f fixture) writeDoc(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.src, name), []byte(content), 0o644))
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return f.runMain(t, main.NewMain(), args...)
}

func (f fixture) runMain(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), append([]string{"--config", f.config}, args...), stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func (f fixture) build(t *testing.T) {
	t.Helper()
	_, stderr, err := f.run(t, "build")
	require.NoError(t, err, stderr)
}

func readArtifact(t *testing.T, path string) []*movielog.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entries, err := movielog.DecodeArtifact(data)
	require.NoError(t, err)
	return entries
}

func entryIDs(entries []*movielog.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns error without a command", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, io.Discard)

		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Usage: movielog")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, io.Discard)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "build")
		assert.Contains(t, stdout.String(), "browse")
	})

	t.Run("rejects an invalid config file", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		require.NoError(t, os.WriteFile(f.config, []byte("[build]\nconcurrency = -1\n"), 0o644))

		_, stderr, err := f.run(t, "build")

		assert.Equal(t, movielog.EINVALID, movielog.ErrorCode(err))
		assert.Contains(t, stderr, "error:")
	})
}

func TestBuildCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes published entries in watch date order", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		stdout, _, err := f.run(t, "build")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Built 3 entries from 4 documents (1 unpublished)")
		entries := readArtifact(t, f.out)
		assert.Equal(t, []string{"heat", "ran", "undated"}, entryIDs(entries))
		assert.Equal(t, []string{"crime", "drama"}, entries[0].Tags)
		assert.Equal(t, "The diner scene.\n", entries[0].Body)
	})

	t.Run("produces identical bytes on rebuild", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		f.build(t)
		first, err := os.ReadFile(f.out)
		require.NoError(t, err)

		f.build(t)
		second, err := os.ReadFile(f.out)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
	})

	t.Run("writes database and feed exports", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		dbPath := filepath.Join(f.dir, "movies.db")
		feedPath := filepath.Join(f.dir, "public", "feed.xml")

		_, stderr, err := f.run(t, "build", "--db", dbPath, "--feed", feedPath)
		require.NoError(t, err, stderr)

		feed, err := os.ReadFile(feedPath)
		require.NoError(t, err)
		assert.Contains(t, string(feed), "<title>Heat</title>")

		stdout, stderr, err := f.run(t, "list", "--db", dbPath)
		require.NoError(t, err, stderr)
		assert.Contains(t, stdout, "Mystery Film")
	})

	t.Run("lists an all-unpublished catalog the same from both stores", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		src := filepath.Join(f.dir, "drafts")
		require.NoError(t, os.MkdirAll(src, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(src, "wip.md"),
			[]byte("---\ntitle: Wip\npublished: false\nwatch_date: TBD\n---\n"), 0o644))
		dbPath := filepath.Join(f.dir, "movies.db")

		_, stderr, err := f.run(t, "build", "--src", src, "--db", dbPath)
		require.NoError(t, err, stderr)

		fromJSON, stderr, err := f.run(t, "list")
		require.NoError(t, err, stderr)
		fromDB, stderr, err := f.run(t, "list", "--db", dbPath)
		require.NoError(t, err, stderr)

		assert.Contains(t, fromJSON, "No entries match.")
		assert.Equal(t, fromJSON, fromDB)
	})

	t.Run("aborts on a malformed document without writing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDoc(t, "broken.md", "---\ntitle: Broken\n")

		_, stderr, err := f.run(t, "build")

		assert.Equal(t, movielog.EINVALID, movielog.ErrorCode(err))
		assert.Contains(t, stderr, "broken.md")
		_, statErr := os.Stat(f.out)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("overrides config paths with flags", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		out := filepath.Join(f.dir, "elsewhere.json")

		_, stderr, err := f.run(t, "build", "--out", out)
		require.NoError(t, err, stderr)

		assert.Len(t, readArtifact(t, out), 3)
		_, statErr := os.Stat(f.out)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestVerifyCmd(t *testing.T) {
	t.Parallel()

	t.Run("accepts an up to date artifact", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		stdout, _, err := f.run(t, "verify")

		require.NoError(t, err)
		assert.Contains(t, stdout, "up to date (3 entries)")
	})

	t.Run("reports a stale artifact", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)
		f.writeDoc(t, "new.md", "---\ntitle: New\n---\n")

		_, stderr, err := f.run(t, "verify")

		assert.Equal(t, movielog.ECONFLICT, movielog.ErrorCode(err))
		assert.Contains(t, stderr, "stale")
	})

	t.Run("reports a missing artifact", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, stderr, err := f.run(t, "verify")

		assert.Equal(t, movielog.ENOTFOUND, movielog.ErrorCode(err))
		assert.Contains(t, stderr, "movielog build")
	})
}

func TestListCmd(t *testing.T) {
	t.Parallel()

	t.Run("filters by tag and sorts by score", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		stdout, _, err := f.run(t, "list", "--tag", "drama", "--sort", "point_asc")
		require.NoError(t, err)

		assert.NotContains(t, stdout, "Mystery Film")
		ranIdx := strings.Index(stdout, " ran ")
		heatIdx := strings.Index(stdout, " heat ")
		require.True(t, ranIdx >= 0 && heatIdx >= 0)
		assert.Less(t, ranIdx, heatIdx)
		assert.Contains(t, stdout, "#1")
		assert.Contains(t, stdout, "March 2, 2024")
	})

	t.Run("searches titles case-insensitively", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		stdout, _, err := f.run(t, "list", "--search", "MYSTERY")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Mystery Film")
		assert.NotContains(t, stdout, "Heat")
	})

	t.Run("reports no matches", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		stdout, _, err := f.run(t, "list", "--search", "zzz")
		require.NoError(t, err)

		assert.Contains(t, stdout, "No entries match.")
	})

	t.Run("rejects unknown sort keys", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		_, _, err := f.run(t, "list", "--sort", "title")

		require.Error(t, err)
	})

	t.Run("requires a built artifact", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		_, _, err := f.run(t, "list")

		assert.Equal(t, movielog.ENOTFOUND, movielog.ErrorCode(err))
	})
}

func TestTagsCmd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.build(t)

	stdout, _, err := f.run(t, "tags")
	require.NoError(t, err)

	for _, tag := range []string{"crime", "drama", "war"} {
		assert.Contains(t, stdout, tag)
	}
	assert.Less(t, strings.Index(stdout, "crime"), strings.Index(stdout, "war"))
}

func TestShowCmd(t *testing.T) {
	t.Parallel()

	t.Run("renders the entry", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		stdout, _, err := f.run(t, "show", "heat")
		require.NoError(t, err)

		assert.Contains(t, stdout, "Heat")
		assert.Contains(t, stdout, "Score: 9/10")
		assert.Contains(t, stdout, "December 15, 1995")
		assert.Contains(t, stdout, "Cops and robbers.")
	})

	t.Run("returns not found for unknown IDs", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.build(t)

		_, stderr, err := f.run(t, "show", "draft")

		assert.Equal(t, movielog.ENOTFOUND, movielog.ErrorCode(err))
		assert.Contains(t, stderr, "error:")
	})
}

func TestBrowseCmd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.build(t)

	var got tea.Model
	m := main.NewMain()
	m.RunProgram = func(ctx context.Context, model tea.Model, stdout io.Writer) error {
		got = model
		return nil
	}

	_, stderr, err := f.runMain(t, m, "browse")
	require.NoError(t, err, stderr)

	model, ok := got.(bubbletea.Model)
	require.True(t, ok)
	assert.Equal(t, []string{"heat", "ran", "undated"}, entryIDs(model.Session().Entries()))
}

func TestWatchCmd(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stdout := &bytes.Buffer{}
	done := make(chan error, 1)
	go func() {
		args := []string{"--config", f.config, "watch"}
		done <- main.NewMain().Run(ctx, args, stdout, io.Discard)
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(f.out)
		return err == nil
	}, 10*time.Second, 20*time.Millisecond)

	// Rewritten each attempt in case the watch started after an earlier write.
	require.Eventually(t, func() bool {
		f.writeDoc(t, "new.md", "---\ntitle: Fresh\nwatch_date: 2025-01-01\n---\n")
		data, err := os.ReadFile(f.out)
		return err == nil && strings.Contains(string(data), "Fresh")
	}, 10*time.Second, 500*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}

	assert.Equal(t, "new", readArtifact(t, f.out)[0].ID)
	assert.Contains(t, stdout.String(), "Built 4 entries")
}
