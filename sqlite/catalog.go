package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/fwojciec/movielog"
)

// Compile-time interface verification.
var _ movielog.ArtifactStore = (*CatalogStore)(nil)

// CatalogStore implements movielog.ArtifactStore on top of SQLite.
// Each write replaces the stored catalog in a single transaction.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a new CatalogStore.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// WriteArtifact replaces the stored catalog with entries, keeping their order.
func (s *CatalogStore) WriteArtifact(ctx context.Context, entries []*movielog.Entry) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entry_tags"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return err
	}

	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO entries (id, position, title, published, national, cover_image,
				release_date, watch_date, score, summary, impression, body)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, i, e.Title, e.Published, e.National, e.CoverImage,
			formatTime(e.ReleaseDate), formatTime(e.WatchDate), formatScore(e.Score),
			e.Summary, e.Impression, e.Body)
		if err != nil {
			return fmt.Errorf("insert entry %q: %w", e.ID, err)
		}

		for j, tag := range e.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO entry_tags (entry_id, position, tag) VALUES (?, ?, ?)",
				e.ID, j, tag); err != nil {
				return fmt.Errorf("insert tag %q of entry %q: %w", tag, e.ID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO catalog_builds (id, built_at, entry_count) VALUES (1, ?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano), len(entries)); err != nil {
		return fmt.Errorf("record build: %w", err)
	}

	return tx.Commit()
}

// ReadArtifact returns the stored catalog in artifact order. A catalog built
// from no published entries is empty, not missing.
// Returns ENOTFOUND if no catalog has been written yet.
func (s *CatalogStore) ReadArtifact(ctx context.Context) ([]*movielog.Entry, error) {
	var builds int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_builds").Scan(&builds); err != nil {
		return nil, err
	}
	if builds == 0 {
		return nil, movielog.Errorf(movielog.ENOTFOUND, "catalog database has not been built")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, published, national, cover_image,
			release_date, watch_date, score, summary, impression, body
		FROM entries
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*movielog.Entry{}
	byID := make(map[string]*movielog.Entry)
	for rows.Next() {
		var e movielog.Entry
		var national, releaseDate, watchDate sql.NullString
		var score sql.NullFloat64

		if err := rows.Scan(&e.ID, &e.Title, &e.Published, &national, &e.CoverImage,
			&releaseDate, &watchDate, &score, &e.Summary, &e.Impression, &e.Body); err != nil {
			return nil, err
		}
		if e.ReleaseDate, err = parseTime(releaseDate, "release_date"); err != nil {
			return nil, err
		}
		if e.WatchDate, err = parseTime(watchDate, "watch_date"); err != nil {
			return nil, err
		}
		if national.Valid {
			e.National = &national.String
		}
		e.Score = parseScore(score)
		e.Tags = []string{}

		entries = append(entries, &e)
		byID[e.ID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.readTags(ctx, byID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *CatalogStore) readTags(ctx context.Context, byID map[string]*movielog.Entry) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT entry_id, tag FROM entry_tags ORDER BY entry_id, position ASC")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return err
		}
		if e, ok := byID[id]; ok {
			e.Tags = append(e.Tags, tag)
		}
	}
	return rows.Err()
}

// CountEntries returns the number of stored entries.
func (s *CatalogStore) CountEntries(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

// FindEntryIDsByTag returns the IDs of entries carrying tag, in artifact order.
func (s *CatalogStore) FindEntryIDsByTag(ctx context.Context, tag string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id FROM entries e
		WHERE EXISTS (SELECT 1 FROM entry_tags t WHERE t.entry_id = e.id AND t.tag = ?)
		ORDER BY e.position ASC
	`, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value sql.NullString, fieldName string) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	t = t.UTC()
	return &t, nil
}

// formatScore stores NaN as NULL.
func formatScore(s movielog.Score) any {
	if s.IsNaN() {
		return nil
	}
	return float64(s)
}

func parseScore(value sql.NullFloat64) movielog.Score {
	if !value.Valid {
		return movielog.Score(math.NaN())
	}
	return movielog.Score(value.Float64)
}
