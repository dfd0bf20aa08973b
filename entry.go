package movielog

import (
	"context"
	"time"
)

// DefaultTitle is used for entries whose front matter has no title.
const DefaultTitle = "Untitled"

// Entry represents one published movie record in the catalog artifact.
// Entries are built once and never modified afterwards.
type Entry struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Published   bool       `json:"published"`
	Tags        []string   `json:"tags"`
	National    *string    `json:"national"`
	CoverImage  string     `json:"coverImage"`
	ReleaseDate *time.Time `json:"releaseDate"`
	WatchDate   *time.Time `json:"watchDate"`
	Score       Score      `json:"score"`
	Summary     string     `json:"summary"`
	Impression  string     `json:"impression"`
	Body        string     `json:"body"`
}

// HasTag reports whether the entry carries the given tag.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return Errorf(EINVALID, "entry ID required")
	}
	if e.Title == "" {
		return Errorf(EINVALID, "entry %q title required", e.ID)
	}
	return nil
}

// ArtifactWriter persists a complete catalog artifact.
// Implementations replace any previous artifact wholesale.
type ArtifactWriter interface {
	WriteArtifact(ctx context.Context, entries []*Entry) error
}

// ArtifactReader loads a previously written catalog artifact.
// Returns ENOTFOUND if no artifact exists.
type ArtifactReader interface {
	ReadArtifact(ctx context.Context) ([]*Entry, error)
}

// ArtifactStore reads and writes the catalog artifact.
type ArtifactStore interface {
	ArtifactReader
	ArtifactWriter
}

// EntryRenderer renders the detail view of a single entry.
// Rank is 1-3 for ranked entries and 0 otherwise.
type EntryRenderer interface {
	RenderEntry(entry *Entry, rank int) (string, error)
}
