// Package etree renders the catalog artifact as an Atom feed.
package etree

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/movielog"
	"github.com/google/uuid"
)

// DefaultFeedLimit is the number of entries included when Limit is unset.
const DefaultFeedLimit = 20

const atomNS = "http://www.w3.org/2005/Atom"

// Compile-time interface verification.
var _ movielog.ArtifactWriter = (*FeedWriter)(nil)

// FeedWriter writes an Atom feed of the newest entries of an artifact.
// Output depends only on the entries, so rebuilding an unchanged catalog
// produces an identical feed.
type FeedWriter struct {
	Path   string
	Title  string
	Link   string
	Author string
	Limit  int
}

// NewFeedWriter creates a FeedWriter writing to path.
func NewFeedWriter(path string) *FeedWriter {
	return &FeedWriter{
		Path:  path,
		Title: "Movie log",
		Limit: DefaultFeedLimit,
	}
}

// WriteArtifact writes the feed for entries, replacing any previous file.
func (w *FeedWriter) WriteArtifact(ctx context.Context, entries []*movielog.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create feed directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create feed: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.Render(tmp, entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.Path); err != nil {
		return fmt.Errorf("replace feed: %w", err)
	}
	return nil
}

// Render writes the Atom document for entries to out.
func (w *FeedWriter) Render(out io.Writer, entries []*movielog.Entry) error {
	limit := w.Limit
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	feed := doc.CreateElement("feed")
	feed.CreateAttr("xmlns", atomNS)
	feed.CreateElement("title").SetText(w.Title)
	feed.CreateElement("id").SetText(w.feedID())
	feed.CreateElement("updated").SetText(formatUpdated(latestWatchDate(entries)))
	if w.Link != "" {
		link := feed.CreateElement("link")
		link.CreateAttr("href", w.Link)
		link.CreateAttr("rel", "alternate")
	}
	if w.Author != "" {
		feed.CreateElement("author").CreateElement("name").SetText(w.Author)
	}

	for _, e := range entries {
		w.appendEntry(feed, e)
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(out); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	return nil
}

func (w *FeedWriter) appendEntry(feed *etree.Element, e *movielog.Entry) {
	el := feed.CreateElement("entry")
	el.CreateElement("title").SetText(e.Title)
	el.CreateElement("id").SetText(w.entryID(e))
	el.CreateElement("updated").SetText(formatUpdated(e.WatchDate))
	if w.Link != "" {
		link := el.CreateElement("link")
		link.CreateAttr("href", strings.TrimSuffix(w.Link, "/")+"/"+e.ID)
	}
	for _, tag := range e.Tags {
		el.CreateElement("category").CreateAttr("term", tag)
	}

	summary := e.Summary
	if summary == "" {
		summary = fmt.Sprintf("Score: %s/10", e.Score)
	}
	el.CreateElement("summary").SetText(summary)
}

func (w *FeedWriter) feedID() string {
	if w.Link != "" {
		return w.Link
	}
	return "urn:movielog:feed"
}

// entryID derives a stable name-based UUID from the feed ID and entry ID.
func (w *FeedWriter) entryID(e *movielog.Entry) string {
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(w.feedID()+"#"+e.ID)).String()
}

func latestWatchDate(entries []*movielog.Entry) *time.Time {
	var latest *time.Time
	for _, e := range entries {
		if e.WatchDate != nil && (latest == nil || e.WatchDate.After(*latest)) {
			latest = e.WatchDate
		}
	}
	return latest
}

// formatUpdated formats an Atom timestamp; absent dates use the Unix epoch.
func formatUpdated(t *time.Time) string {
	if t == nil {
		return time.Unix(0, 0).UTC().Format(time.RFC3339)
	}
	return t.UTC().Format(time.RFC3339)
}
