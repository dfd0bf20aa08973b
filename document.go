package movielog

import (
	"context"
	"time"
)

// RawDocument is a source file as read from the source directory,
// before its front matter has been parsed.
type RawDocument struct {
	Slug    string
	Path    string
	Content []byte
}

// Document represents a parsed source document: front-matter metadata
// plus the remaining markdown body.
type Document struct {
	Slug     string
	Metadata Metadata
	Body     string
}

// Metadata holds front-matter values. Pointer and empty values mean the key
// was absent; defaults are applied by Document.Entry.
type Metadata struct {
	Title       *string
	Published   *bool
	Tags        []string
	National    string
	CoverImage  string
	ReleaseDate *time.Time
	WatchDate   *time.Time
	Score       *Score
	Summary     string
	Impression  string
}

// Excluded reports whether the document is explicitly unpublished.
// Excluded documents never reach the artifact.
func (d *Document) Excluded() bool {
	return d.Metadata.Published != nil && !*d.Metadata.Published
}

// Entry builds the catalog entry for the document, applying field defaults.
func (d *Document) Entry() *Entry {
	m := d.Metadata

	e := &Entry{
		ID:         d.Slug,
		Title:      DefaultTitle,
		Published:  true,
		Tags:       []string{},
		CoverImage: m.CoverImage,
		Summary:    m.Summary,
		Impression: m.Impression,
		Body:       d.Body,
	}
	if m.Title != nil && *m.Title != "" {
		e.Title = *m.Title
	}
	if m.Published != nil {
		e.Published = *m.Published
	}
	if len(m.Tags) > 0 {
		e.Tags = append(e.Tags, m.Tags...)
	}
	if m.National != "" {
		national := m.National
		e.National = &national
	}
	if m.Score != nil {
		e.Score = *m.Score
	}
	if m.ReleaseDate != nil {
		t := m.ReleaseDate.UTC()
		e.ReleaseDate = &t
	}
	if m.WatchDate != nil {
		t := m.WatchDate.UTC()
		e.WatchDate = &t
	}
	return e
}

// DocumentSource lists the raw documents of a source directory.
// Documents are returned in a stable scan order.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]*RawDocument, error)
}

// DocumentParser splits a raw document into metadata and body.
// Returns EINVALID if the document is malformed.
type DocumentParser interface {
	ParseDocument(raw *RawDocument) (*Document, error)
}
