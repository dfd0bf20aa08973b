// Package fs provides file-based storage for source documents and the
// catalog artifact.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/movielog"
)

// DocumentExt is the extension of source documents.
const DocumentExt = ".md"

// Ensure DocumentSource implements movielog.DocumentSource at compile time.
var _ movielog.DocumentSource = (*DocumentSource)(nil)

// DocumentSource reads markdown documents from a single directory.
// Subdirectories are not scanned.
type DocumentSource struct {
	dir string
}

// NewDocumentSource creates a DocumentSource rooted at dir.
func NewDocumentSource(dir string) *DocumentSource {
	return &DocumentSource{dir: dir}
}

// Dir returns the scanned directory.
func (s *DocumentSource) Dir() string {
	return s.dir
}

// PathToSlug converts a document file name to its entry ID.
// Example: movies/the-thing.md → the-thing
func PathToSlug(path string) string {
	return strings.TrimSuffix(filepath.Base(path), DocumentExt)
}

// ListDocuments reads every *.md file in the directory, ordered by file name.
func (s *DocumentSource) ListDocuments(ctx context.Context) ([]*movielog.RawDocument, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var docs []*movielog.RawDocument
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != DocumentExt {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		docs = append(docs, &movielog.RawDocument{
			Slug:    PathToSlug(path),
			Path:    path,
			Content: content,
		})
	}

	return docs, nil
}
