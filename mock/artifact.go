package mock

import (
	"context"

	"github.com/fwojciec/movielog"
)

var _ movielog.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore is a mock implementation of movielog.ArtifactStore.
// It also satisfies movielog.ArtifactReader and movielog.ArtifactWriter.
type ArtifactStore struct {
	ReadArtifactFn  func(ctx context.Context) ([]*movielog.Entry, error)
	WriteArtifactFn func(ctx context.Context, entries []*movielog.Entry) error
}

func (s *ArtifactStore) ReadArtifact(ctx context.Context) ([]*movielog.Entry, error) {
	return s.ReadArtifactFn(ctx)
}

func (s *ArtifactStore) WriteArtifact(ctx context.Context, entries []*movielog.Entry) error {
	return s.WriteArtifactFn(ctx, entries)
}
