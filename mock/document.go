package mock

import (
	"context"

	"github.com/fwojciec/movielog"
)

var _ movielog.DocumentSource = (*DocumentSource)(nil)

// DocumentSource is a mock implementation of movielog.DocumentSource.
type DocumentSource struct {
	ListDocumentsFn func(ctx context.Context) ([]*movielog.RawDocument, error)
}

func (s *DocumentSource) ListDocuments(ctx context.Context) ([]*movielog.RawDocument, error) {
	return s.ListDocumentsFn(ctx)
}

var _ movielog.DocumentParser = (*DocumentParser)(nil)

// DocumentParser is a mock implementation of movielog.DocumentParser.
type DocumentParser struct {
	ParseDocumentFn func(raw *movielog.RawDocument) (*movielog.Document, error)
}

func (p *DocumentParser) ParseDocument(raw *movielog.RawDocument) (*movielog.Document, error) {
	return p.ParseDocumentFn(raw)
}
