// Package slog provides logging decorators for movielog services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/movielog"
)

// Ensure LoggingDocumentSource implements movielog.DocumentSource.
var _ movielog.DocumentSource = (*LoggingDocumentSource)(nil)

// LoggingDocumentSource wraps a DocumentSource with logging.
type LoggingDocumentSource struct {
	next   movielog.DocumentSource
	logger *slog.Logger
}

// NewLoggingDocumentSource creates a new LoggingDocumentSource.
func NewLoggingDocumentSource(next movielog.DocumentSource, logger *slog.Logger) *LoggingDocumentSource {
	return &LoggingDocumentSource{next: next, logger: logger}
}

// ListDocuments delegates to the wrapped source and logs the scan.
func (s *LoggingDocumentSource) ListDocuments(ctx context.Context) (docs []*movielog.RawDocument, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("source scan",
			"count", len(docs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListDocuments(ctx)
}
