package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/movielog"
)

var (
	_ movielog.ArtifactWriter = (*LoggingArtifactWriter)(nil)
	_ movielog.ArtifactReader = (*LoggingArtifactReader)(nil)
)

// LoggingArtifactWriter wraps an ArtifactWriter with logging.
// Target names the destination in log records, e.g. "artifact" or "feed".
type LoggingArtifactWriter struct {
	next   movielog.ArtifactWriter
	target string
	logger *slog.Logger
}

// NewLoggingArtifactWriter creates a new LoggingArtifactWriter.
func NewLoggingArtifactWriter(next movielog.ArtifactWriter, target string, logger *slog.Logger) *LoggingArtifactWriter {
	return &LoggingArtifactWriter{next: next, target: target, logger: logger}
}

// WriteArtifact delegates to the wrapped writer and logs the write.
func (w *LoggingArtifactWriter) WriteArtifact(ctx context.Context, entries []*movielog.Entry) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("artifact write",
			"target", w.target,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteArtifact(ctx, entries)
}

// LoggingArtifactReader wraps an ArtifactReader with logging.
type LoggingArtifactReader struct {
	next   movielog.ArtifactReader
	logger *slog.Logger
}

// NewLoggingArtifactReader creates a new LoggingArtifactReader.
func NewLoggingArtifactReader(next movielog.ArtifactReader, logger *slog.Logger) *LoggingArtifactReader {
	return &LoggingArtifactReader{next: next, logger: logger}
}

// ReadArtifact delegates to the wrapped reader and logs the read.
func (r *LoggingArtifactReader) ReadArtifact(ctx context.Context) (entries []*movielog.Entry, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("artifact read",
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadArtifact(ctx)
}
