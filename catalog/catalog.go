// Package catalog builds the catalog artifact from source documents.
// It coordinates document listing, front-matter parsing, defaulting,
// publish filtering, ordering and artifact output.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/movielog"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the parse parallelism used when Builder.Concurrency
// is not set.
const DefaultConcurrency = 8

// Builder compiles source documents into the catalog artifact.
type Builder struct {
	Source   movielog.DocumentSource
	Parser   movielog.DocumentParser
	Artifact movielog.ArtifactWriter

	// Exports receive the same entries after the artifact is written.
	Exports []movielog.ArtifactWriter

	Concurrency int
}

// Result holds the outcome of a build.
type Result struct {
	Scanned   int
	Published int
	Excluded  int
	Digest    string
}

// Compile produces the ordered artifact entries without writing anything.
// Any document that fails to parse aborts the whole compilation.
func (b *Builder) Compile(ctx context.Context) ([]*movielog.Entry, *Result, error) {
	raws, err := b.Source.ListDocuments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list documents: %w", err)
	}

	docs, err := b.parseAll(ctx, raws)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{Scanned: len(raws)}
	entries := make([]*movielog.Entry, 0, len(docs))
	seen := make(map[string]string, len(docs))

	for i, doc := range docs {
		if doc.Excluded() {
			result.Excluded++
			continue
		}

		entry := doc.Entry()
		if err := entry.Validate(); err != nil {
			return nil, nil, documentError(raws[i].Path, err)
		}
		if prev, ok := seen[entry.ID]; ok {
			return nil, nil, movielog.Errorf(movielog.ECONFLICT, "duplicate entry ID %q in %s and %s", entry.ID, prev, raws[i].Path)
		}
		seen[entry.ID] = raws[i].Path

		entries = append(entries, entry)
	}

	movielog.SortArtifact(entries)

	result.Published = len(entries)
	result.Digest, err = Digest(entries)
	if err != nil {
		return nil, nil, err
	}

	return entries, result, nil
}

// Build compiles the artifact and writes it, then writes every export.
// Nothing is written unless compilation succeeds.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	entries, result, err := b.Compile(ctx)
	if err != nil {
		return nil, err
	}

	if err := b.Artifact.WriteArtifact(ctx, entries); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	for _, export := range b.Exports {
		if err := export.WriteArtifact(ctx, entries); err != nil {
			return nil, fmt.Errorf("write export: %w", err)
		}
	}

	return result, nil
}

// parseAll parses documents concurrently, preserving input order.
// The first failure cancels the remaining work.
func (b *Builder) parseAll(ctx context.Context, raws []*movielog.RawDocument) ([]*movielog.Document, error) {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	docs := make([]*movielog.Document, len(raws))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, raw := range raws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := b.Parser.ParseDocument(raw)
			if err != nil {
				return documentError(raw.Path, err)
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}

// documentError prefixes err with the document path. Application errors
// keep their code so callers still see EINVALID.
func documentError(path string, err error) error {
	var appErr *movielog.Error
	if errors.As(err, &appErr) {
		return movielog.Errorf(appErr.Code, "%s: %s", path, appErr.Message)
	}
	return fmt.Errorf("parse %s: %w", path, err)
}

// Digest returns the xxhash of the encoded artifact as a hex string.
func Digest(entries []*movielog.Entry) (string, error) {
	data, err := movielog.EncodeArtifact(entries)
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}
	return DigestBytes(data), nil
}

// DigestBytes returns the xxhash of raw artifact bytes as a hex string.
func DigestBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
