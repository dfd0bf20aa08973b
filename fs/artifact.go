package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/movielog"
	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a blocked writer retries the artifact lock.
const lockRetryDelay = 100 * time.Millisecond

// Ensure ArtifactStore implements movielog.ArtifactStore at compile time.
var _ movielog.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore implements movielog.ArtifactStore with a single JSON file.
// Writes go to a temporary file in the same directory and are renamed into
// place, so readers never see a partial artifact. Concurrent writers are
// serialized by an advisory lock on path + ".lock".
type ArtifactStore struct {
	path string
}

// NewArtifactStore creates a new ArtifactStore for the file at path.
func NewArtifactStore(path string) *ArtifactStore {
	return &ArtifactStore{path: path}
}

// Path returns the artifact file path.
func (s *ArtifactStore) Path() string {
	return s.path
}

func (s *ArtifactStore) lockPath() string {
	return s.path + ".lock"
}

// WriteArtifact encodes entries and atomically replaces the artifact file.
func (s *ArtifactStore) WriteArtifact(ctx context.Context, entries []*movielog.Entry) error {
	data, err := movielog.EncodeArtifact(entries)
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	lock := flock.New(s.lockPath())
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock artifact: %w", err)
	}
	if !ok {
		return movielog.Errorf(movielog.ECONFLICT, "artifact %s is locked by another build", s.path)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadArtifact loads and decodes the artifact file.
// Returns ENOTFOUND if the file does not exist.
func (s *ArtifactStore) ReadArtifact(ctx context.Context) ([]*movielog.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, movielog.Errorf(movielog.ENOTFOUND, "artifact %s not found; run 'movielog build' first", s.path)
	}
	if err != nil {
		return nil, err
	}
	return movielog.DecodeArtifact(data)
}

// ReadRaw returns the artifact file bytes as stored.
// Returns ENOTFOUND if the file does not exist.
func (s *ArtifactStore) ReadRaw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, movielog.Errorf(movielog.ENOTFOUND, "artifact %s not found; run 'movielog build' first", s.path)
	}
	return data, err
}
