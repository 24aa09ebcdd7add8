package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"welcome/pkg/domain"
	platformsync "welcome/pkg/platform/sync"
)

// WriteFunc persists a full snapshot to path.
type WriteFunc func(path string, data []byte) error

// FileStore keeps every card in memory and rewrites a JSON snapshot on each
// merge. The snapshot is replaced with a rename, so a crash leaves either
// the old file or the new one.
type FileStore struct {
	path  string
	keys  *platformsync.ShardedMutex
	write WriteFunc

	// writeMu serializes snapshot rewrites; mu guards cards.
	writeMu sync.Mutex
	mu      sync.RWMutex
	cards   map[domain.AttendeeKey]domain.Card
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithWriteFunc replaces the snapshot writer. Tests use it to inject
// durability failures.
func WithWriteFunc(fn WriteFunc) FileOption {
	return func(s *FileStore) {
		if fn != nil {
			s.write = fn
		}
	}
}

// NewFile loads the snapshot at path. A missing file is an empty store; an
// unreadable or corrupt one is an error.
func NewFile(path string, opts ...FileOption) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		keys:  platformsync.NewShardedMutex(),
		write: WriteFileAtomic,
		cards: make(map[domain.AttendeeKey]domain.Card),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cards snapshot: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.cards); err != nil {
		return nil, fmt.Errorf("decode cards snapshot %s: %w", path, err)
	}
	for k, c := range s.cards {
		if c == nil {
			s.cards[k] = domain.Card{}
		}
	}
	return s, nil
}

// Get returns a copy of the committed card for key.
func (s *FileStore) Get(_ context.Context, key domain.AttendeeKey) (domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cards[key].Clone(), nil
}

// Merge applies updates under the key's lock, persists the new snapshot and
// only then makes the card visible to readers.
func (s *FileStore) Merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer s.keys.Lock(key.String())()

	current, _ := s.Get(ctx, key)
	merged := current.Merge(updates)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := maps.Clone(s.cards)
	s.mu.RUnlock()
	if next == nil {
		next = make(map[domain.AttendeeKey]domain.Card, 1)
	}
	next[key] = merged

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode cards snapshot: %w", err)
	}
	if err := s.write(s.path, data); err != nil {
		return nil, fmt.Errorf("write cards snapshot: %w", err)
	}

	s.mu.Lock()
	s.cards[key] = merged
	s.mu.Unlock()

	return merged.Clone(), nil
}

// Len returns the number of known attendees.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// Health reports whether the snapshot directory is still writable.
func (s *FileStore) Health(context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cards directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cards directory %s is not a directory", dir)
	}
	return nil
}

// WriteFileAtomic writes data to a temp file beside path, syncs it and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming snapshot to %s: %w", path, err)
	}

	success = true
	return nil
}

var _ Store = (*FileStore)(nil)
