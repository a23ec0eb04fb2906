// Package history implements the append-only observation log. History is
// write-once: snapshots are appended and never rewritten.
package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// FileStore keeps history as one JSON document per line in a single file.
// A missing file is empty history, not a failure.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed history store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// GetLast returns the most recently appended snapshot, or nil when no
// history has been recorded yet.
func (s *FileStore) GetLast(ctx context.Context) (*domain.ObservationSnapshot, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewPersistenceError("load", err)
	}
	defer f.Close()

	var last []byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		last = append(last[:0], line...)
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewPersistenceError("load", err)
	}
	if last == nil {
		return nil, nil
	}

	var snapshot domain.ObservationSnapshot
	if err := json.Unmarshal(last, &snapshot); err != nil {
		return nil, domain.NewPersistenceError("load", domain.ErrHistoryCorrupted)
	}
	return &snapshot, nil
}

// Append records a snapshot at the end of the log.
func (s *FileStore) Append(ctx context.Context, snapshot *domain.ObservationSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return domain.NewPersistenceError("append", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return domain.NewPersistenceError("append", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return domain.NewPersistenceError("append", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return domain.NewPersistenceError("append", err)
	}
	if err := f.Sync(); err != nil {
		return domain.NewPersistenceError("append", err)
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
