package history

import (
	"context"
	"encoding/json"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

const snapshotPrefix = "snapshot:"

// snapshotKeyFormat is fixed width: nanoseconds are zero-padded, never
// trimmed, so lexicographic key order equals timestamp order.
const snapshotKeyFormat = "2006-01-02T15:04:05.000000000Z"

// BadgerStore keeps history in a BadgerDB directory. Snapshot keys embed the
// observation timestamp so the latest snapshot is the last key in order.
type BadgerStore struct {
	db *badger.DB
}

// BadgerOptions contains options for creating a BadgerStore
type BadgerOptions struct {
	Directory string
	InMemory  bool
	Logger    bool
}

// NewBadgerStore opens (or creates) a Badger-backed history store.
func NewBadgerStore(opts BadgerOptions) (*BadgerStore, error) {
	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, domain.NewPersistenceError("load", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, domain.NewPersistenceError("load", err)
	}
	return &BadgerStore{db: db}, nil
}

// GetLast returns the most recently appended snapshot, or nil when the
// store is empty.
func (s *BadgerStore) GetLast(ctx context.Context) (*domain.ObservationSnapshot, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Reverse = true
		itOpts.Prefix = []byte(snapshotPrefix)
		it := txn.NewIterator(itOpts)
		defer it.Close()

		// Seek past the last possible snapshot key, then step back.
		it.Seek([]byte(snapshotPrefix + "\xff"))
		if !it.Valid() {
			return badger.ErrKeyNotFound
		}

		var err error
		value, err = it.Item().ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewPersistenceError("load", err)
	}

	var snapshot domain.ObservationSnapshot
	if err := json.Unmarshal(value, &snapshot); err != nil {
		return nil, domain.NewPersistenceError("load", domain.ErrHistoryCorrupted)
	}
	return &snapshot, nil
}

// Append records a snapshot under a timestamp-ordered key.
func (s *BadgerStore) Append(ctx context.Context, snapshot *domain.ObservationSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return domain.NewPersistenceError("append", err)
	}

	key := snapshotPrefix + snapshot.Timestamp.UTC().Format(snapshotKeyFormat)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return domain.NewPersistenceError("append", err)
	}
	return nil
}

// Close releases store resources.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
