package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store persists job records.
type Store interface {
	Save(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	// List returns the most recent jobs first.
	List(ctx context.Context, limit int) ([]*Job, error)
	Close() error
}

var jobPrefix = []byte("job/")

// BadgerStore keeps job records in an embedded badger database. Job ids
// are time-ordered, so key order is creation order.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens or creates a store in dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemoryStore opens a store that is discarded on Close.
func OpenInMemoryStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func jobKey(id string) []byte {
	return append(append([]byte{}, jobPrefix...), id...)
}

// Save writes job, replacing any record with the same id.
func (s *BadgerStore) Save(ctx context.Context, job *Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(jobKey(job.ID), data)
	})
}

// Get returns the job with id, or ErrJobNotFound.
func (s *BadgerStore) Get(ctx context.Context, id string) (*Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var job Job
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &job)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job %s: %w", id, err)
	}
	return &job, nil
}

// List returns up to limit jobs, newest first. A non-positive limit
// returns every job.
func (s *BadgerStore) List(ctx context.Context, limit int) ([]*Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*Job
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = jobPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, jobPrefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(jobPrefix); it.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var job Job
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &job)
			}); err != nil {
				return err
			}
			out = append(out, &job)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return out, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
