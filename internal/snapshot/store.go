package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"

	"github.com/02loveslollipop/Shizuku-riverflow-map/internal/markerfeed"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("snapshot not found")

const keyPrefix = "feed/"

// Snapshot is a feed document as it was last fetched.
type Snapshot struct {
	Key       string              `json:"key"`
	FetchedAt time.Time           `json:"fetchedAt"`
	Document  markerfeed.Document `json:"document"`
}

// Feed rebuilds and validates the feed held by the snapshot.
func (s *Snapshot) Feed() (*markerfeed.Feed, error) {
	return markerfeed.FromDocument(s.Document)
}

// Store keeps the latest feed per key in a badger database.
type Store struct {
	db *badger.DB
}

// Open opens (creating if needed) a store under dir.
func Open(dir string) (*Store, error) {
	opts := storeOptions(dir)
	opts.NumVersionsToKeep = 1
	opts.CompactL0OnClose = true
	return open(opts)
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	return open(storeOptions("").WithInMemory(true))
}

// storeOptions sends badger's own logging through logrus.
func storeOptions(dir string) badger.Options {
	return badger.DefaultOptions(dir).WithLogger(log.WithField("component", "badger"))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func storageKey(key string) []byte {
	return []byte(keyPrefix + strings.ToLower(strings.TrimSpace(key)))
}

// Put replaces the snapshot stored under key.
func (s *Store) Put(ctx context.Context, key string, feed *markerfeed.Feed, fetchedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(Snapshot{
		Key:       key,
		FetchedAt: fetchedAt.UTC(),
		Document:  feed.Document(),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}
	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey(key), data)
	})
	if err != nil {
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	log.WithFields(log.Fields{"key": key, "markers": feed.Len(), "took": time.Since(start)}).Debug("snapshot written")
	return nil
}

// Get returns the snapshot stored under key or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	return &snap, nil
}

// Delete removes the snapshot under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storageKey(key))
	})
}

// Keys lists the stored snapshot keys in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	return keys, err
}
