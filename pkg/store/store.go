// Package store defines the permanent storage service: the history of the
// interactive parser and memoization statistics accumulated across runs.
package store

import (
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"src.cronus.dev/pkg/logutil"
	"src.cronus.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Names of buckets.
const (
	bucketCmd  = "cmd"
	bucketMemo = "memo"
)

// Functions that initialize buckets, keyed by description. They are
// registered by init functions of the files implementing each part of the
// store.
var initDB = map[string]func(*bolt.Tx) error{}

// DBStore is the permanent storage backend.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

func dbWithDefaultOptions(dbname string) (*bolt.DB, error) {
	return bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
}

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := dbWithDefaultOptions(dbname)
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")

	names := make([]string, 0, len(initDB))
	for name := range initDB {
		names = append(names, name)
	}
	sort.Strings(names)
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range names {
			if err := initDB[name](tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &dbStore{db}, nil
}

// Close closes the store.
func (s *dbStore) Close() error {
	return s.db.Close()
}
