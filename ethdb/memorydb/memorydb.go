// Package memorydb provides an in-memory ethdb.Database, the backing
// store used pervasively in this engine's tests and for mining/replay
// scratch state.
package memorydb

import (
	"sync"

	"github.com/subnatant/ethcore/ethdb"
)

// Database is a goroutine-safe, map-backed ethdb.Database. It never
// returns an error from Commit, matching the spec's note that only
// content-addressed trie writes matter and partial writes are harmless.
type Database struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty in-memory database.
func New() *Database {
	return &Database{data: make(map[string][]byte)}
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	v, ok := db.data[string(key)]
	if !ok {
		return nil, ethdb.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (db *Database) Put(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (db *Database) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.data[string(key)]
	return ok, nil
}

func (db *Database) Commit() error { return nil }

func (db *Database) Close() error { return nil }

// Len reports the number of keys currently stored, handy in tests that
// assert on orphaned-trie-node accumulation.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.data)
}
