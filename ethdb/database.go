// Package ethdb defines the authenticated key-value store interface
// consumed by the engine (spec.md §6) and the persisted-key layout
// (content-addressed trie nodes, code blobs, validation/difficulty
// sentinels) shared by every implementation.
package ethdb

import "errors"

// ErrNotFound is returned by Get when key is absent.
var ErrNotFound = errors.New("ethdb: key not found")

// Database is the narrow authenticated KV store interface the engine
// consumes. Implementations must support arbitrary byte keys and values.
type Database interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Has(key []byte) (bool, error)
	// Commit durably persists any buffered writes. Implementations that
	// write straight through (e.g. memorydb) may treat this as a no-op.
	Commit() error
	// Close releases any underlying resources (file handles, etc).
	Close() error
}

// Key prefixes for the non-trie-node entries the engine writes directly,
// per spec.md §6 "Persisted state layout". BlockPrefix is an addition
// beyond spec.md's literal text: the ancestor chain and uncle validation
// (§4.6) need a way to fetch a header and its uncle set by hash, so
// core persists them under their own namespace the same way go-ethereum's
// own historical header/body prefixes worked — a hash-keyed lookup, not
// a content-addressed one (the stored bytes need not hash back to the
// key, unlike a trie node).
var (
	ValidatedPrefix  = []byte("validated:")
	DifficultyPrefix = []byte("difficulty:")
	BlockPrefix      = []byte("block:")
)

// ValidatedKey builds the "validated:"||hash sentinel key.
func ValidatedKey(hash []byte) []byte {
	return append(append([]byte(nil), ValidatedPrefix...), hash...)
}

// DifficultyKey builds the "difficulty:"||hex(hash) sentinel key.
func DifficultyKey(hexHash string) []byte {
	return append(append([]byte(nil), DifficultyPrefix...), []byte(hexHash)...)
}

// BlockKey builds the "block:"||hash key under which a block's header
// and uncle headers are stored for later retrieval by hash.
func BlockKey(hash []byte) []byte {
	return append(append([]byte(nil), BlockPrefix...), hash...)
}
