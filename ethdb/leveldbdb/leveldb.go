// Package leveldbdb provides a persistent ethdb.Database backed by
// goleveldb, the durable option for the engine's authenticated KV store
// (spec.md §6). Grounded on the long-standing go-ethereum ethdb package
// and present in the teacher's go.mod.
package leveldbdb

import (
	"github.com/syndtr/goleveldb/leveldb"
	gerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/subnatant/ethcore/ethdb"
)

// Database wraps a goleveldb handle opened at a filesystem path.
type Database struct {
	db *leveldb.DB
}

// New opens (creating if necessary) a leveldb database at path.
func New(path string) (*Database, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (d *Database) Get(key []byte) ([]byte, error) {
	v, err := d.db.Get(key, nil)
	if err == gerrors.ErrNotFound {
		return nil, ethdb.ErrNotFound
	}
	return v, err
}

func (d *Database) Put(key, value []byte) error {
	return d.db.Put(key, value, nil)
}

func (d *Database) Has(key []byte) (bool, error) {
	return d.db.Has(key, nil)
}

// Commit compacts the database's entire key range. goleveldb persists
// each Put as it is made, so no separate flush is performed here.
func (d *Database) Commit() error {
	return d.db.CompactRange(util.Range{})
}

func (d *Database) Close() error {
	return d.db.Close()
}
