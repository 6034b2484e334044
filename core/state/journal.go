package state

import (
	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
)

// journalEntry is one reversible step of Cache mutation. Design Note
// "Cache polymorphism" (spec.md §9): a discriminated sum type per
// account-field partition, rather than string-keyed dispatch, so Revert
// is a single LIFO walk calling undo.
type journalEntry interface {
	undo(c *Cache)
}

type balanceEntry struct {
	addr    common.Address
	prev    *uint256.Int
	hadPrev bool
}

func (e balanceEntry) undo(c *Cache) {
	if e.hadPrev {
		c.balances[e.addr] = e.prev
	} else {
		delete(c.balances, e.addr)
	}
}

type nonceEntry struct {
	addr    common.Address
	prev    *uint256.Int
	hadPrev bool
}

func (e nonceEntry) undo(c *Cache) {
	if e.hadPrev {
		c.nonces[e.addr] = e.prev
	} else {
		delete(c.nonces, e.addr)
	}
}

type codeEntry struct {
	addr    common.Address
	prev    []byte
	hadPrev bool
}

func (e codeEntry) undo(c *Cache) {
	if e.hadPrev {
		c.codes[e.addr] = e.prev
	} else {
		delete(c.codes, e.addr)
	}
}

type storageRootEntry struct {
	addr    common.Address
	prev    common.Hash
	hadPrev bool
}

func (e storageRootEntry) undo(c *Cache) {
	if e.hadPrev {
		c.storageRoots[e.addr] = e.prev
	} else {
		delete(c.storageRoots, e.addr)
	}
}

type storageEntry struct {
	addr    common.Address
	index   uint256.Int
	prev    *uint256.Int
	hadPrev bool
}

func (e storageEntry) undo(c *Cache) {
	m := c.storages[e.addr]
	if e.hadPrev {
		m[e.index] = e.prev
	} else {
		delete(m, e.index)
	}
}

// touchedEntry is journaled only the first time an address is touched,
// so Revert removes it from the touched set exactly when the mutation
// that first touched it is undone.
type touchedEntry struct {
	addr common.Address
}

func (e touchedEntry) undo(c *Cache) {
	delete(c.touched, e.addr)
}
