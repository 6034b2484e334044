// Package state implements the per-block write-through account-state
// cache and its journal (spec.md §4.5): a scratchpad over the state
// trie that lets a transaction's mutations be applied speculatively and
// either committed or reverted in O(1) relative to the journal's length.
package state

import (
	"bytes"
	"sort"

	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core/types"
	"github.com/subnatant/ethcore/ethdb"
	"github.com/subnatant/ethcore/rlp"
	"github.com/subnatant/ethcore/trie"
)

// Cache is the journaled account-state scratchpad for a single Block.
// It is partitioned per spec.md §4.5: one field cache per account
// attribute, one storage cache per touched address, and a touched-
// address set for deterministic commit ordering and existence tests.
type Cache struct {
	db   ethdb.Database
	trie *trie.SecureTrie

	balances     map[common.Address]*uint256.Int
	nonces       map[common.Address]*uint256.Int
	codes        map[common.Address][]byte
	storageRoots map[common.Address]common.Hash
	storages     map[common.Address]map[uint256.Int]*uint256.Int
	touched      map[common.Address]bool

	journal []journalEntry
}

// New opens a Cache backed by the account trie rooted at root.
func New(db ethdb.Database, root common.Hash) (*Cache, error) {
	t, err := trie.NewSecure(db, root)
	if err != nil {
		return nil, err
	}
	return &Cache{
		db:           db,
		trie:         t,
		balances:     make(map[common.Address]*uint256.Int),
		nonces:       make(map[common.Address]*uint256.Int),
		codes:        make(map[common.Address][]byte),
		storageRoots: make(map[common.Address]common.Hash),
		storages:     make(map[common.Address]map[uint256.Int]*uint256.Int),
		touched:      make(map[common.Address]bool),
	}, nil
}

// StateRoot is the underlying account trie's current root hash. It does
// not reflect pending, uncommitted cache mutations — only CommitState
// flushes those into the trie.
func (c *Cache) StateRoot() common.Hash { return c.trie.RootHash() }

// StateRootValid reports whether the account trie's root is backed by a
// node actually present in the database.
func (c *Cache) StateRootValid() bool { return c.trie.RootHashValid() }

// SetRoot reopens the underlying account trie at root, discarding any
// view of the trie the cache was holding (but not its in-flight field
// caches or journal). Used by core.Block.Revert to roll the committed
// state root back to an earlier snapshot when the executor committed
// mid-transaction (spec.md §4.5 "revert... resets... the state trie root
// to the snapshot").
func (c *Cache) SetRoot(root common.Hash) error {
	t, err := trie.NewSecure(c.db, root)
	if err != nil {
		return err
	}
	c.trie = t
	return nil
}

// Touched reports whether addr has any cached mutation.
func (c *Cache) Touched(addr common.Address) bool { return c.touched[addr] }

func (c *Cache) touch(addr common.Address) {
	if c.touched[addr] {
		return
	}
	c.touched[addr] = true
	c.journal = append(c.journal, touchedEntry{addr: addr})
}

func (c *Cache) loadAccount(addr common.Address) (*types.Account, error) {
	raw, err := c.trie.Get(addr.Bytes())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return types.BlankAccount(), nil
	}
	acct := &types.Account{}
	if err := rlp.DecodeBytes(raw, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// --- balance -------------------------------------------------------------

// GetBalance returns addr's cached balance, loading and caching it from
// the trie on first access (spec.md §4.5 get_field).
func (c *Cache) GetBalance(addr common.Address) (*uint256.Int, error) {
	if v, ok := c.balances[addr]; ok {
		return v, nil
	}
	acct, err := c.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	c.balances[addr] = acct.Balance
	return acct.Balance, nil
}

// SetBalance journals and updates addr's cached balance, a no-op if the
// new value equals the current one (spec.md §4.5 set_field).
func (c *Cache) SetBalance(addr common.Address, v *uint256.Int) error {
	cur, err := c.GetBalance(addr)
	if err != nil {
		return err
	}
	if cur.Cmp(v) == 0 {
		return nil
	}
	prev, hadPrev := c.balances[addr]
	c.journal = append(c.journal, balanceEntry{addr: addr, prev: prev, hadPrev: hadPrev})
	c.balances[addr] = v
	c.touch(addr)
	return nil
}

// Delta applies a signed change to addr's balance. Only ever invoked on
// the balance field in practice (ethereum/blocks.py's transfer_value is
// its sole caller), so unlike the spec's generic "delta(addr, field, δ)"
// this is balance-specific. Returns false without mutation if the
// result would be negative; otherwise the new balance wraps mod 2^256
// and Delta returns true (spec.md §4.5, §8 boundary behavior).
func (c *Cache) Delta(addr common.Address, magnitude *uint256.Int, negative bool) (bool, error) {
	cur, err := c.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if negative {
		if magnitude.Cmp(cur) > 0 {
			return false, nil
		}
		next := new(uint256.Int).Sub(cur, magnitude)
		return true, c.SetBalance(addr, next)
	}
	next := new(uint256.Int).Add(cur, magnitude)
	return true, c.SetBalance(addr, next)
}

// --- nonce -----------------------------------------------------------------

func (c *Cache) GetNonce(addr common.Address) (*uint256.Int, error) {
	if v, ok := c.nonces[addr]; ok {
		return v, nil
	}
	acct, err := c.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	c.nonces[addr] = acct.Nonce
	return acct.Nonce, nil
}

func (c *Cache) SetNonce(addr common.Address, v *uint256.Int) error {
	cur, err := c.GetNonce(addr)
	if err != nil {
		return err
	}
	if cur.Cmp(v) == 0 {
		return nil
	}
	prev, hadPrev := c.nonces[addr]
	c.journal = append(c.journal, nonceEntry{addr: addr, prev: prev, hadPrev: hadPrev})
	c.nonces[addr] = v
	c.touch(addr)
	return nil
}

// --- code ------------------------------------------------------------------

func (c *Cache) GetCode(addr common.Address) ([]byte, error) {
	if v, ok := c.codes[addr]; ok {
		return v, nil
	}
	acct, err := c.loadAccount(addr)
	if err != nil {
		return nil, err
	}
	code, err := acct.Code(c.db)
	if err != nil {
		return nil, err
	}
	c.codes[addr] = code
	return code, nil
}

func (c *Cache) SetCode(addr common.Address, code []byte) error {
	cur, err := c.GetCode(addr)
	if err != nil {
		return err
	}
	if bytes.Equal(cur, code) {
		return nil
	}
	prev, hadPrev := c.codes[addr]
	c.journal = append(c.journal, codeEntry{addr: addr, prev: prev, hadPrev: hadPrev})
	c.codes[addr] = code
	c.touch(addr)
	return nil
}

// --- storage root ------------------------------------------------------------

func (c *Cache) GetStorageRoot(addr common.Address) (common.Hash, error) {
	if v, ok := c.storageRoots[addr]; ok {
		return v, nil
	}
	acct, err := c.loadAccount(addr)
	if err != nil {
		return common.Hash{}, err
	}
	c.storageRoots[addr] = acct.StorageRoot
	return acct.StorageRoot, nil
}

func (c *Cache) SetStorageRoot(addr common.Address, root common.Hash) error {
	cur, err := c.GetStorageRoot(addr)
	if err != nil {
		return err
	}
	if cur == root {
		return nil
	}
	prev, hadPrev := c.storageRoots[addr]
	c.journal = append(c.journal, storageRootEntry{addr: addr, prev: prev, hadPrev: hadPrev})
	c.storageRoots[addr] = root
	c.touch(addr)
	return nil
}

// --- storage -----------------------------------------------------------------

// GetStorage returns addr's value at index, loading it from the
// account's storage sub-trie on a cache miss; an absent slot is 0.
func (c *Cache) GetStorage(addr common.Address, index uint256.Int) (*uint256.Int, error) {
	if m, ok := c.storages[addr]; ok {
		if v, ok := m[index]; ok {
			return v, nil
		}
	}
	root, err := c.GetStorageRoot(addr)
	if err != nil {
		return nil, err
	}
	st, err := trie.NewSecure(c.db, root)
	if err != nil {
		return nil, err
	}
	key := index.Bytes32()
	raw, err := st.Get(key[:])
	if err != nil {
		return nil, err
	}
	v := new(uint256.Int)
	if raw != nil {
		if err := rlp.DecodeBytes(raw, v); err != nil {
			return nil, err
		}
	}
	if c.storages[addr] == nil {
		c.storages[addr] = make(map[uint256.Int]*uint256.Int)
	}
	c.storages[addr][index] = v
	return v, nil
}

// SetStorage journals addr's value at index in its storage namespace,
// creating that namespace lazily and marking addr touched.
func (c *Cache) SetStorage(addr common.Address, index uint256.Int, value *uint256.Int) error {
	cur, err := c.GetStorage(addr, index)
	if err != nil {
		return err
	}
	if cur.Cmp(value) == 0 {
		return nil
	}
	if c.storages[addr] == nil {
		c.storages[addr] = make(map[uint256.Int]*uint256.Int)
	}
	prev, hadPrev := c.storages[addr][index]
	c.journal = append(c.journal, storageEntry{addr: addr, index: index, prev: prev, hadPrev: hadPrev})
	c.storages[addr][index] = value
	c.touch(addr)
	return nil
}

// ResetStorage sets addr's storage_root to the trie's canonical empty
// root and zeroes every slot already cached for addr (spec.md §9 open
// question 3: the empty root is trie.EmptyRoot, not a raw empty byte
// string). Slots not yet warmed into the cache need no explicit zeroing
// — they become unreachable the moment storage_root points at the empty
// trie, and the content-addressed store tolerates the orphaned nodes.
func (c *Cache) ResetStorage(addr common.Address) error {
	if err := c.SetStorageRoot(addr, trie.EmptyRoot); err != nil {
		return err
	}
	for index := range c.storages[addr] {
		if err := c.SetStorage(addr, index, new(uint256.Int)); err != nil {
			return err
		}
	}
	return nil
}

// --- snapshot / revert -------------------------------------------------------

// Snapshot returns the current journal length. core.Block composes its
// own snapshot (tx trie roots, suicide/log counters, gas accounting)
// around this value; Cache itself owns only the field/storage journal
// (spec.md §4.5, §9 Design Note "Cyclic references" keeps the two
// concerns from needing a shared mutable struct).
func (c *Cache) Snapshot() int {
	return len(c.journal)
}

// Revert undoes every journal entry back to snap, in LIFO order
// (spec.md invariant 7).
func (c *Cache) Revert(snap int) {
	for i := len(c.journal) - 1; i >= snap; i-- {
		c.journal[i].undo(c)
	}
	c.journal = c.journal[:snap]
}

// CommitState flushes every touched address's cached fields and storage
// slots into the state trie, in ascending address order for
// deterministic change-log output (spec.md §4.5). A no-op if the
// journal is empty (spec.md invariant 8, idempotence).
func (c *Cache) CommitState() error {
	if len(c.journal) == 0 {
		return nil
	}

	addrs := make([]common.Address, 0, len(c.touched))
	for a := range c.touched {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Less(addrs[j]) })

	for _, addr := range addrs {
		acct, err := c.loadAccount(addr)
		if err != nil {
			return err
		}
		if v, ok := c.balances[addr]; ok {
			acct.Balance = v
		}
		if v, ok := c.nonces[addr]; ok {
			acct.Nonce = v
		}
		if code, ok := c.codes[addr]; ok {
			if err := acct.SetCode(c.db, code); err != nil {
				return err
			}
		}
		if root, ok := c.storageRoots[addr]; ok {
			acct.StorageRoot = root
		}

		if slots := c.storages[addr]; len(slots) > 0 {
			st, err := trie.NewSecure(c.db, acct.StorageRoot)
			if err != nil {
				return err
			}
			indices := make([]uint256.Int, 0, len(slots))
			for index := range slots {
				indices = append(indices, index)
			}
			sort.Slice(indices, func(i, j int) bool { return indices[i].Cmp(&indices[j]) < 0 })
			for _, index := range indices {
				v := slots[index]
				key := index.Bytes32()
				if v.IsZero() {
					if err := st.Delete(key[:]); err != nil {
						return err
					}
				} else {
					enc, err := rlp.EncodeToBytes(*v)
					if err != nil {
						return err
					}
					if err := st.Update(key[:], enc); err != nil {
						return err
					}
				}
			}
			acct.StorageRoot = st.RootHash()
		}

		enc, err := rlp.EncodeToBytes(*acct)
		if err != nil {
			return err
		}
		if err := c.trie.Update(addr.Bytes(), enc); err != nil {
			return err
		}
	}

	c.balances = make(map[common.Address]*uint256.Int)
	c.nonces = make(map[common.Address]*uint256.Int)
	c.codes = make(map[common.Address][]byte)
	c.storageRoots = make(map[common.Address]common.Hash)
	c.storages = make(map[common.Address]map[uint256.Int]*uint256.Int)
	c.touched = make(map[common.Address]bool)
	c.journal = nil
	return nil
}
