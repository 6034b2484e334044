package core

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core/state"
	"github.com/subnatant/ethcore/core/types"
	"github.com/subnatant/ethcore/ethdb"
)

// CachedBlock wraps a block reconstructed from the DB by hash alone: a
// read-only view over its header and account state (spec.md §4.7).
// Every state-mutating operation returns ErrImmutable rather than ever
// touching the underlying cache or trie.
type CachedBlock struct {
	header *types.Header
	cache  *state.Cache
	hash   *common.Hash
}

func newCachedBlock(db ethdb.Database, header *types.Header) (*CachedBlock, error) {
	cache, err := state.New(db, header.StateRoot)
	if err != nil {
		return nil, err
	}
	return &CachedBlock{header: header, cache: cache}, nil
}

// Header returns the wrapped block's header.
func (cb *CachedBlock) Header() types.Header { return *cb.header }

// Hash is memoized on first computation (spec.md §4.7).
func (cb *CachedBlock) Hash() common.Hash {
	if cb.hash == nil {
		h := cb.header.Hash()
		cb.hash = &h
	}
	return *cb.hash
}

func (cb *CachedBlock) GetBalance(addr common.Address) (*uint256.Int, error) {
	return cb.cache.GetBalance(addr)
}
func (cb *CachedBlock) GetNonce(addr common.Address) (*uint256.Int, error) {
	return cb.cache.GetNonce(addr)
}
func (cb *CachedBlock) GetCode(addr common.Address) ([]byte, error) { return cb.cache.GetCode(addr) }
func (cb *CachedBlock) GetStorageRoot(addr common.Address) (common.Hash, error) {
	return cb.cache.GetStorageRoot(addr)
}
func (cb *CachedBlock) GetStorage(addr common.Address, index uint256.Int) (*uint256.Int, error) {
	return cb.cache.GetStorage(addr, index)
}

// SetBalance, SetNonce, SetCode, SetStorageRoot, SetStorage, ResetStorage,
// Revert, CommitState, and SetStateRoot are all disabled on a
// CachedBlock (spec.md §4.7): "operations that would mutate state ...
// are disabled".
func (cb *CachedBlock) SetBalance(common.Address, *uint256.Int) error        { return ErrImmutable }
func (cb *CachedBlock) SetNonce(common.Address, *uint256.Int) error          { return ErrImmutable }
func (cb *CachedBlock) SetCode(common.Address, []byte) error                { return ErrImmutable }
func (cb *CachedBlock) SetStorageRoot(common.Address, common.Hash) error     { return ErrImmutable }
func (cb *CachedBlock) SetStorage(common.Address, uint256.Int, *uint256.Int) error {
	return ErrImmutable
}
func (cb *CachedBlock) ResetStorage(common.Address) error { return ErrImmutable }
func (cb *CachedBlock) Revert(int) error                  { return ErrImmutable }
func (cb *CachedBlock) CommitState() error                { return ErrImmutable }
func (cb *CachedBlock) SetStateRoot(common.Hash) error     { return ErrImmutable }

// BlockCache is a bounded, explicit (non-global-by-default) memoization
// of CachedBlock by hash (spec.md §5 "get_block is a global LRU capacity
// 500"; Design Note "Global mutable LRUs" — constructor-injected here).
type BlockCache struct {
	entries *lru.Cache[common.Hash, *CachedBlock]
}

// NewBlockCache constructs a BlockCache with the spec's fixed capacity.
func NewBlockCache() *BlockCache {
	c, err := lru.New[common.Hash, *CachedBlock](500)
	if err != nil {
		panic(err) // only fails for a non-positive size, which 500 is not
	}
	return &BlockCache{entries: c}
}

// GetBlock returns the CachedBlock for hash, loading and caching it from
// db on a miss.
func (bc *BlockCache) GetBlock(db ethdb.Database, hash common.Hash) (*CachedBlock, error) {
	if cb, ok := bc.entries.Get(hash); ok {
		return cb, nil
	}
	header, err := LoadHeader(db, hash)
	if err != nil {
		return nil, err
	}
	cb, err := newCachedBlock(db, header)
	if err != nil {
		return nil, err
	}
	bc.entries.Add(hash, cb)
	return cb, nil
}

// DefaultBlockCache is a package-level BlockCache for drop-in parity
// with the spec's module-level get_block.
var DefaultBlockCache = NewBlockCache()

// GetBlock fetches hash from DefaultBlockCache.
func GetBlock(db ethdb.Database, hash common.Hash) (*CachedBlock, error) {
	return DefaultBlockCache.GetBlock(db, hash)
}
