package ethash

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/consensus"
)

// cacheKey is (seed, size) — get_cache_memoized's memoization key in
// ethereum/blocks.py.
type cacheKey struct {
	seed common.Hash
	size uint64
}

// Engine is a consensus.PoW implementation wrapping this package's
// mock hashimoto-light with an LRU-memoized cache store (spec.md §5,
// "get_cache_memoized is a global LRU (capacity 5)"; Design Note "Global
// mutable LRUs" — constructor-injected here rather than a bare global).
type Engine struct {
	cacheStore *lru.Cache[cacheKey, *cache]
}

var _ consensus.PoW = (*Engine)(nil)

// NewEngine constructs an Engine with its own 5-entry cache store.
func NewEngine() *Engine {
	store, err := lru.New[cacheKey, *cache](5)
	if err != nil {
		panic(err) // only fails for a non-positive size, which 5 is not
	}
	return &Engine{cacheStore: store}
}

// DefaultEngine is a package-level Engine for callers that don't need
// an isolated cache store — drop-in parity with the spec's module-level
// get_cache_memoized.
var DefaultEngine = NewEngine()

func (e *Engine) CacheSize(number uint64) uint64 { return CacheSize(number) }
func (e *Engine) FullSize(number uint64) uint64  { return FullSize(number) }

func (e *Engine) MkCache(size uint64, seed common.Hash) consensus.Cache {
	key := cacheKey{seed: seed, size: size}
	if c, ok := e.cacheStore.Get(key); ok {
		return c
	}
	c := mkCache(size, seed)
	e.cacheStore.Add(key, c)
	return c
}

func (e *Engine) HashimotoLight(fullSize uint64, c consensus.Cache, headerHash common.Hash, nonce [8]byte) (mixDigest, result common.Hash) {
	return hashimotoLight(fullSize, asCache(c), headerHash, nonce)
}
