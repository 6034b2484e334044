// Package consensus defines the narrow interfaces and parent-relative
// arithmetic rules the block engine consumes from the PoW subsystem
// (spec.md §6, §4.6): the hashimoto-light PoW check, gas-limit
// adjustment, and block/uncle reward computation. It deliberately
// carries no dependency on core/types so that core/types.Header can, in
// turn, depend on consensus.PoW without a cycle.
package consensus

import "github.com/subnatant/ethcore/common"

// Cache is the opaque ethash memoization cache handed back by
// PoW.MkCache and passed into HashimotoLight. Its concrete shape is
// owned entirely by the PoW implementation.
type Cache interface{}

// PoW is the proof-of-work engine consumed by core/types.Header.CheckPoW
// and core.NewBlock's post-construction checks.
type PoW interface {
	CacheSize(number uint64) uint64
	FullSize(number uint64) uint64
	MkCache(size uint64, seed common.Hash) Cache
	HashimotoLight(fullSize uint64, cache Cache, headerHash common.Hash, nonce [8]byte) (mixDigest, result common.Hash)
}
