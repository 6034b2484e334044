package ethash

import (
	"encoding/binary"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/consensus"
	"github.com/subnatant/ethcore/crypto"
)

const mixRounds = 64

// hashimotoLight computes the mock PoW digest pair for (fullSize, cache,
// headerHash, nonce). It is a deterministic keccak mix over the cache's
// hash-chain, indexed by a running digest — not the real hashimoto
// algorithm (which walks a full dataset derived from cache), but it
// satisfies the same contract: identical inputs always produce the same
// (mixDigest, result), and changing headerHash or nonce changes both.
// fullSize only affects the output when the cache's item count does not
// divide fullSize/32; at epoch 0, where both counts are powers of two,
// fullSize has no effect on the output.
func hashimotoLight(fullSize uint64, c *cache, headerHash common.Hash, nonce [8]byte) (mixDigest, result common.Hash) {
	numCacheItems := len(c.items)
	numFullItems := int(fullSize / hashBytes)
	if numFullItems < 1 {
		numFullItems = 1
	}

	mix := crypto.Keccak256(headerHash[:], nonce[:])
	for i := 0; i < mixRounds; i++ {
		fullIdx := int(binary.BigEndian.Uint64(mix[:8])) % numFullItems
		cacheIdx := fullIdx % numCacheItems
		if cacheIdx < 0 {
			cacheIdx += numCacheItems
		}
		mix = crypto.Keccak256(mix[:], c.items[cacheIdx][:])
	}
	mixDigest = mix
	result = crypto.Keccak256(headerHash[:], nonce[:], mixDigest[:])
	return mixDigest, result
}

// asCache recovers the concrete *cache from the opaque consensus.Cache
// handle MkCache produced.
func asCache(c consensus.Cache) *cache {
	cc, ok := c.(*cache)
	if !ok {
		panic("ethash: cache handle was not produced by this engine's MkCache")
	}
	return cc
}
