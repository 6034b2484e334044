package ethash

import "github.com/subnatant/ethcore/crypto"
import "github.com/subnatant/ethcore/common"

// Deliberately small mock sizes — see package doc. Real ethash's
// cache/dataset grow by epoch under a primality constraint that only
// matters for the genuine multi-GB DAG; this package keeps the same
// epoch-growth shape without it.
const (
	cacheBytesInit     = 1 << 20
	cacheBytesGrowth   = 1 << 12
	datasetBytesInit   = 1 << 24
	datasetBytesGrowth = 1 << 16
	hashBytes          = common.HashLength
)

// CacheSize returns the mock cache size, in bytes, for number's epoch.
func CacheSize(number uint64) uint64 {
	epoch := number / EpochLength
	return cacheBytesInit + cacheBytesGrowth*epoch
}

// FullSize returns the mock full dataset size, in bytes, for number's
// epoch.
func FullSize(number uint64) uint64 {
	epoch := number / EpochLength
	return datasetBytesInit + datasetBytesGrowth*epoch
}

// cache is the concrete type behind consensus.Cache for this engine: a
// keccak hash-chain seeded from the epoch seed.
type cache struct {
	items []common.Hash
}

// mkCache builds the hash-chain cache for the given size and seed.
func mkCache(size uint64, seed common.Hash) *cache {
	numItems := int(size / hashBytes)
	if numItems < 1 {
		numItems = 1
	}
	items := make([]common.Hash, numItems)
	items[0] = crypto.Keccak256(seed[:])
	for i := 1; i < numItems; i++ {
		items[i] = crypto.Keccak256(items[i-1][:])
	}
	return &cache{items: items}
}
