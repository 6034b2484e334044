// Package ethash is a light-mode PoW engine satisfying consensus.PoW.
// Real ethash generates a multi-gigabyte dataset per epoch; that is
// explicitly out of scope (spec.md §1, "the ethash PoW function" is an
// external collaborator, and full DAG generation is excluded from
// SPEC_FULL's domain stack). This package instead builds a small,
// deterministic, keccak-chained pseudo-cache from the epoch seed — big
// enough to exercise every PoW-related invariant and boundary test in
// spec.md §8 without the real dataset's memory/CPU cost.
package ethash

import "github.com/subnatant/ethcore/crypto"
import "github.com/subnatant/ethcore/common"

// EpochLength is the number of blocks per ethash epoch (spec.md §4.4).
const EpochLength = 30000

// Seed derives the epoch seed for block number: 32 zero bytes, rehashed
// once per completed epoch (spec.md §4.4 "seed(number)").
func Seed(number uint64) common.Hash {
	var seed common.Hash
	epochs := number / EpochLength
	for i := uint64(0); i < epochs; i++ {
		seed = crypto.Keccak256(seed[:])
	}
	return seed
}
