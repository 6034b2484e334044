package core

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/subnatant/ethcore/core/types"
	"github.com/subnatant/ethcore/ethdb"
)

// ChainDifficulty returns the cumulative (total) difficulty of the chain
// ending at header, recursing to the parent and memoizing the result
// under "difficulty:"||hex(hash) (spec.md §5: "chain_difficulty is
// parent-recursive"). Concurrent callers computing the same value
// converge on the same bytes, so no locking is required.
func ChainDifficulty(db ethdb.Database, header *types.Header) (*uint256.Int, error) {
	hash := header.Hash()
	key := ethdb.DifficultyKey(hash.Hex())

	if raw, err := db.Get(key); err == nil {
		return new(uint256.Int).SetBytes(raw), nil
	} else if !errors.Is(err, ethdb.ErrNotFound) {
		return nil, err
	}

	total := new(uint256.Int).Set(header.Difficulty)
	if !header.IsGenesis() {
		parent, err := LoadHeader(db, header.PrevHash)
		if err != nil {
			return nil, err
		}
		parentTotal, err := ChainDifficulty(db, parent)
		if err != nil {
			return nil, err
		}
		total.Add(total, parentTotal)
	}

	if err := db.Put(key, total.Bytes()); err != nil {
		return nil, err
	}
	return total, nil
}
