package ethash

import "github.com/holiman/uint256"

// Difficulty rule constants, spec.md §4.4.
const (
	MinDifficulty         = 131072
	BlockDifficultyFactor = 2048
	DiffAdjustmentCutoff  = 8
)

// CalcDifficulty computes the child block's difficulty from its parent,
// exactly as spec.md §4.4 / ethereum/blocks.py's calc_difficulty.
func CalcDifficulty(parentDifficulty *uint256.Int, parentTimestamp, timestamp uint64) *uint256.Int {
	offset := new(uint256.Int).Div(parentDifficulty, uint256.NewInt(BlockDifficultyFactor))

	var adjusted *uint256.Int
	if int64(timestamp)-int64(parentTimestamp) < DiffAdjustmentCutoff {
		adjusted = new(uint256.Int).Add(parentDifficulty, offset)
	} else {
		adjusted = new(uint256.Int).Sub(parentDifficulty, offset)
	}

	floor := new(uint256.Int).Set(parentDifficulty)
	minDiff := uint256.NewInt(MinDifficulty)
	if floor.Cmp(minDiff) > 0 {
		floor.Set(minDiff)
	}
	if adjusted.Cmp(floor) < 0 {
		return floor
	}
	return adjusted
}
