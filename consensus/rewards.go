package consensus

import "github.com/holiman/uint256"

// Reward constants, spec.md §4.6. One finney is 10^15 wei.
const (
	finney                 = 1_000_000_000_000_000
	blockRewardFinney      = 1500
	uncleDepthPenaltyFactor = 8
	nephewRewardDivisor    = 32
)

// BlockReward returns a fresh 1500-finney reward amount; callers own the
// returned value and may mutate it freely.
func BlockReward() *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(blockRewardFinney), uint256.NewInt(finney))
}

// NephewReward is the fee credited to a block's coinbase per included
// uncle, BlockReward/32.
func NephewReward() *uint256.Int {
	return new(uint256.Int).Div(BlockReward(), uint256.NewInt(nephewRewardDivisor))
}

// UncleReward is the amount credited to an uncle's own coinbase:
// BlockReward * (8 + uncleNumber - blockNumber) / 8, integer-truncated,
// floored at zero rather than going negative.
func UncleReward(blockNumber, uncleNumber uint64) *uint256.Int {
	factor := int64(uncleDepthPenaltyFactor) + int64(uncleNumber) - int64(blockNumber)
	if factor < 0 {
		factor = 0
	}
	reward := new(uint256.Int).Mul(BlockReward(), uint256.NewInt(uint64(factor)))
	return reward.Div(reward, uint256.NewInt(uncleDepthPenaltyFactor))
}
