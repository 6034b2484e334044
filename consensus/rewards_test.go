package consensus_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/subnatant/ethcore/consensus"
)

func TestBlockRewardIs1500Finney(t *testing.T) {
	want := new(uint256.Int).Mul(uint256.NewInt(1500), uint256.NewInt(1_000_000_000_000_000))
	assert.Equal(t, 0, consensus.BlockReward().Cmp(want))
}

func TestBlockRewardReturnsFreshValue(t *testing.T) {
	a := consensus.BlockReward()
	a.Add(a, uint256.NewInt(1))
	b := consensus.BlockReward()
	assert.NotEqual(t, 0, a.Cmp(b))
}

func TestNephewRewardIsBlockRewardOver32(t *testing.T) {
	want := new(uint256.Int).Div(consensus.BlockReward(), uint256.NewInt(32))
	assert.Equal(t, 0, consensus.NephewReward().Cmp(want))
}

func TestUncleRewardAtDepthOne(t *testing.T) {
	// uncle included at block = uncleNumber+1: factor = 8 + uncleNumber - (uncleNumber+1) = 7
	want := new(uint256.Int).Mul(consensus.BlockReward(), uint256.NewInt(7))
	want.Div(want, uint256.NewInt(8))
	got := consensus.UncleReward(101, 100)
	assert.Equal(t, 0, got.Cmp(want))
}

func TestUncleRewardFloorsAtZeroBeyondMaxDepth(t *testing.T) {
	got := consensus.UncleReward(200, 100)
	assert.True(t, got.IsZero())
}
