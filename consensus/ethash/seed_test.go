package ethash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subnatant/ethcore/consensus/ethash"
)

func TestSeedIsZeroWithinFirstEpoch(t *testing.T) {
	assert.True(t, ethash.Seed(0).IsZero())
	assert.True(t, ethash.Seed(ethash.EpochLength-1).IsZero())
}

func TestSeedChangesEveryEpoch(t *testing.T) {
	s0 := ethash.Seed(0)
	s1 := ethash.Seed(ethash.EpochLength)
	s2 := ethash.Seed(2 * ethash.EpochLength)
	assert.NotEqual(t, s0, s1)
	assert.NotEqual(t, s1, s2)
}

func TestSeedDeterministic(t *testing.T) {
	a := ethash.Seed(5 * ethash.EpochLength)
	b := ethash.Seed(5 * ethash.EpochLength)
	assert.Equal(t, a, b)
}

func TestCacheAndFullSizeGrowByEpoch(t *testing.T) {
	assert.Greater(t, ethash.CacheSize(ethash.EpochLength), ethash.CacheSize(0))
	assert.Greater(t, ethash.FullSize(ethash.EpochLength), ethash.FullSize(0))
}
