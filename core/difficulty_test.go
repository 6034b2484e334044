package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/consensus/ethash"
	"github.com/subnatant/ethcore/core"
	"github.com/subnatant/ethcore/ethdb/memorydb"
)

func TestChainDifficultyOfGenesisIsItsOwnDifficulty(t *testing.T) {
	db := memorydb.New()
	engine := ethash.NewEngine()
	genesis, err := core.BuildGenesis(db, &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit}, engine)
	require.NoError(t, err)

	h := genesis.Header()
	total, err := core.ChainDifficulty(db, &h)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total.Uint64())
}

func TestChainDifficultyAccumulatesAcrossParent(t *testing.T) {
	db := memorydb.New()
	engine := ethash.NewEngine()
	genesis, err := core.BuildGenesis(db, &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit}, engine)
	require.NoError(t, err)

	coinbase := addrFromByte(1)
	child := buildChildBlock(t, db, genesis, engine, nil, coinbase)

	h := child.Header()
	total, err := core.ChainDifficulty(db, &h)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total.Uint64())
}

func TestChainDifficultyIsMemoized(t *testing.T) {
	db := memorydb.New()
	engine := ethash.NewEngine()
	genesis, err := core.BuildGenesis(db, &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit}, engine)
	require.NoError(t, err)

	h := genesis.Header()
	first, err := core.ChainDifficulty(db, &h)
	require.NoError(t, err)
	second, err := core.ChainDifficulty(db, &h)
	require.NoError(t, err)
	assert.Equal(t, first.Uint64(), second.Uint64())
}
