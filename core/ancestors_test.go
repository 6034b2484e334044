package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/consensus/ethash"
	"github.com/subnatant/ethcore/core"
	"github.com/subnatant/ethcore/ethdb/memorydb"
)

func TestGetAncestorListPadsWithNilPastGenesis(t *testing.T) {
	db := memorydb.New()
	engine := ethash.NewEngine()
	genesis, err := core.BuildGenesis(db, &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit}, engine)
	require.NoError(t, err)

	list, err := genesis.GetAncestorList(6)
	require.NoError(t, err)
	require.Len(t, list, 7)
	assert.NotNil(t, list[0])
	assert.Equal(t, genesis.Hash(), list[0].Header.Hash())
	for i := 1; i <= 6; i++ {
		assert.Nil(t, list[i], "index %d", i)
	}
}

func TestGetAncestorListWalksParentChain(t *testing.T) {
	db := memorydb.New()
	engine := ethash.NewEngine()
	genesis, err := core.BuildGenesis(db, &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit}, engine)
	require.NoError(t, err)

	coinbase := addrFromByte(1)
	child := buildChildBlock(t, db, genesis, engine, nil, coinbase)

	list, err := child.GetAncestorList(2)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, child.Hash(), list[0].Header.Hash())
	assert.Equal(t, genesis.Hash(), list[1].Header.Hash())
	assert.Nil(t, list[2])
}
