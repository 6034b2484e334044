package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/consensus/ethash"
	"github.com/subnatant/ethcore/core"
	"github.com/subnatant/ethcore/ethdb/memorydb"
)

func buildTestGenesis(t *testing.T, spec *core.GenesisSpec) *core.Block {
	t.Helper()
	db := memorydb.New()
	b, err := core.BuildGenesis(db, spec, ethash.NewEngine())
	require.NoError(t, err)
	return b
}

func TestBuildGenesisProducesNumberZero(t *testing.T) {
	b := buildTestGenesis(t, &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit})
	h := b.Header()
	assert.Equal(t, uint64(0), h.Number)
	assert.True(t, h.IsGenesis())
}

func TestBuildGenesisAppliesInitialBalances(t *testing.T) {
	addrHex := "0x0000000000000000000000000000000000000001"
	spec := &core.GenesisSpec{
		Alloc:      map[string]core.GenesisAlloc{addrHex: {Balance: "1000000000000000000"}},
		Difficulty: 1,
		GasLimit:   core.GenesisGasLimit,
	}
	db := memorydb.New()
	b, err := core.BuildGenesis(db, spec, ethash.NewEngine())
	require.NoError(t, err)

	var addr [20]byte
	addr[19] = 1
	bal, err := b.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000000000000000), bal.Uint64())
}

func TestBuildGenesisIsDeterministic(t *testing.T) {
	spec := &core.GenesisSpec{Difficulty: 1, GasLimit: core.GenesisGasLimit, Timestamp: 100}
	b1 := buildTestGenesis(t, spec)
	b2 := buildTestGenesis(t, spec)
	assert.Equal(t, b1.Hash(), b2.Hash())
}

func TestLoadGenesisSpecDefaultsZeroFields(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/genesis.toml"
	require.NoError(t, writeFile(path, "timestamp = 7\n"))

	spec, err := core.LoadGenesisSpec(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(core.GenesisGasLimit), spec.GasLimit)
	assert.Equal(t, uint64(core.GenesisDifficulty), spec.Difficulty)
	assert.Equal(t, uint64(7), spec.Timestamp)
}
