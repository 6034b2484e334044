package state_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core/state"
	"github.com/subnatant/ethcore/ethdb/memorydb"
	"github.com/subnatant/ethcore/trie"
)

func newCache(t *testing.T) *state.Cache {
	t.Helper()
	c, err := state.New(memorydb.New(), common.Hash{})
	require.NoError(t, err)
	return c
}

func TestGetBalanceOfUnknownAddressIsZero(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestSetBalanceThenGet(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(100)))
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bal.Uint64())
}

func TestSetBalanceTouchesAddress(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	assert.False(t, c.Touched(addr))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(1)))
	assert.True(t, c.Touched(addr))
}

func TestSetBalanceToSameValueDoesNotJournal(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(0)))
	assert.False(t, c.Touched(addr))
}

func TestDeltaPositiveIncreasesBalance(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	ok, err := c.Delta(addr, uint256.NewInt(50), false)
	require.NoError(t, err)
	assert.True(t, ok)
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(50), bal.Uint64())
}

func TestDeltaNegativeInsufficientBalanceFails(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	ok, err := c.Delta(addr, uint256.NewInt(1), true)
	require.NoError(t, err)
	assert.False(t, ok)
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestDeltaNegativeSufficientBalanceSucceeds(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(100)))
	ok, err := c.Delta(addr, uint256.NewInt(40), true)
	require.NoError(t, err)
	assert.True(t, ok)
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), bal.Uint64())
}

func TestSnapshotRevertUndoesBalanceChange(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(10)))
	snap := c.Snapshot()
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(99)))

	c.Revert(snap)
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), bal.Uint64())
}

func TestSnapshotRevertUndoesTouchedState(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	snap := c.Snapshot()
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(1)))
	assert.True(t, c.Touched(addr))
	c.Revert(snap)
	assert.False(t, c.Touched(addr))
}

func TestRevertIsLIFOAcrossMultipleFields(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(1)))
	require.NoError(t, c.SetNonce(addr, uint256.NewInt(1)))
	snap := c.Snapshot()
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(2)))
	require.NoError(t, c.SetNonce(addr, uint256.NewInt(2)))

	c.Revert(snap)

	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	nonce, err := c.GetNonce(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal.Uint64())
	assert.Equal(t, uint64(1), nonce.Uint64())
}

func TestCommitStateIsNoopWhenJournalEmpty(t *testing.T) {
	c := newCache(t)
	root := c.StateRoot()
	require.NoError(t, c.CommitState())
	assert.Equal(t, root, c.StateRoot())
}

func TestCommitStateFlushesBalanceIntoTrie(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(42)))
	rootBefore := c.StateRoot()
	require.NoError(t, c.CommitState())
	assert.NotEqual(t, rootBefore, c.StateRoot())
}

func TestCommitStateIsIdempotentAfterFlush(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(42)))
	require.NoError(t, c.CommitState())
	root := c.StateRoot()
	require.NoError(t, c.CommitState())
	assert.Equal(t, root, c.StateRoot())
}

func TestSetCodeAndGetCode(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetCode(addr, []byte("bytecode")))
	code, err := c.GetCode(addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("bytecode"), code)
}

func TestSetStorageAndGetStorage(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	idx := *uint256.NewInt(7)
	require.NoError(t, c.SetStorage(addr, idx, uint256.NewInt(123)))
	v, err := c.GetStorage(addr, idx)
	require.NoError(t, err)
	assert.Equal(t, uint64(123), v.Uint64())
}

func TestResetStorageZeroesCachedSlotsAndStorageRoot(t *testing.T) {
	c := newCache(t)
	addr := common.BytesToAddress([]byte("addr1"))
	idx := *uint256.NewInt(1)
	require.NoError(t, c.SetStorage(addr, idx, uint256.NewInt(55)))
	require.NoError(t, c.ResetStorage(addr))

	v, err := c.GetStorage(addr, idx)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	root, err := c.GetStorageRoot(addr)
	require.NoError(t, err)
	assert.Equal(t, trie.EmptyRoot, root)
}

func TestSetRootReopensTrieAtGivenRoot(t *testing.T) {
	db := memorydb.New()
	c, err := state.New(db, common.Hash{})
	require.NoError(t, err)
	addr := common.BytesToAddress([]byte("addr1"))
	require.NoError(t, c.SetBalance(addr, uint256.NewInt(7)))
	require.NoError(t, c.CommitState())
	committedRoot := c.StateRoot()

	require.NoError(t, c.SetBalance(addr, uint256.NewInt(99)))
	require.NoError(t, c.CommitState())
	assert.NotEqual(t, committedRoot, c.StateRoot())

	require.NoError(t, c.SetRoot(committedRoot))
	assert.Equal(t, committedRoot, c.StateRoot())
	bal, err := c.GetBalance(addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), bal.Uint64())
}
