package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core/types"
)

func TestNewReceiptDerivesBloomFromLogs(t *testing.T) {
	logs := []types.Log{fakeLog{bloomables: [][]byte{[]byte("topic")}}}
	r, err := types.NewReceipt(common.Hash{}, 21000, logs, nil)
	require.NoError(t, err)
	assert.True(t, r.Bloom.Test([]byte("topic")))
}

func TestNewReceiptAcceptsMatchingExplicitBloom(t *testing.T) {
	logs := []types.Log{fakeLog{bloomables: [][]byte{[]byte("topic")}}}
	derived := types.LogsBloom(logs)
	r, err := types.NewReceipt(common.Hash{}, 21000, logs, &derived)
	require.NoError(t, err)
	assert.Equal(t, derived, r.Bloom)
}

func TestNewReceiptRejectsMismatchedExplicitBloom(t *testing.T) {
	logs := []types.Log{fakeLog{bloomables: [][]byte{[]byte("topic")}}}
	var wrong common.Bloom
	wrong.Add([]byte("unrelated"))
	_, err := types.NewReceipt(common.Hash{}, 21000, logs, &wrong)
	assert.ErrorIs(t, err, types.ErrInvalidBloom)
}
