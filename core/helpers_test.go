package core_test

import (
	"os"

	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core"
	"github.com/subnatant/ethcore/core/types"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}

// fakeTransaction is a minimal types.Transaction for tests: the engine
// never inspects a transaction beyond its RLP wire form.
type fakeTransaction struct {
	payload []byte
}

func (tx fakeTransaction) EncodeRLP() ([]byte, error) { return tx.payload, nil }

// fixedTransferExecutor moves amount from "from" to "to" for every
// transaction applied, charging a flat gasPerTx and appending a receipt
// with an empty post-state root placeholder (the engine's own Finalize
// flush, not the executor, is what actually commits state).
type fixedTransferExecutor struct {
	from, to common.Address
	amount   *uint256.Int
	gasPerTx uint64
	applied  int
}

var _ core.Executor = (*fixedTransferExecutor)(nil)

func (e *fixedTransferExecutor) ApplyTransaction(b *core.Block, tx types.Transaction) (bool, []byte, error) {
	ok, err := b.Delta(e.from, e.amount, true)
	if err != nil {
		return false, nil, err
	}
	if !ok {
		return false, nil, nil
	}
	if _, err := b.Delta(e.to, e.amount, false); err != nil {
		return false, nil, err
	}

	e.applied++
	cumulative := uint64(e.applied) * e.gasPerTx
	receipt := &types.Receipt{CumulativeGasUsed: cumulative}
	if err := b.AddReceipt(receipt); err != nil {
		return false, nil, err
	}
	return true, nil, nil
}

func addrFromByte(b byte) common.Address {
	var buf [20]byte
	buf[19] = b
	return common.BytesToAddress(buf[:])
}
