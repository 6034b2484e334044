package core

import "github.com/subnatant/ethcore/core/types"

// Executor is the injected EVM transaction executor (spec.md §1, "EVM
// transaction executor" is an external collaborator out of scope for
// this engine). It reads and writes the Block's state through the
// mutator methods Block itself exposes — GetBalance/SetBalance, logs,
// gas, snapshot/revert — rather than through any channel of its own.
type Executor interface {
	// ApplyTransaction runs tx against b's current state. ok reports
	// whether the transaction executed without an unrecoverable error
	// (insufficient balance, invalid nonce, ...); a false ok still
	// consumes the block's intrinsic accounting for tx but leaves no
	// other state change, mirroring ethereum/blocks.py's apply_transaction
	// returning success=False for a rejected transaction. output is the
	// transaction's return data, if any.
	ApplyTransaction(b *Block, tx types.Transaction) (ok bool, output []byte, err error)
}
