package types

// Transaction is the opaque external transaction type (spec.md §1,
// "EVM transaction executor" is out of scope). The engine never
// inspects a transaction's fields directly — it only needs its RLP
// wire encoding to build the transactions trie (spec.md invariant 1)
// and hands the transaction itself to the injected core.Executor.
type Transaction interface {
	// EncodeRLP returns the transaction's canonical RLP encoding, the
	// value stored in the transactions trie under RLP(index).
	EncodeRLP() ([]byte, error)
}

// Transactions is an ordered list of transactions, as included in a
// block.
type Transactions []Transaction
