package types

import (
	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/crypto"
	"github.com/subnatant/ethcore/ethdb"
	"github.com/subnatant/ethcore/trie"
)

// EmptyCodeHash is keccak256 of the empty byte string, the CodeHash of
// any account with no code.
var EmptyCodeHash = crypto.Keccak256()

// Account is the four-field record stored under an address in the state
// trie (spec.md §3). Code bytes live outside the trie, in the KV store
// under keccak(code).
type Account struct {
	Nonce       *uint256.Int `rlp:"nonce"`
	Balance     *uint256.Int `rlp:"balance"`
	StorageRoot common.Hash  `rlp:"storage_root"`
	CodeHash    common.Hash  `rlp:"code_hash"`
}

// BlankAccount returns a new account with zero nonce, zero balance, the
// trie's canonical empty storage root, and the empty code hash.
func BlankAccount() *Account {
	return &Account{
		Nonce:       new(uint256.Int),
		Balance:     new(uint256.Int),
		StorageRoot: trie.EmptyRoot,
		CodeHash:    EmptyCodeHash,
	}
}

// Code reads the account's code blob from db. An account with the empty
// code hash has no code and Code returns nil without touching db.
func (a *Account) Code(db ethdb.Database) ([]byte, error) {
	if a.CodeHash == EmptyCodeHash {
		return nil, nil
	}
	code, err := db.Get(a.CodeHash[:])
	if err != nil {
		return nil, err
	}
	return code, nil
}

// SetCode writes code into db under its keccak hash and updates the
// account's CodeHash to match.
func (a *Account) SetCode(db ethdb.Database, code []byte) error {
	hash := crypto.Keccak256(code)
	if err := db.Put(hash[:], code); err != nil {
		return err
	}
	a.CodeHash = hash
	return nil
}

// IsBlank reports whether a has the same field values as a freshly
// constructed BlankAccount.
func (a *Account) IsBlank() bool {
	return a.Nonce.IsZero() && a.Balance.IsZero() &&
		a.StorageRoot == trie.EmptyRoot && a.CodeHash == EmptyCodeHash
}
