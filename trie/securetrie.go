package trie

import (
	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/crypto"
	"github.com/subnatant/ethcore/ethdb"
)

// SecureTrie wraps a Trie and indexes it by the keccak256 hash of each
// key rather than the key itself (spec.md glossary, "SecureTrie") —
// the form used for the account and storage tries so that trie depth
// cannot be influenced by a chosen-prefix key (state/storage tries are
// keyed by addresses and storage slots an attacker controls).
//
// The preimage of each hashed key is kept alongside it so ToDict can
// still report original keys; real go-ethereum keeps this mapping in a
// "secure key" namespace of the same underlying database for the same
// reason.
type SecureTrie struct {
	trie      *Trie
	db        ethdb.Database
	preimages map[common.Hash][]byte
}

// NewSecure opens a secure trie rooted at root in db.
func NewSecure(db ethdb.Database, root common.Hash) (*SecureTrie, error) {
	t, err := New(db, root)
	if err != nil {
		return nil, err
	}
	return &SecureTrie{trie: t, db: db, preimages: make(map[common.Hash][]byte)}, nil
}

func (s *SecureTrie) hashKey(key []byte) []byte {
	h := crypto.Keccak256(key)
	return h[:]
}

func (s *SecureTrie) Get(key []byte) ([]byte, error) {
	return s.trie.Get(s.hashKey(key))
}

func (s *SecureTrie) Update(key, value []byte) error {
	hk := s.hashKey(key)
	s.preimages[common.BytesToHash(hk)] = append([]byte(nil), key...)
	return s.trie.Update(hk, value)
}

func (s *SecureTrie) Delete(key []byte) error {
	return s.trie.Delete(s.hashKey(key))
}

func (s *SecureTrie) RootHash() common.Hash {
	return s.trie.RootHash()
}

func (s *SecureTrie) RootHashValid() bool {
	return s.trie.RootHashValid()
}

// ToDict returns the trie's contents keyed by their original (pre-hash)
// keys where the preimage is known; entries whose preimage was never
// seen by this instance (e.g. the trie was loaded fresh from a root
// hash) are keyed by their hashed form instead.
func (s *SecureTrie) ToDict() (map[string][]byte, error) {
	raw, err := s.trie.ToDict()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(raw))
	for hk, v := range raw {
		if pre, ok := s.preimages[common.BytesToHash([]byte(hk))]; ok {
			out[string(pre)] = v
		} else {
			out[hk] = v
		}
	}
	return out, nil
}
