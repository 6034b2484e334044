package trie

import (
	"fmt"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/crypto"
	"github.com/subnatant/ethcore/rlp"
)

// node is the in-memory representation of a trie node. Exactly one of
// the four concrete types below ever satisfies it.
type node interface {
	fstring(indent string) string
}

// valueNode is a leaf's stored value, embedded directly in its parent's
// encoding rather than hashed into a separate DB entry.
type valueNode []byte

// hashNode is a reference to a node persisted in the database under its
// own keccak256 hash — the trie's content-addressing (spec.md §6).
type hashNode common.Hash

// shortNode is either a leaf (Val is a valueNode, Key ends in the
// terminator nibble) or an extension (Val is a hashNode or another
// shortNode/fullNode pending a hash, Key does not end in the terminator).
type shortNode struct {
	Key []byte
	Val node
}

// fullNode is a 17-way branch: Children[0..15] index by nibble,
// Children[16] holds a value (valueNode) for a key terminating exactly
// at this branch.
type fullNode struct {
	Children [17]node
}

func (valueNode) fstring(string) string { return "<value>" }
func (hashNode) fstring(string) string  { return "<hash>" }
func (n *shortNode) fstring(string) string {
	return fmt.Sprintf("short(%d nibbles)", len(n.Key))
}
func (n *fullNode) fstring(string) string { return "full" }

// EmptyRoot is the canonical root hash of a trie with no entries:
// keccak256(rlp.EncodeString(nil)).
var EmptyRoot = crypto.Keccak256(rlp.EncodeString(nil))

// encodeSlot encodes a single node "slot" — a branch child reference, an
// extension's target, or an embedded leaf/branch value — as a standalone
// RLP string item. nil encodes to the empty string.
func encodeSlot(n node) []byte {
	switch v := n.(type) {
	case nil:
		return rlp.EncodeString(nil)
	case valueNode:
		return rlp.EncodeString([]byte(v))
	case hashNode:
		h := common.Hash(v)
		return rlp.EncodeString(h[:])
	default:
		panic(fmt.Sprintf("trie: slot must be nil, valueNode, or hashNode, got %T", n))
	}
}

// decodeSlot is the inverse of encodeSlot. asValue controls whether a
// non-empty payload is interpreted as an embedded value (leaf/branch
// value slots) or as a 32-byte hash reference (branch children,
// extension targets).
func decodeSlot(raw []byte, asValue bool) (node, error) {
	b, err := rlp.SplitString(raw)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	if asValue {
		return valueNode(b), nil
	}
	if len(b) != common.HashLength {
		return nil, fmt.Errorf("trie: bad hash reference length %d", len(b))
	}
	return hashNode(common.BytesToHash(b)), nil
}

// encodeNode produces the canonical RLP encoding of a fully-hashed node
// (all of its children already replaced by hashNode/valueNode slots).
func encodeNode(n node) []byte {
	switch v := n.(type) {
	case *shortNode:
		asValue := hasTerm(v.Key)
		return rlp.EncodeListOfItems(rlp.EncodeString(v.Key), encodeSlot(valOrHash(v.Val, asValue)))
	case *fullNode:
		items := make([][]byte, 17)
		for i := 0; i < 16; i++ {
			items[i] = encodeSlot(valOrHash(v.Children[i], false))
		}
		items[16] = encodeSlot(valOrHash(v.Children[16], true))
		return rlp.EncodeListOfItems(items...)
	default:
		panic(fmt.Sprintf("trie: cannot encode node of type %T directly", n))
	}
}

// valOrHash asserts that n is already collapsed to its terminal slot
// representation (nil, valueNode for a value position, or hashNode for a
// reference position) after hashChildren has run.
func valOrHash(n node, asValue bool) node {
	switch n.(type) {
	case nil, valueNode, hashNode:
		return n
	default:
		panic(fmt.Sprintf("trie: node %T was not hashed before encoding (asValue=%v)", n, asValue))
	}
}

// decodeNode parses a persisted node's RLP encoding back into its
// in-memory shortNode/fullNode form, with children left as hashNode
// references to be resolved lazily.
func decodeNode(enc []byte) (node, error) {
	items, err := rlp.SplitList(enc)
	if err != nil {
		return nil, err
	}
	switch len(items) {
	case 2:
		key, err := rlp.SplitString(items[0])
		if err != nil {
			return nil, err
		}
		val, err := decodeSlot(items[1], hasTerm(key))
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: append([]byte(nil), key...), Val: val}, nil
	case 17:
		var fn fullNode
		for i := 0; i < 16; i++ {
			child, err := decodeSlot(items[i], false)
			if err != nil {
				return nil, err
			}
			fn.Children[i] = child
		}
		val, err := decodeSlot(items[16], true)
		if err != nil {
			return nil, err
		}
		fn.Children[16] = val
		return &fn, nil
	default:
		return nil, fmt.Errorf("trie: node has unexpected item count %d", len(items))
	}
}
