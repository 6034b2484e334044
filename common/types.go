// Package common defines the fixed-width value types shared across the
// engine: 20-byte addresses, 32-byte hashes, and the 2048-bit log bloom.
package common

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

const (
	// HashLength is the expected length of a keccak-256 hash in bytes.
	HashLength = 32
	// AddressLength is the expected length of an account address in bytes.
	AddressLength = 20
)

// Hash is a 32-byte keccak-256 digest, a trie root, or similar.
type Hash [HashLength]byte

// BytesToHash converts b to a Hash, right-aligning it if it is shorter
// than HashLength and truncating from the left if it is longer.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Bytes returns a freshly allocated copy of the hash's bytes.
func (h Hash) Bytes() []byte { return append([]byte(nil), h[:]...) }

// IsZero reports whether h is the all-zero hash (used as the genesis
// prevhash sentinel and to detect an unset value).
func (h Hash) IsZero() bool { return h == Hash{} }

// Hex returns the "0x"-prefixed lowercase hex encoding of h.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// Less provides a total order over hashes, used nowhere consensus-visible
// but handy for deterministic test output.
func (h Hash) Less(other Hash) bool { return bytes.Compare(h[:], other[:]) < 0 }

// Address is a 20-byte account address.
type Address [AddressLength]byte

// BytesToAddress converts b to an Address, right-aligning short input.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Bytes returns a freshly allocated copy of the address's bytes.
func (a Address) Bytes() []byte { return append([]byte(nil), a[:]...) }

// IsZero reports whether a is the all-zero address (the genesis coinbase
// sentinel).
func (a Address) IsZero() bool { return a == Address{} }

func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

// Less orders addresses by their byte representation. core/state's
// CommitState walks touched addresses in this order so that the change
// log it emits is deterministic across runs (spec.md §4.5).
func (a Address) Less(other Address) bool { return bytes.Compare(a[:], other[:]) < 0 }

// ParseHex decodes a "0x"-prefixed or bare hex string into bytes.
func ParseHex(s string) ([]byte, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("common: invalid hex string: %w", err)
	}
	return b, nil
}
