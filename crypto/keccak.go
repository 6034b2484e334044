// Package crypto adapts the external Keccak-256 hash function (spec.md
// §4.1, "Codec/Hash adapters") to the engine's common.Hash type.
package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/subnatant/ethcore/common"
)

func init() {
	common.SetKeccak(func(data []byte) []byte {
		return Keccak256(data).Bytes()
	})
}

// Keccak256 hashes the concatenation of data with the original (pre-NIST)
// Keccak-256 padding used throughout Ethereum — distinct from standardized
// SHA3-256, per the spec's glossary entry.
func Keccak256(data ...[]byte) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}

// Keccak256Bytes is Keccak256 with a []byte return, for callers that want
// to write the digest directly into a larger buffer.
func Keccak256Bytes(data ...[]byte) []byte {
	h := Keccak256(data...)
	return h.Bytes()
}
