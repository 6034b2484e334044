package common

import "encoding/hex"

// BloomByteLength is the number of bytes in a 2048-bit log bloom filter.
const BloomByteLength = 256

// BloomBitLength is the number of bits set per accumulated bloom entry.
const BloomBitLength = 3

// Bloom is the 2048-bit filter accumulated over a receipt's logs, per
// spec.md §3 ("Receipt") and §4.3.
type Bloom [BloomByteLength]byte

// BytesToBloom right-aligns b into a Bloom, as BytesToHash does for Hash.
func BytesToBloom(b []byte) Bloom {
	var bl Bloom
	if len(b) > BloomByteLength {
		b = b[len(b)-BloomByteLength:]
	}
	copy(bl[BloomByteLength-len(b):], b)
	return bl
}

// Add folds data into the bloom filter using the classic three-hash
// scheme: three 11-bit indices are drawn from the low bits of a
// keccak-256 digest of data, and the corresponding bits are set.
func (b *Bloom) Add(data []byte) {
	h := keccak256(data)
	for i := 0; i < BloomBitLength; i++ {
		bitIndex := (uint(h[2*i])<<8 | uint(h[2*i+1])) & 0x7ff
		byteIndex := BloomByteLength - 1 - bitIndex/8
		bitMask := byte(1) << (bitIndex % 8)
		b[byteIndex] |= bitMask
	}
}

// Test reports whether data's three bits are all set in b. False
// positives are possible by design; false negatives are not.
func (b Bloom) Test(data []byte) bool {
	var probe Bloom
	probe.Add(data)
	for i := range b {
		if probe[i]&b[i] != probe[i] {
			return false
		}
	}
	return true
}

// OR merges other into b in place, accumulating across receipts into a
// block-wide bloom (spec.md invariant 5).
func (b *Bloom) OR(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// Bytes returns a freshly allocated copy of the bloom's bytes.
func (b Bloom) Bytes() []byte { return append([]byte(nil), b[:]...) }

func (b Bloom) Hex() string { return "0x" + hex.EncodeToString(b[:]) }

func (b Bloom) String() string { return b.Hex() }

// keccak256 is a tiny indirection so common doesn't import crypto
// directly (crypto imports common for Hash); it is wired up from
// crypto.init via SetKeccak.
var keccak256 = func(data []byte) []byte {
	panic("common: keccak256 not wired — import the crypto package")
}

// SetKeccak installs the Keccak-256 implementation used by Bloom.Add.
// Called once from crypto.init.
func SetKeccak(fn func(data []byte) []byte) {
	keccak256 = fn
}
