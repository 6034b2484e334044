package types

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/consensus"
	"github.com/subnatant/ethcore/consensus/ethash"
	"github.com/subnatant/ethcore/crypto"
	"github.com/subnatant/ethcore/rlp"
)

// MaxExtraDataLength is the largest allowed extra_data payload, spec.md
// §3 invariant 8.
const MaxExtraDataLength = 1024

// Header is the wire/serializable snapshot of a block header (spec.md
// §3, §9 Design Note "Header ↔ Block aliasing"): it owns its own copies
// of state_root/tx_list_root/receipts_root rather than delegating to a
// live Block. core.Block produces one of these on demand via its own
// Header() method, which always reflects the Block's current tries.
type Header struct {
	PrevHash     common.Hash  `rlp:"prev_hash"`
	UnclesHash   common.Hash  `rlp:"uncles_hash"`
	Coinbase     common.Address `rlp:"coinbase"`
	StateRoot    common.Hash  `rlp:"state_root"`
	TxListRoot   common.Hash  `rlp:"tx_list_root"`
	ReceiptsRoot common.Hash  `rlp:"receipts_root"`
	Bloom        common.Bloom `rlp:"bloom"`
	Difficulty   *uint256.Int `rlp:"difficulty"`
	Number       uint64       `rlp:"number"`
	GasLimit     uint64       `rlp:"gas_limit"`
	GasUsed      uint64       `rlp:"gas_used"`
	Timestamp    uint64       `rlp:"timestamp"`
	ExtraData    []byte       `rlp:"extra_data"`
	MixHash      common.Hash  `rlp:"mixhash"`
	Nonce        []byte       `rlp:"nonce"`

	// hashOverride is the §9 open-question resolution: a header loaded
	// by a known DB key whose freshly computed hash disagrees keeps the
	// lookup key as its canonical hash instead. Set by core.LoadHeader;
	// never populated by RLP decoding (unexported, so the reflective
	// codec skips it automatically).
	hashOverride *common.Hash
}

// GenesisPrevHash, GenesisCoinbase, GenesisMixHash, and GenesisNonce are
// the fixed genesis sentinel values (spec.md §6).
var (
	GenesisPrevHash common.Hash
	GenesisCoinbase common.Address
	GenesisMixHash  common.Hash
	GenesisNonce    = zpad8(42)
)

func zpad8(n uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(n)
		n >>= 8
	}
	return b
}

// IsGenesis reports whether h is the genesis header: zero prev_hash and
// the genesis nonce (spec.md §8 boundary behaviors).
func (h *Header) IsGenesis() bool {
	return h.PrevHash.IsZero() && bytesEqual(h.Nonce, GenesisNonce)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MiningHash is keccak(rlp(header without mixhash and nonce)) — the
// value PoW is computed over (spec.md §4.4).
func (h *Header) MiningHash() common.Hash {
	enc, err := rlp.EncodeExcluding(*h, "mixhash", "nonce")
	if err != nil {
		panic(fmt.Sprintf("types: header always encodable: %v", err))
	}
	return crypto.Keccak256(enc)
}

// Hash is keccak(rlp(header)), or the overridden lookup-key hash if one
// was set by core.LoadHeader (spec.md §9 open question 1).
func (h *Header) Hash() common.Hash {
	if h.hashOverride != nil {
		return *h.hashOverride
	}
	enc, err := rlp.EncodeToBytes(*h)
	if err != nil {
		panic(fmt.Sprintf("types: header always encodable: %v", err))
	}
	return crypto.Keccak256(enc)
}

// SetHashOverride installs the canonical hash for a header loaded by a
// known DB key, per §9 open question 1. Called by core.LoadHeader and by
// core.Block.GetAncestorList when it loads ancestors from the DB.
func (h *Header) SetHashOverride(hash common.Hash) {
	h.hashOverride = &hash
}

// Seed derives the ethash seed for this header's block number (spec.md
// §4.4): 32 zero bytes, re-hashed once per completed epoch.
func (h *Header) Seed() common.Hash {
	return ethash.Seed(h.Number)
}

// Validate checks the structural invariants spec.md §3 invariant 8
// requires independent of any parent or PoW engine: extra_data length.
// ethereum/blocks.py's own coinbase-non-empty check is only ever reached
// after check_fields has already asserted coinbase is exactly 20 bytes,
// making it vacuous for any header that parsed at all — a zero-valued
// coinbase is a legal value on any block, not just genesis.
func (h *Header) Validate() error {
	if len(h.ExtraData) > MaxExtraDataLength {
		return fmt.Errorf("%w: extra_data length %d exceeds %d", ErrMalformedHeader, len(h.ExtraData), MaxExtraDataLength)
	}
	return nil
}

// CheckPoW validates the header's proof of work via engine. nonce must
// be exactly 8 bytes — the header's own Nonce field may be empty during
// construction, in which case the caller supplies the candidate nonce
// being tested separately (spec.md §4.4).
func (h *Header) CheckPoW(engine consensus.PoW, nonce []byte) error {
	if len(nonce) != 8 {
		return fmt.Errorf("%w: nonce must be 8 bytes, got %d", ErrMalformedHeader, len(nonce))
	}
	var n [8]byte
	copy(n[:], nonce)

	seed := h.Seed()
	size := engine.CacheSize(h.Number)
	cache := engine.MkCache(size, seed)
	fullSize := engine.FullSize(h.Number)

	mixDigest, result := engine.HashimotoLight(fullSize, cache, h.MiningHash(), n)
	if mixDigest != h.MixHash {
		return ErrPoWFailed
	}

	resultInt := new(uint256.Int).SetBytes(result[:])
	product := new(uint256.Int)
	_, overflow := product.MulOverflow(resultInt, h.Difficulty)
	if overflow {
		return ErrPoWFailed
	}
	return nil
}
