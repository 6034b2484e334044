package types

import "github.com/subnatant/ethcore/common"

// Receipt is the per-transaction outcome record (spec.md §3, §4.3).
// Logs are the executor's transient objects and are not part of the
// record's RLP wire form — only PostStateRoot, CumulativeGasUsed, and
// Bloom are; a caller that needs logs back out keeps them alongside the
// Receipt the same call produced, mirroring go-ethereum's historical
// split between a storage Receipt and its accompanying logs.
type Receipt struct {
	PostStateRoot     common.Hash  `rlp:"post_state_root"`
	CumulativeGasUsed uint64       `rlp:"cumulative_gas_used"`
	Bloom             common.Bloom `rlp:"bloom"`
	Logs              []Log        `rlp:"-"`
}

// NewReceipt derives the bloom from logs and, if bloom is non-nil,
// requires it to match exactly; a mismatch is ErrInvalidBloom
// (spec.md §9 open question 2).
func NewReceipt(postStateRoot common.Hash, cumulativeGasUsed uint64, logs []Log, bloom *common.Bloom) (*Receipt, error) {
	derived := LogsBloom(logs)
	if bloom != nil && *bloom != derived {
		return nil, ErrInvalidBloom
	}
	return &Receipt{
		PostStateRoot:     postStateRoot,
		CumulativeGasUsed: cumulativeGasUsed,
		Bloom:             derived,
		Logs:              logs,
	}, nil
}
