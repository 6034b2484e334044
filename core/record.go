package core

import (
	"github.com/pkg/errors"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core/types"
	"github.com/subnatant/ethcore/ethdb"
	"github.com/subnatant/ethcore/log"
	"github.com/subnatant/ethcore/rlp"
)

var recordLog = log.New("component", "core")

// blockRecord is the on-disk shape core persists per validated block:
// enough to rebuild the ancestor chain and check uncle inclusion
// (spec.md §4.6) without needing to replay or even possess the
// transactions themselves, which this engine cannot decode (the
// transaction executor that owns that format is an external
// collaborator, spec.md §1).
type blockRecord struct {
	Header types.Header   `rlp:"header"`
	Uncles []types.Header `rlp:"uncles"`
}

func storeBlockRecord(db ethdb.Database, hash []byte, header types.Header, uncles []types.Header) error {
	rec := blockRecord{Header: header, Uncles: uncles}
	enc, err := rlp.EncodeToBytes(rec)
	if err != nil {
		return errors.Wrap(err, "core: encode block record")
	}
	return db.Put(ethdb.BlockKey(hash), enc)
}

func loadBlockRecord(db ethdb.Database, hash []byte) (*blockRecord, error) {
	raw, err := db.Get(ethdb.BlockKey(hash))
	if err != nil {
		if errors.Is(err, ethdb.ErrNotFound) {
			return nil, errors.WithStack(ErrUnknownParent)
		}
		return nil, err
	}
	var rec blockRecord
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, errors.Wrap(err, "core: decode block record")
	}
	return &rec, nil
}

// LoadHeader fetches the header stored under hash, resolving the §9 open
// question: if the header's freshly computed hash disagrees with the
// lookup key, the lookup key is kept as canonical (via SetHashOverride)
// and a warning is logged rather than the load failing.
func LoadHeader(db ethdb.Database, hash common.Hash) (*types.Header, error) {
	rec, err := loadBlockRecord(db, hash[:])
	if err != nil {
		return nil, err
	}
	h := rec.Header
	if h.Hash() != hash {
		recordLog.Warn("header hash disagrees with lookup key, keeping lookup key as canonical",
			"lookup", hash.Hex(), "computed", h.Hash().Hex())
		h.SetHashOverride(hash)
	}
	return &h, nil
}
