package core

import "github.com/subnatant/ethcore/core/types"

// AncestorEntry is one entry of a Block's ancestor chain: the ancestor's
// header and the uncle headers it itself included, both needed by uncle
// validation's inclusion checks (spec.md §4.6 rule 5).
type AncestorEntry struct {
	Header *types.Header
	Uncles []types.Header
}

// GetAncestorList returns b and its n most recent ancestors (n+1 entries
// total, index 0 is b itself), walking the in-memory parent chain first
// and falling back to the DB-persisted block record beyond it. Once
// genesis is reached the remaining entries are padded with nil (spec.md
// §4.6 "Ancestor chain").
func (b *Block) GetAncestorList(n int) ([]*AncestorEntry, error) {
	self := b.Header()
	list := make([]*AncestorEntry, 0, n+1)
	list = append(list, &AncestorEntry{Header: &self, Uncles: b.uncles})

	cur := &self
	p := b.parent
	for len(list) < n+1 {
		if cur.IsGenesis() {
			list = append(list, nil)
			continue
		}
		if p != nil {
			ph := p.Header()
			list = append(list, &AncestorEntry{Header: &ph, Uncles: p.uncles})
			cur = &ph
			p = p.parent
			continue
		}

		rec, err := loadBlockRecord(b.db, cur.PrevHash[:])
		if err != nil {
			return nil, err
		}
		h := rec.Header
		if h.Hash() != cur.PrevHash {
			recordLog.Warn("header hash disagrees with lookup key, keeping lookup key as canonical",
				"lookup", cur.PrevHash.Hex(), "computed", h.Hash().Hex())
			h.SetHashOverride(cur.PrevHash)
		}
		list = append(list, &AncestorEntry{Header: &h, Uncles: rec.Uncles})
		cur = &h
	}
	return list, nil
}
