// Package core implements block assembly/validation (spec.md §4.6): the
// driver that turns a header plus transactions and uncles into either a
// trusted or replayed Block, checks it against the header it was handed,
// and applies the reward finalization.
package core

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/holiman/uint256"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/consensus"
	"github.com/subnatant/ethcore/consensus/ethash"
	"github.com/subnatant/ethcore/core/state"
	"github.com/subnatant/ethcore/core/types"
	"github.com/subnatant/ethcore/crypto"
	"github.com/subnatant/ethcore/ethdb"
	"github.com/subnatant/ethcore/log"
	"github.com/subnatant/ethcore/rlp"
	"github.com/subnatant/ethcore/trie"
)

var blockLog = log.New("component", "core")

// Uncle validation constants, spec.md §4.6.
const (
	MaxUncles     = 2
	MaxUncleDepth = 6
)

// Snapshot is a Block-level composite snapshot (spec.md §4.5
// "snapshot()"): the state cache's own journal length plus every other
// piece of transient execution state the cache doesn't own.
type Snapshot struct {
	journalLen       int
	suicidesLen      int
	logsLen          int
	gasRefunds       *uint256.Int
	gasUsed          uint64
	etherDelta       *uint256.Int
	txTrieRoot       common.Hash
	receiptsTrieRoot common.Hash
	txCount          int
	stateRoot        common.Hash
}

// Block assembles a header, its uncles, and the state/transaction/
// receipts tries it was constructed from or replayed into (spec.md §3,
// §4.6). It never stores mutable trie roots on the header itself — see
// Header ↔ Block aliasing, spec.md §9.
type Block struct {
	db     ethdb.Database
	header types.Header // as received; never overwritten with live roots
	uncles []types.Header

	cache        *state.Cache
	txTrie       *trie.Trie
	receiptsTrie *trie.Trie

	transactions types.Transactions
	receipts     []*types.Receipt
	logs         []types.Log
	suicides     []common.Address
	gasRefunds   *uint256.Int
	etherDelta   *uint256.Int
	gasUsed      uint64

	bloomOverride *common.Bloom // set by the trust path, which never decodes receipts

	parent *Block
	engine consensus.PoW
	sealed bool
}

// NewBlock constructs and fully validates a Block from (header, txs,
// uncles) against an optional parent, either trusting header.state_root
// or replaying every transaction through executor (spec.md §4.6).
func NewBlock(db ethdb.Database, header types.Header, txs types.Transactions, uncles []types.Header, parent *Block, making bool, executor Executor, engine consensus.PoW) (*Block, error) {
	if db == nil {
		return nil, malformed("nil database")
	}
	if err := header.Validate(); err != nil {
		return nil, err
	}
	if parent != nil {
		if header.PrevHash != parent.Hash() {
			return nil, parentMismatch("prev_hash does not match parent hash")
		}
		if header.Number != parent.header.Number+1 {
			return nil, parentMismatch("number is not parent.number + 1")
		}
		if !consensus.CheckGasLimit(parent.header.GasLimit, header.GasLimit) {
			return nil, parentMismatch("gas_limit outside the permitted delta of parent")
		}
		wantDiff := ethash.CalcDifficulty(parent.header.Difficulty, parent.header.Timestamp, header.Timestamp)
		if header.Difficulty.Cmp(wantDiff) != 0 {
			return nil, parentMismatch("difficulty does not match calc_difficulty(parent, timestamp)")
		}
	}

	validated, err := isValidated(db, header.Hash())
	if err != nil {
		return nil, err
	}
	trustPath := validated || header.IsGenesis() || header.StateRoot == trie.EmptyRoot || making

	b := &Block{
		db:           db,
		header:       header,
		uncles:       uncles,
		transactions: txs,
		gasRefunds:   new(uint256.Int),
		etherDelta:   new(uint256.Int),
		parent:       parent,
		engine:       engine,
	}

	if trustPath {
		if err := b.buildTrustPath(); err != nil {
			return nil, err
		}
	} else {
		if err := b.buildReplayPath(executor); err != nil {
			return nil, err
		}
	}

	if err := b.verifyAgainstHeader(); err != nil {
		return nil, err
	}
	if err := b.verifyUncles(); err != nil {
		return nil, err
	}
	if !header.IsGenesis() && len(header.Nonce) != 0 {
		if err := header.CheckPoW(engine, header.Nonce); err != nil {
			return nil, err
		}
	}

	hash := b.Hash()
	if err := markValidated(db, hash); err != nil {
		return nil, err
	}
	if err := storeBlockRecord(db, hash[:], b.header, b.uncles); err != nil {
		return nil, err
	}
	return b, nil
}

// buildTrustPath loads the state trie directly at header.state_root,
// checks the incoming transactions against header.tx_list_root, and
// discards the placeholder receipts trie it built along the way in
// favor of one loaded at header.receipts_root — preserved intentionally
// (spec.md §9 open question 4).
func (b *Block) buildTrustPath() error {
	cache, err := state.New(b.db, b.header.StateRoot)
	if err != nil {
		return err
	}
	b.cache = cache

	txTrie, err := trie.New(b.db, common.Hash{})
	if err != nil {
		return err
	}
	placeholderReceipts, err := trie.New(b.db, common.Hash{})
	if err != nil {
		return err
	}

	for i, tx := range b.transactions {
		key, err := rlp.EncodeToBytes(uint64(i))
		if err != nil {
			return err
		}
		enc, err := tx.EncodeRLP()
		if err != nil {
			return err
		}
		if err := txTrie.Update(key, enc); err != nil {
			return err
		}

		placeholder := &types.Receipt{PostStateRoot: cache.StateRoot(), CumulativeGasUsed: 0, Bloom: common.Bloom{}}
		encR, err := rlp.EncodeToBytes(*placeholder)
		if err != nil {
			return err
		}
		if err := placeholderReceipts.Update(key, encR); err != nil {
			return err
		}
	}

	if txTrie.RootHash() != b.header.TxListRoot {
		return verificationFailed("tx_list_root", txTrie.RootHash(), b.header.TxListRoot)
	}
	b.txTrie = txTrie

	receiptsTrie, err := trie.New(b.db, b.header.ReceiptsRoot)
	if err != nil {
		return err
	}
	b.receiptsTrie = receiptsTrie
	b.gasUsed = b.header.GasUsed
	bloom := b.header.Bloom
	b.bloomOverride = &bloom
	return nil
}

// buildReplayPath loads the state trie at the parent's current root and
// replays every transaction through executor, which drives the Block's
// own cache/journal and log/receipt accumulation, then finalizes.
func (b *Block) buildReplayPath(executor Executor) error {
	if b.parent == nil {
		return parentMismatch("replay path requires a parent block")
	}
	if executor == nil {
		return malformed("replay path requires an executor")
	}

	parentHeader := b.parent.Header()
	cache, err := state.New(b.db, parentHeader.StateRoot)
	if err != nil {
		return err
	}
	b.cache = cache

	txTrie, err := trie.New(b.db, common.Hash{})
	if err != nil {
		return err
	}
	receiptsTrie, err := trie.New(b.db, common.Hash{})
	if err != nil {
		return err
	}
	b.txTrie = txTrie
	b.receiptsTrie = receiptsTrie
	b.gasUsed = 0

	for i, tx := range b.transactions {
		key, err := rlp.EncodeToBytes(uint64(i))
		if err != nil {
			return err
		}
		enc, err := tx.EncodeRLP()
		if err != nil {
			return err
		}
		if err := b.txTrie.Update(key, enc); err != nil {
			return err
		}
		if _, _, err := executor.ApplyTransaction(b, tx); err != nil {
			return err
		}
	}

	return b.Finalize()
}

// Finalize applies the block reward (and nephew fee) to the coinbase and
// each uncle's own reward to its coinbase, then flushes the cache to the
// state trie (spec.md §4.6 "Reward finalization").
func (b *Block) Finalize() error {
	reward := consensus.BlockReward()
	nephew := new(uint256.Int).Mul(consensus.NephewReward(), uint256.NewInt(uint64(len(b.uncles))))
	total := new(uint256.Int).Add(reward, nephew)
	if _, err := b.cache.Delta(b.header.Coinbase, total, false); err != nil {
		return err
	}
	for _, uncle := range b.uncles {
		ur := consensus.UncleReward(b.header.Number, uncle.Number)
		if _, err := b.cache.Delta(uncle.Coinbase, ur, false); err != nil {
			return err
		}
	}
	if err := b.cache.CommitState(); err != nil {
		return err
	}
	b.sealed = true
	return nil
}

// Header returns a snapshot of b's header with state_root, tx_list_root,
// receipts_root, bloom, gas_used, and uncles_hash always reflecting b's
// current live tries (spec.md invariant 10).
func (b *Block) Header() types.Header {
	h := b.header
	h.StateRoot = b.cache.StateRoot()
	h.TxListRoot = b.txTrie.RootHash()
	h.ReceiptsRoot = b.receiptsTrie.RootHash()
	h.Bloom = b.bloom()
	h.GasUsed = b.gasUsed
	h.UnclesHash = b.unclesHash()
	return h
}

// Hash is keccak(rlp(b.Header())).
func (b *Block) Hash() common.Hash {
	h := b.Header()
	return h.Hash()
}

func (b *Block) bloom() common.Bloom {
	if b.bloomOverride != nil {
		return *b.bloomOverride
	}
	var bl common.Bloom
	for _, r := range b.receipts {
		bl.OR(r.Bloom)
	}
	return bl
}

func (b *Block) unclesHash() common.Hash {
	enc, err := rlp.EncodeToBytes(b.uncles)
	if err != nil {
		panic("core: uncle headers always encodable: " + err.Error())
	}
	return crypto.Keccak256(enc)
}

func (b *Block) verifyAgainstHeader() error {
	live := b.Header()
	if b.gasUsed != b.header.GasUsed {
		return verificationFailed("gas_used", b.gasUsed, b.header.GasUsed)
	}
	if live.Bloom != b.header.Bloom {
		return verificationFailed("bloom", live.Bloom, b.header.Bloom)
	}
	if live.UnclesHash != b.header.UnclesHash {
		return verificationFailed("uncles_hash", live.UnclesHash, b.header.UnclesHash)
	}
	if live.StateRoot != b.header.StateRoot {
		return verificationFailed("state_root", live.StateRoot, b.header.StateRoot)
	}
	if live.TxListRoot != b.header.TxListRoot {
		return verificationFailed("tx_list_root", live.TxListRoot, b.header.TxListRoot)
	}
	if live.ReceiptsRoot != b.header.ReceiptsRoot {
		return verificationFailed("receipts_root", live.ReceiptsRoot, b.header.ReceiptsRoot)
	}
	return nil
}

func (b *Block) verifyUncles() error {
	if len(b.uncles) > MaxUncles {
		blockLog.Warn("rejecting block: too many uncles", "count", len(b.uncles), "max", MaxUncles)
		return verificationFailed("uncles", len(b.uncles), MaxUncles)
	}
	if len(b.uncles) == 0 || b.header.IsGenesis() {
		return nil
	}

	ancestors, err := b.GetAncestorList(MaxUncleDepth)
	if err != nil {
		return err
	}

	included := mapset.NewSet[common.Hash]()
	for d := 1; d <= MaxUncleDepth && d < len(ancestors); d++ {
		entry := ancestors[d]
		if entry == nil {
			continue
		}
		included.Add(entry.Header.Hash())
		for _, u := range entry.Uncles {
			included.Add(u.Hash())
		}
	}

	seenHere := mapset.NewSet[common.Hash]()
	for i := range b.uncles {
		uncle := b.uncles[i]
		if !uncle.IsGenesis() && len(uncle.Nonce) != 0 {
			if err := uncle.CheckPoW(b.engine, uncle.Nonce); err != nil {
				return err
			}
		}

		uncleHash := uncle.Hash()
		if included.Contains(uncleHash) {
			blockLog.Warn("rejecting uncle: already an ancestor or previously included", "uncle", uncleHash.Hex())
			return verificationFailed("uncle", uncleHash.Hex(), "not already an ancestor or previously included uncle")
		}
		if seenHere.Contains(uncleHash) {
			blockLog.Warn("rejecting uncle: duplicated within this block's own uncle list", "uncle", uncleHash.Hex())
			return verificationFailed("uncle", uncleHash.Hex(), "not duplicated within this block's own uncle list")
		}
		seenHere.Add(uncleHash)

		ok := false
		for d := 2; d <= MaxUncleDepth && d < len(ancestors); d++ {
			entry := ancestors[d]
			if entry != nil && uncle.PrevHash == entry.Header.Hash() {
				ok = true
				break
			}
		}
		if !ok {
			return verificationFailed("uncle.prev_hash", uncle.PrevHash.Hex(), "an ancestor at depth 2..6")
		}
	}
	return nil
}

func isValidated(db ethdb.Database, hash common.Hash) (bool, error) {
	return db.Has(ethdb.ValidatedKey(hash[:]))
}

func markValidated(db ethdb.Database, hash common.Hash) error {
	return db.Put(ethdb.ValidatedKey(hash[:]), []byte{1})
}

// --- executor-facing mutators ---------------------------------------------

func (b *Block) GetBalance(addr common.Address) (*uint256.Int, error) { return b.cache.GetBalance(addr) }
func (b *Block) SetBalance(addr common.Address, v *uint256.Int) error { return b.cache.SetBalance(addr, v) }
func (b *Block) Delta(addr common.Address, magnitude *uint256.Int, negative bool) (bool, error) {
	return b.cache.Delta(addr, magnitude, negative)
}
func (b *Block) GetNonce(addr common.Address) (*uint256.Int, error) { return b.cache.GetNonce(addr) }
func (b *Block) SetNonce(addr common.Address, v *uint256.Int) error { return b.cache.SetNonce(addr, v) }
func (b *Block) GetCode(addr common.Address) ([]byte, error)        { return b.cache.GetCode(addr) }
func (b *Block) SetCode(addr common.Address, code []byte) error     { return b.cache.SetCode(addr, code) }
func (b *Block) GetStorageRoot(addr common.Address) (common.Hash, error) {
	return b.cache.GetStorageRoot(addr)
}
func (b *Block) SetStorageRoot(addr common.Address, root common.Hash) error {
	return b.cache.SetStorageRoot(addr, root)
}
func (b *Block) GetStorage(addr common.Address, index uint256.Int) (*uint256.Int, error) {
	return b.cache.GetStorage(addr, index)
}
func (b *Block) SetStorage(addr common.Address, index uint256.Int, value *uint256.Int) error {
	return b.cache.SetStorage(addr, index, value)
}
func (b *Block) ResetStorage(addr common.Address) error { return b.cache.ResetStorage(addr) }
func (b *Block) CommitState() error                     { return b.cache.CommitState() }

// AddReceipt appends r to the receipts trie under RLP(index) and updates
// the block's running gas_used from r.CumulativeGasUsed (spec.md §4.6,
// executor contract: "emits a receipt appended to the receipts trie").
func (b *Block) AddReceipt(r *types.Receipt) error {
	key, err := rlp.EncodeToBytes(uint64(len(b.receipts)))
	if err != nil {
		return err
	}
	enc, err := rlp.EncodeToBytes(*r)
	if err != nil {
		return err
	}
	if err := b.receiptsTrie.Update(key, enc); err != nil {
		return err
	}
	b.receipts = append(b.receipts, r)
	b.gasUsed = r.CumulativeGasUsed
	return nil
}

// AddLog appends l to the block's transient log buffer (spec.md §6,
// executor contract: "appends logs via add_log").
func (b *Block) AddLog(l types.Log) { b.logs = append(b.logs, l) }

// AddSuicide records addr as self-destructed during this block's execution.
func (b *Block) AddSuicide(addr common.Address) { b.suicides = append(b.suicides, addr) }

// AddGasRefund accumulates a pending gas refund.
func (b *Block) AddGasRefund(amount *uint256.Int) {
	b.gasRefunds = new(uint256.Int).Add(b.gasRefunds, amount)
}

// AddEtherDelta accumulates the running net-ether accounting figure the
// executor uses for its own sanity checks; the engine does not interpret
// it beyond carrying it through Snapshot/Revert.
func (b *Block) AddEtherDelta(magnitude *uint256.Int, negative bool) {
	if negative {
		b.etherDelta = new(uint256.Int).Sub(b.etherDelta, magnitude)
		return
	}
	b.etherDelta = new(uint256.Int).Add(b.etherDelta, magnitude)
}

// Snapshot captures every piece of transient execution state (spec.md
// §4.5 "snapshot()").
func (b *Block) Snapshot() Snapshot {
	return Snapshot{
		journalLen:       b.cache.Snapshot(),
		suicidesLen:      len(b.suicides),
		logsLen:          len(b.logs),
		gasRefunds:       new(uint256.Int).Set(b.gasRefunds),
		gasUsed:          b.gasUsed,
		etherDelta:       new(uint256.Int).Set(b.etherDelta),
		txTrieRoot:       b.txTrie.RootHash(),
		receiptsTrieRoot: b.receiptsTrie.RootHash(),
		txCount:          len(b.receipts),
		stateRoot:        b.cache.StateRoot(),
	}
}

// Revert restores every value Snapshot captured, undoing the cache's
// journal in LIFO order (spec.md invariant 7). The transaction and
// receipts tries are append-only within a single transaction's
// execution window — nothing ever mutates them before that
// transaction's own snapshot is taken — so their captured roots are
// reopened defensively rather than ever actually differing in practice.
func (b *Block) Revert(snap Snapshot) {
	blockLog.Debug("reverting block execution state", "journal_len", snap.journalLen, "gas_used", snap.gasUsed)
	b.cache.Revert(snap.journalLen)
	if b.cache.StateRoot() != snap.stateRoot {
		_ = b.cache.SetRoot(snap.stateRoot)
	}
	b.suicides = b.suicides[:snap.suicidesLen]
	b.logs = b.logs[:snap.logsLen]
	b.gasRefunds = snap.gasRefunds
	b.gasUsed = snap.gasUsed
	b.etherDelta = snap.etherDelta
	if b.txTrie.RootHash() != snap.txTrieRoot {
		if t, err := trie.New(b.db, snap.txTrieRoot); err == nil {
			b.txTrie = t
		}
	}
	if b.receiptsTrie.RootHash() != snap.receiptsTrieRoot {
		if t, err := trie.New(b.db, snap.receiptsTrieRoot); err == nil {
			b.receiptsTrie = t
		}
		b.receipts = b.receipts[:snap.txCount]
	}
}
