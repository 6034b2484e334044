package core

import (
	"github.com/BurntSushi/toml"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/consensus"
	"github.com/subnatant/ethcore/consensus/ethash"
	"github.com/subnatant/ethcore/core/state"
	"github.com/subnatant/ethcore/core/types"
	"github.com/subnatant/ethcore/crypto"
	"github.com/subnatant/ethcore/ethdb"
	"github.com/subnatant/ethcore/rlp"
	"github.com/subnatant/ethcore/trie"
)

// GenesisAlloc is one entry of a genesis spec's initial balance table.
type GenesisAlloc struct {
	Balance string `toml:"balance"`
}

// GenesisSpec is the config-file counterpart of spec.md §6's
// "genesis(db, start_alloc, difficulty)": initial balances plus the
// header fields a network operator chooses (everything else is the
// fixed GENESIS_* constants).
type GenesisSpec struct {
	Alloc      map[string]GenesisAlloc `toml:"alloc"`
	Difficulty uint64                  `toml:"difficulty"`
	GasLimit   uint64                  `toml:"gas_limit"`
	Timestamp  uint64                  `toml:"timestamp"`
	ExtraData  string                  `toml:"extra_data"`
}

// LoadGenesisSpec parses a TOML genesis file at path, defaulting
// gas_limit and difficulty to the protocol constants when left at zero.
func LoadGenesisSpec(path string) (*GenesisSpec, error) {
	var spec GenesisSpec
	if _, err := toml.DecodeFile(path, &spec); err != nil {
		return nil, errors.Wrap(err, "core: decode genesis spec")
	}
	if spec.GasLimit == 0 {
		spec.GasLimit = GenesisGasLimit
	}
	if spec.Difficulty == 0 {
		spec.Difficulty = GenesisDifficulty
	}
	return &spec, nil
}

// Genesis protocol constants, spec.md §6.
const (
	GenesisDifficulty = ethash.MinDifficulty
	GenesisGasLimit   = 3141592
)

// BuildGenesis applies spec's initial balances to a fresh state trie and
// constructs the genesis Block from them (spec.md §6, §8 scenario S1).
func BuildGenesis(db ethdb.Database, spec *GenesisSpec, engine consensus.PoW) (*Block, error) {
	cache, err := state.New(db, common.Hash{})
	if err != nil {
		return nil, err
	}
	for addrHex, alloc := range spec.Alloc {
		addrBytes, err := common.ParseHex(addrHex)
		if err != nil {
			return nil, errors.Wrapf(err, "core: genesis alloc address %q", addrHex)
		}
		addr := common.BytesToAddress(addrBytes)
		balance, err := uint256.FromDecimal(alloc.Balance)
		if err != nil {
			return nil, errors.Wrapf(err, "core: genesis alloc balance %q", alloc.Balance)
		}
		if err := cache.SetBalance(addr, balance); err != nil {
			return nil, err
		}
	}
	if err := cache.CommitState(); err != nil {
		return nil, err
	}

	txTrie, err := trie.New(db, common.Hash{})
	if err != nil {
		return nil, err
	}
	receiptsTrie, err := trie.New(db, common.Hash{})
	if err != nil {
		return nil, err
	}
	unclesEnc, err := rlp.EncodeToBytes([]types.Header{})
	if err != nil {
		return nil, err
	}

	header := types.Header{
		PrevHash:     types.GenesisPrevHash,
		UnclesHash:   crypto.Keccak256(unclesEnc),
		Coinbase:     types.GenesisCoinbase,
		StateRoot:    cache.StateRoot(),
		TxListRoot:   txTrie.RootHash(),
		ReceiptsRoot: receiptsTrie.RootHash(),
		Difficulty:   uint256.NewInt(spec.Difficulty),
		Number:       0,
		GasLimit:     spec.GasLimit,
		GasUsed:      0,
		Timestamp:    spec.Timestamp,
		ExtraData:    []byte(spec.ExtraData),
		MixHash:      types.GenesisMixHash,
		Nonce:        types.GenesisNonce,
	}

	return NewBlock(db, header, nil, nil, nil, true, nil, engine)
}
