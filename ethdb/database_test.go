package ethdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subnatant/ethcore/ethdb"
)

func TestValidatedKeyIsPrefixed(t *testing.T) {
	key := ethdb.ValidatedKey([]byte{0xab})
	assert.Equal(t, append(append([]byte{}, "validated:"...), 0xab), key)
}

func TestDifficultyKeyIsPrefixed(t *testing.T) {
	key := ethdb.DifficultyKey("deadbeef")
	assert.Equal(t, []byte("difficulty:deadbeef"), key)
}

func TestBlockKeyIsPrefixed(t *testing.T) {
	key := ethdb.BlockKey([]byte{0xcd})
	assert.Equal(t, append(append([]byte{}, "block:"...), 0xcd), key)
}

func TestKeyBuildersDoNotAliasPrefix(t *testing.T) {
	k1 := ethdb.ValidatedKey([]byte{0x01})
	k1[0] = 'X'
	k2 := ethdb.ValidatedKey([]byte{0x02})
	assert.Equal(t, byte('v'), k2[0])
}
