package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/common"
)

func TestBytesToHashRightAligns(t *testing.T) {
	h := common.BytesToHash([]byte{0x01, 0x02})
	want := common.Hash{}
	want[common.HashLength-1] = 0x02
	want[common.HashLength-2] = 0x01
	assert.Equal(t, want, h)
}

func TestBytesToHashTruncatesFromLeft(t *testing.T) {
	long := make([]byte, common.HashLength+4)
	for i := range long {
		long[i] = byte(i)
	}
	h := common.BytesToHash(long)
	assert.Equal(t, long[4:], h.Bytes())
}

func TestHashIsZero(t *testing.T) {
	var h common.Hash
	assert.True(t, h.IsZero())
	h[0] = 1
	assert.False(t, h.IsZero())
}

func TestHashLess(t *testing.T) {
	a := common.BytesToHash([]byte{0x01})
	b := common.BytesToHash([]byte{0x02})
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestAddressBytesToAddress(t *testing.T) {
	a := common.BytesToAddress([]byte{0xff})
	assert.Equal(t, byte(0xff), a[common.AddressLength-1])
	assert.True(t, common.Address{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestParseHexAcceptsPrefixAndOddLength(t *testing.T) {
	b, err := common.ParseHex("0xabc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0a, 0xbc}, b)

	b2, err := common.ParseHex("abc")
	require.NoError(t, err)
	assert.Equal(t, b, b2)
}

func TestParseHexRejectsInvalid(t *testing.T) {
	_, err := common.ParseHex("0xzz")
	assert.Error(t, err)
}

func TestHexRoundTrip(t *testing.T) {
	h := common.BytesToHash([]byte{0xde, 0xad, 0xbe, 0xef})
	b, err := common.ParseHex(h.Hex())
	require.NoError(t, err)
	assert.Equal(t, h, common.BytesToHash(b))
}
