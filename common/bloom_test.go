package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subnatant/ethcore/common"
	_ "github.com/subnatant/ethcore/crypto" // wires common.SetKeccak
)

func TestBloomAddAndTest(t *testing.T) {
	var b common.Bloom
	b.Add([]byte("alpha"))
	assert.True(t, b.Test([]byte("alpha")))
}

func TestBloomTestAbsentIsUsuallyFalse(t *testing.T) {
	var b common.Bloom
	b.Add([]byte("alpha"))
	assert.False(t, b.Test([]byte("definitely-not-present-in-filter")))
}

func TestBloomORUnion(t *testing.T) {
	var a, b common.Bloom
	a.Add([]byte("alpha"))
	b.Add([]byte("beta"))
	a.OR(b)
	assert.True(t, a.Test([]byte("alpha")))
	assert.True(t, a.Test([]byte("beta")))
}

func TestBloomBytesToBloomRightAligns(t *testing.T) {
	bl := common.BytesToBloom([]byte{0x01})
	assert.Equal(t, byte(0x01), bl[common.BloomByteLength-1])
}
