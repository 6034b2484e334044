package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subnatant/ethcore/common"
	"github.com/subnatant/ethcore/core/types"
)

type fakeLog struct {
	bloomables [][]byte
}

func (f fakeLog) Bloomables() [][]byte { return f.bloomables }

func TestLogsBloomEmptyIsZero(t *testing.T) {
	b := types.LogsBloom(nil)
	assert.True(t, b == common.Bloom{})
}

func TestLogsBloomFoldsEveryBloomable(t *testing.T) {
	logs := []types.Log{
		fakeLog{bloomables: [][]byte{[]byte("addr1"), []byte("topic1")}},
		fakeLog{bloomables: [][]byte{[]byte("addr2")}},
	}
	b := types.LogsBloom(logs)
	assert.True(t, b.Test([]byte("addr1")))
	assert.True(t, b.Test([]byte("topic1")))
	assert.True(t, b.Test([]byte("addr2")))
}
