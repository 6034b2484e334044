package trie_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/ethdb/memorydb"
	"github.com/subnatant/ethcore/trie"
)

func TestSecureTrieUpdateThenGet(t *testing.T) {
	db := memorydb.New()
	st, err := trie.NewSecure(db, trie.EmptyRoot)
	require.NoError(t, err)
	require.NoError(t, st.Update([]byte("addr1"), []byte("account1")))
	v, err := st.Get([]byte("addr1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("account1"), v)
}

func TestSecureTrieRootDiffersFromPlainTrieForSameKey(t *testing.T) {
	db := memorydb.New()
	plain, err := trie.New(db, trie.EmptyRoot)
	require.NoError(t, err)
	require.NoError(t, plain.Update([]byte("addr1"), []byte("v")))

	st, err := trie.NewSecure(db, trie.EmptyRoot)
	require.NoError(t, err)
	require.NoError(t, st.Update([]byte("addr1"), []byte("v")))

	assert.NotEqual(t, plain.RootHash(), st.RootHash())
}

func TestSecureTrieToDictRecoversOriginalKeys(t *testing.T) {
	db := memorydb.New()
	st, err := trie.NewSecure(db, trie.EmptyRoot)
	require.NoError(t, err)
	require.NoError(t, st.Update([]byte("addr1"), []byte("v1")))
	require.NoError(t, st.Update([]byte("addr2"), []byte("v2")))

	dict, err := st.ToDict()
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"addr1": []byte("v1"),
		"addr2": []byte("v2"),
	}, dict)
}

func TestSecureTrieToDictFallsBackToHashedKeyWithoutPreimage(t *testing.T) {
	db := memorydb.New()
	st, err := trie.NewSecure(db, trie.EmptyRoot)
	require.NoError(t, err)
	require.NoError(t, st.Update([]byte("addr1"), []byte("v1")))
	root := st.RootHash()

	reopened, err := trie.NewSecure(db, root)
	require.NoError(t, err)
	dict, err := reopened.ToDict()
	require.NoError(t, err)
	require.Len(t, dict, 1)
	for k := range dict {
		assert.NotEqual(t, "addr1", k)
	}
}

func TestSecureTrieDelete(t *testing.T) {
	db := memorydb.New()
	st, err := trie.NewSecure(db, trie.EmptyRoot)
	require.NoError(t, err)
	require.NoError(t, st.Update([]byte("addr1"), []byte("v1")))
	require.NoError(t, st.Delete([]byte("addr1")))
	v, err := st.Get([]byte("addr1"))
	require.NoError(t, err)
	assert.Nil(t, v)
}
