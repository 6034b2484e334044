package leveldbdb_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subnatant/ethcore/ethdb"
	"github.com/subnatant/ethcore/ethdb/leveldbdb"
)

func TestPutGetRoundTrip(t *testing.T) {
	db, err := leveldbdb.New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	db, err := leveldbdb.New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Get([]byte("missing"))
	assert.ErrorIs(t, err, ethdb.ErrNotFound)
}

func TestHasAndCommit(t *testing.T) {
	db, err := leveldbdb.New(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	ok, err := db.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	ok, err = db.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NoError(t, db.Commit())
}

func TestReopenPersistsData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	db, err := leveldbdb.New(dir)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db2, err := leveldbdb.New(dir)
	require.NoError(t, err)
	defer db2.Close()
	v, err := db2.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
