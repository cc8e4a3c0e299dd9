package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/pkg/gderrors"
)

func TestOpenCloseRoundTrip(t *testing.T) {
	dir := t.TempDir()

	env, err := Open(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, env.EnsureBucket("widgets"))

	txn, err := env.Begin(true)
	require.NoError(t, err)
	b, err := txn.Bucket("widgets")
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("a"), []byte("1")))
	require.NoError(t, txn.Commit())

	ro, err := env.Begin(false)
	require.NoError(t, err)
	rb, err := ro.Bucket("widgets")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), rb.Get([]byte("a")))
	require.NoError(t, ro.Rollback())

	require.NoError(t, env.Close())
}

func TestSecondOpenIsRejectedWhileFirstIsOpen(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, Options{})
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(dir, Options{})
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeContextLocked, gderrors.CodeOf(err))
}

func TestOpenSucceedsAfterPriorCloseReleasesLock(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dir, Options{})
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestWriteRejectedOnReadOnlyTxn(t *testing.T) {
	dir := t.TempDir()
	env, err := Open(dir, Options{})
	require.NoError(t, err)
	defer env.Close()
	require.NoError(t, env.EnsureBucket("widgets"))

	txn, err := env.Begin(false)
	require.NoError(t, err)
	defer txn.Rollback()

	_, err = txn.CreateBucketIfNotExists("other")
	assert.Error(t, err)
}

func TestDupCursorIteratesOnlyMatchingPrefix(t *testing.T) {
	dir := t.TempDir()
	env, err := Open(dir, Options{})
	require.NoError(t, err)
	defer env.Close()
	require.NoError(t, env.EnsureBucket("incidence"))

	txn, err := env.Begin(true)
	require.NoError(t, err)
	b, err := txn.Bucket("incidence")
	require.NoError(t, err)

	entries := map[string]string{
		"v1|e1": "edge1",
		"v1|e2": "edge2",
		"v1|e3": "edge3",
		"v2|e1": "other-edge",
	}
	for k, v := range entries {
		require.NoError(t, b.Put([]byte(k), []byte(v)))
	}
	require.NoError(t, txn.Commit())

	ro, err := env.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	rb, err := ro.Bucket("incidence")
	require.NoError(t, err)

	dc := rb.NewDupCursor([]byte("v1|"))
	var got []string
	for kv, ok := dc.First(); ok; kv, ok = dc.Next() {
		got = append(got, string(kv.Value))
	}
	assert.ElementsMatch(t, []string{"edge1", "edge2", "edge3"}, got)
}

func TestSeekExactDistinguishesAbsentFromNext(t *testing.T) {
	dir := t.TempDir()
	env, err := Open(dir, Options{})
	require.NoError(t, err)
	defer env.Close()
	require.NoError(t, env.EnsureBucket("widgets"))

	txn, err := env.Begin(true)
	require.NoError(t, err)
	b, err := txn.Bucket("widgets")
	require.NoError(t, err)
	require.NoError(t, b.Put([]byte("b"), []byte("2")))
	require.NoError(t, txn.Commit())

	ro, err := env.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	rb, err := ro.Bucket("widgets")
	require.NoError(t, err)

	_, ok := rb.Cursor().SeekExact([]byte("a"))
	assert.False(t, ok)

	kv, ok := rb.Cursor().SeekExact([]byte("b"))
	assert.True(t, ok)
	assert.Equal(t, []byte("2"), kv.Value)
}
