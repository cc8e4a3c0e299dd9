package secindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

func openEngine(t *testing.T) *kv.Engine {
	t.Helper()
	engine, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func rid(pos types.PositionId) types.RecordId {
	return types.RecordId{ClassId: 1, Position: pos}
}

func TestUniqueIndexEqLookup(t *testing.T) {
	engine := openEngine(t)
	ix := New()
	desc := types.IndexDescriptor{ID: 1, ClassID: 1, PropID: 1, Unique: true}

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.Insert(txn, desc, rid(0), types.IntValue(types.PropertyInt, 42)))
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	got, err := ix.Lookup(ro, desc, Condition{Op: Eq, Value: types.IntValue(types.PropertyInt, 42)})
	require.NoError(t, err)
	assert.Equal(t, []types.RecordId{rid(0)}, got)
}

func TestUniqueIndexRejectsDuplicateValue(t *testing.T) {
	engine := openEngine(t)
	ix := New()
	desc := types.IndexDescriptor{ID: 1, ClassID: 1, PropID: 1, Unique: true}

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.Insert(txn, desc, rid(0), types.IntValue(types.PropertyInt, 42)))
	err = ix.Insert(txn, desc, rid(1), types.IntValue(types.PropertyInt, 42))
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeDuplicateKey, gderrors.CodeOf(err))
}

func TestNonUniqueIndexAllowsDuplicateValues(t *testing.T) {
	engine := openEngine(t)
	ix := New()
	desc := types.IndexDescriptor{ID: 1, ClassID: 1, PropID: 1, Unique: false}

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.Insert(txn, desc, rid(0), types.IntValue(types.PropertyInt, 42)))
	require.NoError(t, ix.Insert(txn, desc, rid(1), types.IntValue(types.PropertyInt, 42)))
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	got, err := ix.Lookup(ro, desc, Condition{Op: Eq, Value: types.IntValue(types.PropertyInt, 42)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{rid(0), rid(1)}, got)
}

func TestRangeLookups(t *testing.T) {
	engine := openEngine(t)
	ix := New()
	desc := types.IndexDescriptor{ID: 1, ClassID: 1, PropID: 1, Unique: false}

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	for i, v := range []int64{-5, 0, 10, 20, 30} {
		require.NoError(t, ix.Insert(txn, desc, rid(types.PositionId(i)), types.IntValue(types.PropertyBigInt, v)))
	}
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()

	ge, err := ix.Lookup(ro, desc, Condition{Op: Ge, Value: types.IntValue(types.PropertyBigInt, 10)})
	require.NoError(t, err)
	assert.Len(t, ge, 3)

	gt, err := ix.Lookup(ro, desc, Condition{Op: Gt, Value: types.IntValue(types.PropertyBigInt, 10)})
	require.NoError(t, err)
	assert.Len(t, gt, 2)

	lt, err := ix.Lookup(ro, desc, Condition{Op: Lt, Value: types.IntValue(types.PropertyBigInt, 10)})
	require.NoError(t, err)
	assert.Len(t, lt, 2)

	le, err := ix.Lookup(ro, desc, Condition{Op: Le, Value: types.IntValue(types.PropertyBigInt, 10)})
	require.NoError(t, err)
	assert.Len(t, le, 3)
}

func TestDeleteRemovesEntry(t *testing.T) {
	engine := openEngine(t)
	ix := New()
	desc := types.IndexDescriptor{ID: 1, ClassID: 1, PropID: 1, Unique: true}

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.Insert(txn, desc, rid(0), types.IntValue(types.PropertyInt, 42)))
	require.NoError(t, txn.Commit())

	txn2, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.Delete(txn2, desc, rid(0), types.IntValue(types.PropertyInt, 42)))
	require.NoError(t, txn2.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	got, err := ix.Lookup(ro, desc, Condition{Op: Eq, Value: types.IntValue(types.PropertyInt, 42)})
	require.NoError(t, err)
	assert.Empty(t, got)
}
