package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/pkg/catalog"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

func setup(t *testing.T) (*kv.Engine, *catalog.Catalog, types.ClassId) {
	t.Helper()
	engine, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })

	cat, err := catalog.Open(engine)
	require.NoError(t, err)

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	overlay, err := cat.Begin(txn)
	require.NoError(t, err)
	classID, err := overlay.AddClass("Person", types.ClassKindVertex, nil)
	require.NoError(t, err)
	_, err = overlay.AddProperty(classID, "name", types.PropertyText)
	require.NoError(t, err)
	_, err = overlay.AddProperty(classID, "age", types.PropertyInt)
	require.NoError(t, err)
	require.NoError(t, cat.Stage(txn, overlay))
	require.NoError(t, txn.Commit())
	cat.Publish(overlay)

	return engine, cat, classID
}

func TestAddAndGetRecord(t *testing.T) {
	engine, cat, classID := setup(t)
	store := New()

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	rec := types.NewRecord().Set("name", types.TextValue("ada")).Set("age", types.IntValue(types.PropertyInt, 30))
	rid, err := store.AddRecord(txn, cat.Current(), classID, rec)
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	got, err := store.GetRecord(ro, cat.Current(), rid)
	require.NoError(t, err)
	name, ok := got.Get("name")
	require.True(t, ok)
	assert.Equal(t, "ada", name.Text)
}

func TestAddRecordRejectsUnknownProperty(t *testing.T) {
	engine, cat, classID := setup(t)
	store := New()

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	defer txn.Rollback()
	rec := types.NewRecord().Set("nickname", types.TextValue("ace"))
	_, err = store.AddRecord(txn, cat.Current(), classID, rec)
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeNoExistProperty, gderrors.CodeOf(err))
}

func TestAddRecordRejectsWrongType(t *testing.T) {
	engine, cat, classID := setup(t)
	store := New()

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	defer txn.Rollback()
	rec := types.NewRecord().Set("age", types.TextValue("thirty"))
	_, err = store.AddRecord(txn, cat.Current(), classID, rec)
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeInvalidPropType, gderrors.CodeOf(err))
}

func TestUpdateAndDeleteRecord(t *testing.T) {
	engine, cat, classID := setup(t)
	store := New()

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	rid, err := store.AddRecord(txn, cat.Current(), classID, types.NewRecord().Set("name", types.TextValue("ada")))
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, store.UpdateRecord(txn2, cat.Current(), rid, types.NewRecord().Set("name", types.TextValue("grace"))))
	require.NoError(t, txn2.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	got, err := store.GetRecord(ro, cat.Current(), rid)
	require.NoError(t, err)
	name, _ := got.Get("name")
	assert.Equal(t, "grace", name.Text)
	require.NoError(t, ro.Rollback())

	txn3, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, store.DeleteRecord(txn3, rid))
	require.NoError(t, txn3.Commit())

	ro2, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro2.Rollback()
	_, err = store.GetRecord(ro2, cat.Current(), rid)
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeNoExistRecord, gderrors.CodeOf(err))
}

func TestIsClassEmpty(t *testing.T) {
	engine, cat, classID := setup(t)
	store := New()

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	empty, err := store.IsClassEmpty(txn, classID)
	require.NoError(t, err)
	assert.True(t, empty)

	_, err = store.AddRecord(txn, cat.Current(), classID, types.NewRecord().Set("name", types.TextValue("ada")))
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	txn2, err := engine.Begin(true)
	require.NoError(t, err)
	defer txn2.Rollback()
	empty, err = store.IsClassEmpty(txn2, classID)
	require.NoError(t, err)
	assert.False(t, empty)
}

func TestScanClassIteratesAllRecords(t *testing.T) {
	engine, cat, classID := setup(t)
	store := New()

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	for _, name := range []string{"ada", "grace", "alan"} {
		_, err := store.AddRecord(txn, cat.Current(), classID, types.NewRecord().Set("name", types.TextValue(name)))
		require.NoError(t, err)
	}
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	cur, err := store.ScanClass(ro, cat.Current(), classID)
	require.NoError(t, err)

	var names []string
	for rid, rec, ok := cur.First(); ok; rid, rec, ok = cur.Next() {
		_ = rid
		n, _ := rec.Get("name")
		names = append(names, n.Text)
	}
	assert.ElementsMatch(t, []string{"ada", "grace", "alan"}, names)
}
