package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

func openTestEnv(t *testing.T) *kv.Engine {
	t.Helper()
	engine, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func commitOverlay(t *testing.T, engine *kv.Engine, cat *Catalog, fn func(o *OverlayTx) error) *Snapshot {
	t.Helper()
	txn, err := engine.Begin(true)
	require.NoError(t, err)

	overlay, err := cat.Begin(txn)
	require.NoError(t, err)
	require.NoError(t, fn(overlay))
	require.NoError(t, cat.Stage(txn, overlay))
	require.NoError(t, txn.Commit())
	return cat.Publish(overlay)
}

func TestAddClassAndProperty(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	var personID types.ClassId
	snap := commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		var err error
		personID, err = o.AddClass("Person", types.ClassKindVertex, nil)
		if err != nil {
			return err
		}
		_, err = o.AddProperty(personID, "name", types.PropertyText)
		return err
	})

	c, ok := snap.ClassByName("Person")
	require.True(t, ok)
	assert.Equal(t, personID, c.ID)

	p, ok := snap.PropertyByName(personID, "name")
	require.True(t, ok)
	assert.Equal(t, types.PropertyText, p.Type)
}

func TestAddClassDuplicateNameFails(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		_, err := o.AddClass("Person", types.ClassKindVertex, nil)
		return err
	})

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	defer txn.Rollback()
	overlay, err := cat.Begin(txn)
	require.NoError(t, err)

	_, err = overlay.AddClass("Person", types.ClassKindVertex, nil)
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeDuplicateClass, gderrors.CodeOf(err))
}

func TestEffectivePropertiesWalksInheritanceChain(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	var animalID, dogID types.ClassId
	snap := commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		var err error
		animalID, err = o.AddClass("Animal", types.ClassKindVertex, nil)
		if err != nil {
			return err
		}
		if _, err = o.AddProperty(animalID, "legs", types.PropertyInt); err != nil {
			return err
		}
		dogID, err = o.AddClass("Dog", types.ClassKindVertex, &animalID)
		if err != nil {
			return err
		}
		_, err = o.AddProperty(dogID, "breed", types.PropertyText)
		return err
	})

	props, err := snap.EffectiveProperties(dogID)
	require.NoError(t, err)
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	assert.ElementsMatch(t, []string{"legs", "breed"}, names)
}

func TestAddSubClassOfRejectsCycle(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	var aID, bID types.ClassId
	commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		var err error
		aID, err = o.AddClass("A", types.ClassKindVertex, nil)
		if err != nil {
			return err
		}
		bID, err = o.AddClass("B", types.ClassKindVertex, &aID)
		return err
	})

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	defer txn.Rollback()
	overlay, err := cat.Begin(txn)
	require.NoError(t, err)

	err = overlay.AddSubClassOf(aID, bID)
	require.Error(t, err)
}

// Dropping a class that another class derives from does not cascade the
// deletion to the subclass; instead the subclass's Base is rewritten to the
// dropped class's own base, preserving the inheritance forest (§4.3).
func TestDropClassRewritesSubclassBase(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	var livingID, animalID, dogID types.ClassId
	commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		var err error
		livingID, err = o.AddClass("Living", types.ClassKindVertex, nil)
		if err != nil {
			return err
		}
		animalID, err = o.AddClass("Animal", types.ClassKindVertex, &livingID)
		if err != nil {
			return err
		}
		dogID, err = o.AddClass("Dog", types.ClassKindVertex, &animalID)
		return err
	})

	snap := commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		return o.DropClass(animalID)
	})

	_, ok := snap.Class(animalID)
	assert.False(t, ok, "Animal should no longer exist")

	dog, ok := snap.Class(dogID)
	require.True(t, ok)
	require.NotNil(t, dog.Base)
	assert.Equal(t, livingID, *dog.Base, "Dog's base should be rewritten to Animal's own base")
}

// DropClass removes not just the property rows it owns but any index rows
// built on those properties, so no IndexDescriptor is left dangling
// against a class/property that no longer exists (§4.3).
func TestDropClassRemovesOwnedIndexes(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	var classID types.ClassId
	var propID types.PropertyId
	var indexID types.IndexId
	commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		var err error
		classID, err = o.AddClass("Person", types.ClassKindVertex, nil)
		if err != nil {
			return err
		}
		propID, err = o.AddProperty(classID, "age", types.PropertyInt)
		if err != nil {
			return err
		}
		indexID, err = o.CreateIndex(classID, propID, false)
		return err
	})

	snap := commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		return o.DropClass(classID)
	})

	_, ok := snap.Index(indexID)
	assert.False(t, ok, "index built on the dropped class's property must not survive")
	_, ok = snap.IndexFor(classID, propID)
	assert.False(t, ok)
}

func TestCreateIndexRejectsBlobProperty(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	var classID types.ClassId
	var propID types.PropertyId
	commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		var err error
		classID, err = o.AddClass("Doc", types.ClassKindVertex, nil)
		if err != nil {
			return err
		}
		propID, err = o.AddProperty(classID, "payload", types.PropertyBlob)
		return err
	})

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	defer txn.Rollback()
	overlay, err := cat.Begin(txn)
	require.NoError(t, err)

	_, err = overlay.CreateIndex(classID, propID, false)
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeInvalidPropType, gderrors.CodeOf(err))
}

func TestPublishedSnapshotSurvivesAcrossCatalogReopen(t *testing.T) {
	engine := openTestEnv(t)
	cat, err := Open(engine)
	require.NoError(t, err)

	commitOverlay(t, engine, cat, func(o *OverlayTx) error {
		_, err := o.AddClass("Person", types.ClassKindVertex, nil)
		return err
	})

	reopened, err := Open(engine)
	require.NoError(t, err)
	_, ok := reopened.Current().ClassByName("Person")
	assert.True(t, ok)
}
