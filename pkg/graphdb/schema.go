package graphdb

import (
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/types"
)

// AddClass registers a new class, optionally deriving from base.
func (t *Transaction) AddClass(name string, kind types.ClassKind, base *types.ClassId) (types.ClassId, error) {
	if err := t.requireWritable(); err != nil {
		return 0, err
	}
	return t.txn.Overlay().AddClass(name, kind, base)
}

// DropClass removes class, enforcing the "class must have no live records"
// invariant (§4.3, §9's resolved Open Question) that pkg/catalog itself
// cannot see.
func (t *Transaction) DropClass(class types.ClassId) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	empty, err := t.records.IsClassEmpty(t.txn.KV(), class)
	if err != nil {
		return err
	}
	if !empty {
		return gderrors.Usage(gderrors.CodeClassNotEmpty, "class %d still has records", class)
	}
	return t.txn.Overlay().DropClass(class)
}

// RenameClass changes a class's name.
func (t *Transaction) RenameClass(class types.ClassId, newName string) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	return t.txn.Overlay().RenameClass(class, newName)
}

// AddSubClassOf sets class's base class.
func (t *Transaction) AddSubClassOf(class, base types.ClassId) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	return t.txn.Overlay().AddSubClassOf(class, base)
}

// AddProperty declares a new property on class.
func (t *Transaction) AddProperty(class types.ClassId, name string, propType types.PropertyType) (types.PropertyId, error) {
	if err := t.requireWritable(); err != nil {
		return 0, err
	}
	return t.txn.Overlay().AddProperty(class, name, propType)
}

// DropProperty removes a property and any index built on it.
func (t *Transaction) DropProperty(propID types.PropertyId) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	return t.txn.Overlay().DropProperty(propID)
}

// RenameProperty changes a property's name.
func (t *Transaction) RenameProperty(propID types.PropertyId, newName string) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	return t.txn.Overlay().RenameProperty(propID, newName)
}

// AddIndex creates a secondary index on class/prop and backfills it from
// every record class currently holds (§4.6).
func (t *Transaction) AddIndex(class types.ClassId, prop types.PropertyId, unique bool) (types.IndexId, error) {
	if err := t.requireWritable(); err != nil {
		return 0, err
	}
	idxID, err := t.txn.Overlay().CreateIndex(class, prop, unique)
	if err != nil {
		return 0, err
	}
	desc, _ := t.txn.Overlay().Snapshot().Index(idxID)

	snap := t.txn.Overlay().Snapshot()
	propDesc, ok := snap.Property(prop)
	if !ok {
		return 0, gderrors.Usage(gderrors.CodeNoExistProperty, "property %d does not exist", prop)
	}

	cur, err := t.records.ScanClass(t.txn.KV(), snap, class)
	if err != nil {
		return 0, err
	}
	var entries []struct {
		Rid   types.RecordId
		Value types.Value
	}
	for rid, rec, ok := cur.First(); ok; rid, rec, ok = cur.Next() {
		v, present := rec.Get(propDesc.Name)
		if !present {
			continue
		}
		entries = append(entries, struct {
			Rid   types.RecordId
			Value types.Value
		}{Rid: rid, Value: v})
	}
	if err := t.indexes.Reindex(t.txn.KV(), desc, entries); err != nil {
		return 0, err
	}
	return idxID, nil
}

// DropIndex removes an index registration and its backing sub-database.
func (t *Transaction) DropIndex(id types.IndexId) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	if err := t.txn.Overlay().DropIndex(id); err != nil {
		return err
	}
	return t.indexes.Drop(t.txn.KV(), id)
}

// GetClass looks up a class by name.
func (t *Transaction) GetClass(name string) (types.ClassDescriptor, bool) {
	return t.txn.Snapshot().ClassByName(name)
}

// GetProperty looks up a property by class and name.
func (t *Transaction) GetProperty(class types.ClassId, name string) (types.PropertyDescriptor, bool) {
	return t.txn.Snapshot().PropertyByName(class, name)
}

// GetIndex looks up the index, if any, on class/prop.
func (t *Transaction) GetIndex(class types.ClassId, prop types.PropertyId) (types.IndexDescriptor, bool) {
	return t.txn.Snapshot().IndexFor(class, prop)
}
