package graphdb

import (
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/types"
)

// AddVertex stores a new record of a VERTEX class and updates any indexes
// declared on its properties.
func (t *Transaction) AddVertex(class types.ClassId, rec *types.Record) (types.RecordId, error) {
	if err := t.requireWritable(); err != nil {
		return types.RecordId{}, err
	}
	snap := t.txn.Snapshot()
	desc, ok := snap.Class(class)
	if !ok {
		return types.RecordId{}, gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", class)
	}
	if desc.Kind != types.ClassKindVertex {
		return types.RecordId{}, gderrors.Usage(gderrors.CodeInvalidClassType, "class %d is not a vertex class", class)
	}

	rid, err := t.records.AddRecord(t.txn.KV(), snap, class, rec)
	if err != nil {
		return types.RecordId{}, err
	}
	if err := t.indexInsert(snap, class, rid, rec); err != nil {
		return types.RecordId{}, err
	}
	return rid, nil
}

// AddEdge stores a new record of an EDGE class connecting from to to, and
// registers it in the relation index. from and to must be existing vertex
// records.
func (t *Transaction) AddEdge(class types.ClassId, from, to types.RecordId, rec *types.Record) (types.RecordId, error) {
	if err := t.requireWritable(); err != nil {
		return types.RecordId{}, err
	}
	snap := t.txn.Snapshot()
	desc, ok := snap.Class(class)
	if !ok {
		return types.RecordId{}, gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", class)
	}
	if desc.Kind != types.ClassKindEdge {
		return types.RecordId{}, gderrors.Usage(gderrors.CodeInvalidClassType, "class %d is not an edge class", class)
	}
	for _, v := range []types.RecordId{from, to} {
		if d, ok := snap.Class(v.ClassId); !ok || d.Kind != types.ClassKindVertex {
			return types.RecordId{}, gderrors.Usage(gderrors.CodeNoExistVertex, "vertex %s does not exist", v)
		}
		if _, err := t.records.GetRecord(t.txn.KV(), snap, v); gderrors.IsCode(err, gderrors.CodeNoExistRecord) {
			return types.RecordId{}, gderrors.Usage(gderrors.CodeNoExistVertex, "vertex %s does not exist", v)
		} else if err != nil {
			return types.RecordId{}, err
		}
	}

	rid, err := t.records.AddRecord(t.txn.KV(), snap, class, rec)
	if err != nil {
		return types.RecordId{}, err
	}
	if err := t.relations.AddEdge(t.txn.KV(), rid, from, to); err != nil {
		return types.RecordId{}, err
	}
	if err := t.indexInsert(snap, class, rid, rec); err != nil {
		return types.RecordId{}, err
	}
	return rid, nil
}

// Update replaces rid's stored fields, re-synchronizing any secondary
// indexes built on properties whose values change.
func (t *Transaction) Update(rid types.RecordId, rec *types.Record) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	snap := t.txn.Snapshot()
	old, err := t.records.GetRecord(t.txn.KV(), snap, rid)
	if err != nil {
		return err
	}
	if err := t.indexDelete(snap, rid.ClassId, rid, old); err != nil {
		return err
	}
	if err := t.records.UpdateRecord(t.txn.KV(), snap, rid, rec); err != nil {
		return err
	}
	return t.indexInsert(snap, rid.ClassId, rid, rec)
}

// Remove deletes rid. Removing a vertex cascades to every incident edge
// (the system's only cascading delete, §9): each cascaded edge's own
// record and index entries are removed too, not just its relation-index
// rows. Removing an edge never cascades.
func (t *Transaction) Remove(rid types.RecordId) error {
	if err := t.requireWritable(); err != nil {
		return err
	}
	snap := t.txn.Snapshot()
	desc, ok := snap.Class(rid.ClassId)
	if !ok {
		return gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", rid.ClassId)
	}

	switch desc.Kind {
	case types.ClassKindVertex:
		removedEdges, err := t.relations.DeleteVertex(t.txn.KV(), rid)
		if err != nil {
			return err
		}
		for _, e := range removedEdges {
			if err := t.removeRecordAndIndexes(e); err != nil {
				return err
			}
		}
		return t.removeRecordAndIndexes(rid)
	case types.ClassKindEdge:
		if err := t.relations.DeleteEdge(t.txn.KV(), rid); err != nil {
			return err
		}
		return t.removeRecordAndIndexes(rid)
	default:
		return gderrors.Usage(gderrors.CodeInvalidClassType, "class %d has unknown kind %q", rid.ClassId, desc.Kind)
	}
}

func (t *Transaction) removeRecordAndIndexes(rid types.RecordId) error {
	snap := t.txn.Snapshot()
	rec, err := t.records.GetRecord(t.txn.KV(), snap, rid)
	if err != nil {
		if gderrors.IsCode(err, gderrors.CodeNoExistRecord) {
			return nil
		}
		return err
	}
	if err := t.indexDelete(snap, rid.ClassId, rid, rec); err != nil {
		return err
	}
	return t.records.DeleteRecord(t.txn.KV(), rid)
}

// FetchByRid retrieves rid's stored fields.
func (t *Transaction) FetchByRid(rid types.RecordId) (*types.Record, error) {
	return t.records.GetRecord(t.txn.KV(), t.txn.Snapshot(), rid)
}
