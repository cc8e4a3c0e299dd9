package graphdb

import (
	"github.com/cuemby/graphdb/pkg/catalog"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/record"
	"github.com/cuemby/graphdb/pkg/relation"
	"github.com/cuemby/graphdb/pkg/secindex"
	"github.com/cuemby/graphdb/pkg/txnmgr"
	"github.com/cuemby/graphdb/pkg/types"
)

// Transaction wraps a txnmgr.Txn with the schema/data/query verbs from §6.
// A ReadOnly Transaction's schema and data verbs all fail with a read-only
// usage error; only Find/Traverse/ShortestPath and the getters work.
type Transaction struct {
	txn       *txnmgr.Txn
	records   *record.Store
	relations *relation.Index
	indexes   *secindex.Index
}

func newTransaction(txn *txnmgr.Txn) *Transaction {
	return &Transaction{
		txn:       txn,
		records:   record.New(),
		relations: relation.New(),
		indexes:   secindex.New(),
	}
}

// Commit finalizes the transaction. For a ReadWrite transaction this
// stages and publishes any schema overlay and durably commits the KV
// writes; for ReadOnly it just releases the snapshot.
func (t *Transaction) Commit() error { return t.txn.Commit() }

// Rollback discards the transaction's writes (or, for ReadOnly, just
// releases its snapshot).
func (t *Transaction) Rollback() error { return t.txn.Rollback() }

func (t *Transaction) requireWritable() error {
	if !t.txn.Writable() {
		return gderrors.Usage(gderrors.CodeUnspecified, "transaction is read-only")
	}
	return nil
}

// indexedProperties returns, for each effective property of class that has
// a secondary index, the index descriptor paired with that property.
func (t *Transaction) indexedProperties(snap *catalog.Snapshot, class types.ClassId) ([]types.IndexDescriptor, []types.PropertyDescriptor, error) {
	props, err := snap.EffectiveProperties(class)
	if err != nil {
		return nil, nil, err
	}
	var descs []types.IndexDescriptor
	var withIndex []types.PropertyDescriptor
	for _, p := range props {
		if idx, ok := snap.IndexFor(p.ClassID, p.ID); ok {
			descs = append(descs, idx)
			withIndex = append(withIndex, p)
		}
	}
	return descs, withIndex, nil
}

func (t *Transaction) indexInsert(snap *catalog.Snapshot, class types.ClassId, rid types.RecordId, rec *types.Record) error {
	descs, props, err := t.indexedProperties(snap, class)
	if err != nil {
		return err
	}
	for i, p := range props {
		v, ok := rec.Get(p.Name)
		if !ok {
			continue
		}
		if err := t.indexes.Insert(t.txn.KV(), descs[i], rid, v); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transaction) indexDelete(snap *catalog.Snapshot, class types.ClassId, rid types.RecordId, rec *types.Record) error {
	descs, props, err := t.indexedProperties(snap, class)
	if err != nil {
		return err
	}
	for i, p := range props {
		v, ok := rec.Get(p.Name)
		if !ok {
			continue
		}
		if err := t.indexes.Delete(t.txn.KV(), descs[i], rid, v); err != nil {
			return err
		}
	}
	return nil
}
