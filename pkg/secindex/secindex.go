// Package secindex implements the Secondary Index (SPEC_FULL.md §4.6):
// per-index sub-databases keyed by an order-preserving packed property
// value, supporting equality and range lookups without a full class scan.
package secindex

import (
	"bytes"
	"fmt"

	"github.com/cuemby/graphdb/pkg/codec"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

func indexBucket(id types.IndexId) string {
	return fmt.Sprintf("idx/%d", id)
}

// Op is a comparison operator for an index range lookup (§4.6, §4.8).
type Op int

const (
	Eq Op = iota
	Lt
	Le
	Gt
	Ge
	// Between matches values in [Value, High] or (Value, High), inclusivity
	// on each bound controlled independently by LowInclusive/HighInclusive
	// (§4.6, §8: a>b returns empty; a==b with both inclusive returns the
	// single matching record).
	Between
)

// Condition names the predicate an indexed find().where() evaluates. High,
// LowInclusive, and HighInclusive are only meaningful when Op is Between.
type Condition struct {
	Op            Op
	Value         types.Value
	High          types.Value
	LowInclusive  bool
	HighInclusive bool
}

// Index mediates reads and writes against one index's sub-database. It is
// stateless; all persistent state lives in the KV transaction.
type Index struct{}

// New returns an Index.
func New() *Index { return &Index{} }

// Insert adds an index entry for rid's value. Unique index entries collide
// on duplicate values with CodeDuplicateKey; non-unique entries never
// collide because the RecordId tiebreaker makes every physical key unique.
func (ix *Index) Insert(txn *kv.Txn, desc types.IndexDescriptor, rid types.RecordId, value types.Value) error {
	packed, err := codec.PackIndexValue(value)
	if err != nil {
		return err
	}
	bkt, err := txn.CreateBucketIfNotExists(indexBucket(desc.ID))
	if err != nil {
		return err
	}
	key := codec.IndexKey(packed, rid, desc.Unique)
	if desc.Unique {
		if bkt.Get(key) != nil {
			return gderrors.Usage(gderrors.CodeDuplicateKey, "unique index %d already has an entry for this value", desc.ID)
		}
		return bkt.Put(key, codec.RecordIdKey(rid))
	}
	return bkt.Put(key, codec.RecordIdKey(rid))
}

// Delete removes the index entry for rid's value.
func (ix *Index) Delete(txn *kv.Txn, desc types.IndexDescriptor, rid types.RecordId, value types.Value) error {
	packed, err := codec.PackIndexValue(value)
	if err != nil {
		return err
	}
	bkt, err := txn.Bucket(indexBucket(desc.ID))
	if err != nil {
		return nil
	}
	return bkt.Delete(codec.IndexKey(packed, rid, desc.Unique))
}

// Lookup evaluates cond against the index and returns matching RecordIds in
// index key order (ascending).
func (ix *Index) Lookup(txn *kv.Txn, desc types.IndexDescriptor, cond Condition) ([]types.RecordId, error) {
	bkt, err := txn.Bucket(indexBucket(desc.ID))
	if err != nil {
		return nil, nil
	}
	if cond.Op == Between {
		return ix.lookupBetween(bkt, desc, cond)
	}

	packed, err := codec.PackIndexValue(cond.Value)
	if err != nil {
		return nil, err
	}

	var out []types.RecordId
	cur := bkt.Cursor()

	switch cond.Op {
	case Eq:
		if desc.Unique {
			v := bkt.Get(packed)
			if v == nil {
				return nil, nil
			}
			rid, err := codec.ParseRecordIdKey(v)
			if err != nil {
				return nil, err
			}
			return []types.RecordId{rid}, nil
		}
		for k := cur.Seek(packed); k.Key != nil && bytes.HasPrefix(k.Key, packed); k = cur.Next() {
			val, rid, err := codec.SplitNonUniqueIndexKey(k.Key)
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(val, packed) {
				continue // a longer text value that merely starts with packed
			}
			out = append(out, rid)
		}
	case Gt, Ge:
		start := cur.Seek(packed)
		for k := start; k.Key != nil; k = cur.Next() {
			val := valuePrefix(k.Key, desc.Unique)
			cmp := bytes.Compare(val, packed)
			if cond.Op == Gt && cmp == 0 {
				continue
			}
			if cmp < 0 {
				continue
			}
			rid, err := ridFromIndexKey(k, desc.Unique)
			if err != nil {
				return nil, err
			}
			out = append(out, rid)
		}
	case Lt, Le:
		for k := cur.First(); k.Key != nil; k = cur.Next() {
			val := valuePrefix(k.Key, desc.Unique)
			cmp := bytes.Compare(val, packed)
			if cond.Op == Lt && cmp >= 0 {
				break
			}
			if cond.Op == Le && cmp > 0 {
				break
			}
			rid, err := ridFromIndexKey(k, desc.Unique)
			if err != nil {
				return nil, err
			}
			out = append(out, rid)
		}
	}
	return out, nil
}

// lookupBetween scans the bounded range [cond.Value, cond.High], honoring
// each bound's inclusivity independently. A low bound greater than the high
// bound returns an empty result rather than an error (§8).
func (ix *Index) lookupBetween(bkt *kv.Bucket, desc types.IndexDescriptor, cond Condition) ([]types.RecordId, error) {
	low, err := codec.PackIndexValue(cond.Value)
	if err != nil {
		return nil, err
	}
	high, err := codec.PackIndexValue(cond.High)
	if err != nil {
		return nil, err
	}
	if bytes.Compare(low, high) > 0 {
		return nil, nil
	}

	var out []types.RecordId
	cur := bkt.Cursor()
	for k := cur.Seek(low); k.Key != nil; k = cur.Next() {
		val := valuePrefix(k.Key, desc.Unique)
		cmpLow := bytes.Compare(val, low)
		if cmpLow == 0 && !cond.LowInclusive {
			continue
		}
		cmpHigh := bytes.Compare(val, high)
		if cmpHigh > 0 {
			break
		}
		if cmpHigh == 0 && !cond.HighInclusive {
			break
		}
		rid, err := ridFromIndexKey(k, desc.Unique)
		if err != nil {
			return nil, err
		}
		out = append(out, rid)
	}
	return out, nil
}

func ridFromIndexKey(kvp kv.KV, unique bool) (types.RecordId, error) {
	if unique {
		return codec.ParseRecordIdKey(kvp.Value)
	}
	_, rid, err := codec.SplitNonUniqueIndexKey(kvp.Key)
	return rid, err
}

func valuePrefix(key []byte, unique bool) []byte {
	if unique {
		return key
	}
	if len(key) < 10 {
		return key
	}
	return key[:len(key)-10]
}

// Reindex rebuilds an index's sub-database from scratch by re-inserting
// entries the caller supplies, used by pkg/graphdb's createIndex when a
// new index is added to a class that already has records (§4.6).
func (ix *Index) Reindex(txn *kv.Txn, desc types.IndexDescriptor, entries []struct {
	Rid   types.RecordId
	Value types.Value
}) error {
	if err := txn.DeleteBucket(indexBucket(desc.ID)); err != nil && !gderrors.IsCode(err, gderrors.CodeStorageNotFound) {
		return err
	}
	for _, e := range entries {
		if err := ix.Insert(txn, desc, e.Rid, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes an index's entire sub-database, called once the catalog
// registration for it has already been dropped.
func (ix *Index) Drop(txn *kv.Txn, id types.IndexId) error {
	if err := txn.DeleteBucket(indexBucket(id)); err != nil && !gderrors.IsCode(err, gderrors.CodeStorageNotFound) {
		return err
	}
	return nil
}
