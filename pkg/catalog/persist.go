package catalog

import (
	"encoding/binary"
	"encoding/json"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

// Reserved sub-database names the catalog owns inside the environment,
// per §4.3.
const (
	bucketClasses    = "classes"
	bucketProperties = "properties"
	bucketIndexes    = "indexes"
	bucketCounters   = "counters"
)

var reservedBuckets = []string{bucketClasses, bucketProperties, bucketIndexes, bucketCounters}

type counterState struct {
	nextClassID    types.ClassId
	nextPropertyID types.PropertyId
	nextIndexID    types.IndexId
}

var (
	counterKeyClass    = []byte("next_class_id")
	counterKeyProperty = []byte("next_property_id")
	counterKeyIndex    = []byte("next_index_id")
)

func u16Key(v uint16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return buf[:]
}

func u64Bytes(v uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return buf[:]
}

func parseU64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// loadSnapshot reads every persisted descriptor out of the reserved
// buckets and assembles a fresh Snapshot, used at Open and, for its id
// counters, by Catalog.Begin on every write transaction.
func loadSnapshot(txn *kv.Txn) (*Snapshot, counterState, error) {
	snap := emptySnapshot()

	classesBkt, err := txn.Bucket(bucketClasses)
	if err != nil {
		return nil, counterState{}, err
	}
	cur := classesBkt.Cursor()
	for kvp := cur.First(); kvp.Key != nil; kvp = cur.Next() {
		var c types.ClassDescriptor
		if err := json.Unmarshal(kvp.Value, &c); err != nil {
			return nil, counterState{}, gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "corrupt class descriptor", err)
		}
		snap.classesByID[c.ID] = c
		snap.classesByName[c.Name] = c.ID
		if _, ok := snap.propertiesByClass[c.ID]; !ok {
			snap.propertiesByClass[c.ID] = make(map[string]types.PropertyDescriptor)
		}
	}

	propsBkt, err := txn.Bucket(bucketProperties)
	if err != nil {
		return nil, counterState{}, err
	}
	cur = propsBkt.Cursor()
	for kvp := cur.First(); kvp.Key != nil; kvp = cur.Next() {
		var p types.PropertyDescriptor
		if err := json.Unmarshal(kvp.Value, &p); err != nil {
			return nil, counterState{}, gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "corrupt property descriptor", err)
		}
		if _, ok := snap.propertiesByClass[p.ClassID]; !ok {
			snap.propertiesByClass[p.ClassID] = make(map[string]types.PropertyDescriptor)
		}
		snap.propertiesByClass[p.ClassID][p.Name] = p
		snap.propertiesByID[p.ID] = p
	}

	idxBkt, err := txn.Bucket(bucketIndexes)
	if err != nil {
		return nil, counterState{}, err
	}
	cur = idxBkt.Cursor()
	for kvp := cur.First(); kvp.Key != nil; kvp = cur.Next() {
		var idx types.IndexDescriptor
		if err := json.Unmarshal(kvp.Value, &idx); err != nil {
			return nil, counterState{}, gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "corrupt index descriptor", err)
		}
		snap.indexesByID[idx.ID] = idx
		snap.indexByClass[indexKey{idx.ClassID, idx.PropID}] = idx.ID
	}

	countersBkt, err := txn.Bucket(bucketCounters)
	if err != nil {
		return nil, counterState{}, err
	}
	counters := counterState{
		nextClassID:    types.ClassId(parseU64(countersBkt.Get(counterKeyClass))),
		nextPropertyID: types.PropertyId(parseU64(countersBkt.Get(counterKeyProperty))),
		nextIndexID:    types.IndexId(parseU64(countersBkt.Get(counterKeyIndex))),
	}
	return snap, counters, nil
}

// stage writes an overlay's full resulting state into the catalog buckets
// of the given write transaction. It does not touch the in-memory published
// Snapshot — that happens in Publish, strictly after the KV transaction
// holding this write has committed (§9 commit ordering).
func stage(txn *kv.Txn, o *OverlayTx) error {
	classesBkt, err := txn.CreateBucketIfNotExists(bucketClasses)
	if err != nil {
		return err
	}
	if err := rewriteBucket(classesBkt, encodeClasses(o.working)); err != nil {
		return err
	}

	propsBkt, err := txn.CreateBucketIfNotExists(bucketProperties)
	if err != nil {
		return err
	}
	if err := rewriteBucket(propsBkt, encodeProperties(o.working)); err != nil {
		return err
	}

	idxBkt, err := txn.CreateBucketIfNotExists(bucketIndexes)
	if err != nil {
		return err
	}
	if err := rewriteBucket(idxBkt, encodeIndexes(o.working)); err != nil {
		return err
	}

	countersBkt, err := txn.CreateBucketIfNotExists(bucketCounters)
	if err != nil {
		return err
	}
	if err := countersBkt.Put(counterKeyClass, u64Bytes(uint64(o.nextClassID))); err != nil {
		return err
	}
	if err := countersBkt.Put(counterKeyProperty, u64Bytes(uint64(o.nextPropertyID))); err != nil {
		return err
	}
	if err := countersBkt.Put(counterKeyIndex, u64Bytes(uint64(o.nextIndexID))); err != nil {
		return err
	}
	return nil
}

// rewriteBucket replaces every entry in bkt with entries, deleting stale
// keys first. Catalog buckets are small (one entry per class/property/index
// in the whole database), so a full rewrite on every schema-changing
// transaction is simple and cheap compared to diffing.
func rewriteBucket(bkt *kv.Bucket, entries map[string][]byte) error {
	cur := bkt.Cursor()
	var staleKeys [][]byte
	for kvp := cur.First(); kvp.Key != nil; kvp = cur.Next() {
		if _, keep := entries[string(kvp.Key)]; !keep {
			k := make([]byte, len(kvp.Key))
			copy(k, kvp.Key)
			staleKeys = append(staleKeys, k)
		}
	}
	for _, k := range staleKeys {
		if err := bkt.Delete(k); err != nil {
			return err
		}
	}
	for k, v := range entries {
		if err := bkt.Put([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func encodeClasses(s *Snapshot) map[string][]byte {
	out := make(map[string][]byte, len(s.classesByID))
	for id, c := range s.classesByID {
		b, _ := json.Marshal(c)
		out[string(u16Key(uint16(id)))] = b
	}
	return out
}

func encodeProperties(s *Snapshot) map[string][]byte {
	out := make(map[string][]byte, len(s.propertiesByID))
	for id, p := range s.propertiesByID {
		b, _ := json.Marshal(p)
		out[string(u16Key(uint16(id)))] = b
	}
	return out
}

func encodeIndexes(s *Snapshot) map[string][]byte {
	out := make(map[string][]byte, len(s.indexesByID))
	for id, idx := range s.indexesByID {
		b, _ := json.Marshal(idx)
		out[string(u16Key(uint16(id)))] = b
	}
	return out
}
