// Package record implements the Record Store (SPEC_FULL.md §4.4): per-class
// storage of property-payload blobs keyed by PositionId, validated against
// the catalog's effective schema for that class.
package record

import (
	"fmt"

	"github.com/cuemby/graphdb/pkg/catalog"
	"github.com/cuemby/graphdb/pkg/codec"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/types"
)

// classBucket returns the name of the sub-database holding class's records.
func classBucket(class types.ClassId) string {
	return fmt.Sprintf("data/%d", class)
}

// Store mediates reads and writes against the record sub-databases. It
// holds no state of its own beyond what the catalog Snapshot it is given on
// each call provides — all persistent state lives in the KV transaction.
type Store struct{}

// New returns a Store. It is stateless; a single value can serve every
// transaction concurrently.
func New() *Store { return &Store{} }

func validateFields(snap *catalog.Snapshot, class types.ClassId, fields []types.Field) ([]codec.FieldValue, error) {
	effective, err := snap.EffectiveProperties(class)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]types.PropertyDescriptor, len(effective))
	for _, p := range effective {
		byName[p.Name] = p
	}

	out := make([]codec.FieldValue, 0, len(fields))
	for _, f := range fields {
		desc, ok := byName[f.Name]
		if !ok {
			return nil, gderrors.Usage(gderrors.CodeNoExistProperty, "class %d has no property %q", class, f.Name)
		}
		if desc.Type != f.Value.Type {
			return nil, gderrors.Usage(gderrors.CodeInvalidPropType, "property %q expects type %s, got %s", f.Name, desc.Type, f.Value.Type)
		}
		out = append(out, codec.FieldValue{PropertyID: desc.ID, Value: f.Value})
	}
	return out, nil
}

// AddRecord validates rec against class's effective schema, allocates a
// fresh PositionId, and stores the encoded payload. It does not touch
// secondary indexes or the relation index — callers (pkg/graphdb) perform
// those as separate steps within the same transaction so that a partial
// failure aborts the whole write.
func (s *Store) AddRecord(txn *kv.Txn, snap *catalog.Snapshot, class types.ClassId, rec *types.Record) (types.RecordId, error) {
	if _, ok := snap.Class(class); !ok {
		return types.RecordId{}, gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", class)
	}
	fields, err := validateFields(snap, class, rec.Fields())
	if err != nil {
		return types.RecordId{}, err
	}
	payload, err := codec.EncodeRecord(fields)
	if err != nil {
		return types.RecordId{}, err
	}

	bkt, err := txn.CreateBucketIfNotExists(classBucket(class))
	if err != nil {
		return types.RecordId{}, err
	}
	seq, err := bkt.NextSequence()
	if err != nil {
		return types.RecordId{}, err
	}
	pos := types.PositionId(seq - 1)
	if err := bkt.Put(codec.PositionKey(pos), payload); err != nil {
		return types.RecordId{}, err
	}
	rid := types.RecordId{ClassId: class, Position: pos}
	log.WithRecordID(uint16(class), uint64(pos)).Debug().Int("fields", len(fields)).Msg("record added")
	return rid, nil
}

// UpdateRecord replaces rid's stored fields wholesale. rid must already
// exist.
func (s *Store) UpdateRecord(txn *kv.Txn, snap *catalog.Snapshot, rid types.RecordId, rec *types.Record) error {
	fields, err := validateFields(snap, rid.ClassId, rec.Fields())
	if err != nil {
		return err
	}
	payload, err := codec.EncodeRecord(fields)
	if err != nil {
		return err
	}

	bkt, err := txn.Bucket(classBucket(rid.ClassId))
	if err != nil {
		return gderrors.Usage(gderrors.CodeNoExistRecord, "record %s does not exist", rid)
	}
	key := codec.PositionKey(rid.Position)
	if bkt.Get(key) == nil {
		return gderrors.Usage(gderrors.CodeNoExistRecord, "record %s does not exist", rid)
	}
	return bkt.Put(key, payload)
}

// DeleteRecord removes rid. It is not an error to delete an id that does
// not exist, matching ordinary KV delete semantics; callers that need
// existence to be checked should GetRecord first.
func (s *Store) DeleteRecord(txn *kv.Txn, rid types.RecordId) error {
	bkt, err := txn.Bucket(classBucket(rid.ClassId))
	if err != nil {
		return nil
	}
	log.WithRecordID(uint16(rid.ClassId), uint64(rid.Position)).Debug().Msg("record deleted")
	return bkt.Delete(codec.PositionKey(rid.Position))
}

// GetRecord fetches and decodes rid's stored fields into a fresh Record,
// naming each field by its current property name in snap (so a property
// rename is reflected even though the payload itself stores property ids).
func (s *Store) GetRecord(txn *kv.Txn, snap *catalog.Snapshot, rid types.RecordId) (*types.Record, error) {
	bkt, err := txn.Bucket(classBucket(rid.ClassId))
	if err != nil {
		return nil, gderrors.Usage(gderrors.CodeNoExistRecord, "record %s does not exist", rid)
	}
	raw := bkt.Get(codec.PositionKey(rid.Position))
	if raw == nil {
		return nil, gderrors.Usage(gderrors.CodeNoExistRecord, "record %s does not exist", rid)
	}
	decoded, err := codec.DecodeRecord(raw)
	if err != nil {
		return nil, err
	}

	rec := types.NewRecord()
	for _, f := range decoded {
		p, ok := snap.Property(f.PropertyID)
		name := p.Name
		if !ok {
			continue // property was dropped after this record was written; skip it
		}
		rec.Set(name, f.Value)
	}
	return rec, nil
}

// Cursor scans class's records in PositionId order, from the first stored
// record to the last.
type Cursor struct {
	cur     *kv.Cursor
	snap    *catalog.Snapshot
	class   types.ClassId
	started bool
}

// ScanClass returns a Cursor over class's stored records, or an empty
// cursor if the class has never had a record written (its bucket does not
// exist yet — not an error, just an empty class).
func (s *Store) ScanClass(txn *kv.Txn, snap *catalog.Snapshot, class types.ClassId) (*Cursor, error) {
	bkt, err := txn.Bucket(classBucket(class))
	if err != nil {
		return &Cursor{cur: nil, snap: snap, class: class}, nil
	}
	return &Cursor{cur: bkt.Cursor(), snap: snap, class: class}, nil
}

// Next advances the cursor and decodes the next record, returning
// (zero RecordId, nil, false) once exhausted. Calling Next before First positions the
// cursor at the first record instead, so callers that only want a forward
// scan may skip calling First explicitly.
func (c *Cursor) Next() (types.RecordId, *types.Record, bool) {
	if c.cur == nil {
		return types.RecordId{}, nil, false
	}
	if !c.started {
		c.started = true
		return c.decode(c.cur.First())
	}
	return c.decode(c.cur.Next())
}

// First positions the cursor at the first stored record.
func (c *Cursor) First() (types.RecordId, *types.Record, bool) {
	c.started = true
	if c.cur == nil {
		return types.RecordId{}, nil, false
	}
	return c.decode(c.cur.First())
}

func (c *Cursor) decode(kvp kv.KV) (types.RecordId, *types.Record, bool) {
	if kvp.Key == nil {
		return types.RecordId{}, nil, false
	}
	pos, err := codec.ParsePositionKey(kvp.Key)
	if err != nil {
		return types.RecordId{}, nil, false
	}
	decoded, err := codec.DecodeRecord(kvp.Value)
	if err != nil {
		return types.RecordId{}, nil, false
	}
	rec := types.NewRecord()
	for _, f := range decoded {
		if p, ok := c.snap.Property(f.PropertyID); ok {
			rec.Set(p.Name, f.Value)
		}
	}
	return types.RecordId{ClassId: c.class, Position: pos}, rec, true
}

// IsClassEmpty reports whether class currently has zero stored records,
// the check pkg/graphdb performs before allowing dropClass (§4.3, §9).
func (s *Store) IsClassEmpty(txn *kv.Txn, class types.ClassId) (bool, error) {
	bkt, err := txn.Bucket(classBucket(class))
	if err != nil {
		return true, nil
	}
	kvp := bkt.Cursor().First()
	return kvp.Key == nil, nil
}
