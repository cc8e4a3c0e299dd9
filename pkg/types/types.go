// Package types holds the core value types shared across the graph storage
// core: identifiers, the property value union, and the schema descriptors
// that the catalog, record store, and indexes all exchange.
package types

import "fmt"

// ClassId identifies a class (vertex or edge type) for the life of a database.
// Never reused, even across a rename.
type ClassId uint16

// PropertyId identifies a property within its owning class's inheritance
// chain. Never reused; a renamed property keeps its id.
type PropertyId uint16

// IndexId identifies a secondary index descriptor.
type IndexId uint16

// PositionId is a per-class record slot, allocated append-mostly starting at 0.
type PositionId uint64

// PositionSentinel is the largest PositionId. The record store allocates
// positions from its per-class bucket sequence (see pkg/record) and stores
// nothing under this key.
const PositionSentinel PositionId = ^PositionId(0)

// TxnId is allocated monotonically by the single writer.
type TxnId uint64

// RecordId uniquely identifies a record for the life of the database.
type RecordId struct {
	ClassId  ClassId
	Position PositionId
}

// String renders a RecordId in "#class:position" form, mirroring the
// human-readable rid notation callers tend to print in logs and error text.
func (r RecordId) String() string {
	return fmt.Sprintf("#%d:%d", r.ClassId, r.Position)
}

// Packed folds a RecordId into a single uint64 (ClassId in the high 16 bits,
// Position in the low 48 bits) for use as a roaring64 bitmap entry or a map
// key where a struct key would be awkward. PositionId is expected to fit in
// 48 bits; the storage engine's own PositionId allocator never approaches it.
func (r RecordId) Packed() uint64 {
	return uint64(r.ClassId)<<48 | (uint64(r.Position) & 0x0000FFFFFFFFFFFF)
}

// UnpackRecordId is the inverse of RecordId.Packed.
func UnpackRecordId(packed uint64) RecordId {
	return RecordId{
		ClassId:  ClassId(packed >> 48),
		Position: PositionId(packed & 0x0000FFFFFFFFFFFF),
	}
}

// ClassKind distinguishes vertex classes from edge classes.
type ClassKind string

const (
	ClassKindVertex ClassKind = "vertex"
	ClassKindEdge   ClassKind = "edge"
)

// PropertyType enumerates the scalar property types a Record's fields may
// hold. Only the numeric and Text variants are indexable (§4.6); Blob is not.
type PropertyType string

const (
	PropertyTinyInt  PropertyType = "tinyint"  // int8
	PropertySmallInt PropertyType = "smallint" // int16
	PropertyInt      PropertyType = "int"      // int32
	PropertyBigInt   PropertyType = "bigint"   // int64
	PropertyUTinyInt PropertyType = "utinyint" // uint8
	PropertyUSmall   PropertyType = "usmallint"
	PropertyUInt     PropertyType = "uint"
	PropertyUBigInt  PropertyType = "ubigint"
	PropertyReal     PropertyType = "real" // float64
	PropertyText     PropertyType = "text"
	PropertyBlob     PropertyType = "blob"
)

// Indexable reports whether values of this type may back a secondary index.
func (t PropertyType) Indexable() bool {
	return t != PropertyBlob
}

// Numeric reports whether this type packs as a fixed-width integer or float,
// as opposed to a variable-length Text/Blob.
func (t PropertyType) Numeric() bool {
	switch t {
	case PropertyTinyInt, PropertySmallInt, PropertyInt, PropertyBigInt,
		PropertyUTinyInt, PropertyUSmall, PropertyUInt, PropertyUBigInt, PropertyReal:
		return true
	default:
		return false
	}
}

// ClassDescriptor is the catalog's row for one class.
type ClassDescriptor struct {
	ID   ClassId
	Name string
	Kind ClassKind
	Base *ClassId // optional single-inheritance parent
}

// PropertyDescriptor is the catalog's row for one property.
type PropertyDescriptor struct {
	ID      PropertyId
	ClassID ClassId
	Name    string
	Type    PropertyType
}

// IndexDescriptor is the catalog's row for one secondary index.
type IndexDescriptor struct {
	ID      IndexId
	ClassID ClassId
	PropID  PropertyId
	Unique  bool
}

// Value is a typed property value carried in a Record. Exactly one of the
// fields is meaningful, selected by Type; Int holds every signed/unsigned
// integer variant (sign-extended/zero-extended as appropriate by the codec).
type Value struct {
	Type PropertyType
	Int  int64
	Real float64
	Text string
	Blob []byte
}

// IntValue is a convenience constructor for integer-typed values.
func IntValue(t PropertyType, v int64) Value { return Value{Type: t, Int: v} }

// RealValue is a convenience constructor for PropertyReal values.
func RealValue(v float64) Value { return Value{Type: PropertyReal, Real: v} }

// TextValue is a convenience constructor for PropertyText values.
func TextValue(v string) Value { return Value{Type: PropertyText, Text: v} }

// BlobValue is a convenience constructor for PropertyBlob values.
func BlobValue(v []byte) Value { return Value{Type: PropertyBlob, Blob: v} }

// Field is one named, typed entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a mapping from property name to typed value, in caller insertion
// order. Field order within a Record has no semantic meaning on disk (§4.2);
// it is preserved here only so round-tripping a decoded Record back through
// the codec is deterministic in tests.
type Record struct {
	fields []Field
}

// NewRecord returns an empty, legal Record.
func NewRecord() *Record {
	return &Record{}
}

// Set assigns a field, replacing any existing value under the same name.
func (r *Record) Set(name string, v Value) *Record {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = v
			return r
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
	return r
}

// Get returns the named field and whether it was present.
func (r *Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Fields returns the record's fields in insertion order. The returned slice
// is a copy; mutating it does not affect the Record.
func (r *Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len reports the number of fields in the record.
func (r *Record) Len() int { return len(r.fields) }
