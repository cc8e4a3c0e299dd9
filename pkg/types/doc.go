/*
Package types holds the value types the rest of the graph storage core is
built from: identifiers (ClassId, PropertyId, IndexId, PositionId, RecordId,
TxnId), the schema descriptors the catalog persists, and the Record/Value
types that carry property data between the codec, the record store, and
callers.

# Identifiers

	ClassId, PropertyId, IndexId  — u16, monotonically assigned, never reused
	PositionId                    — u64 per-class record slot
	RecordId = (ClassId, Position) — unique for the life of the database
	TxnId                         — u64, assigned by the single writer

RecordId.Packed folds the pair into a uint64 so it can live in a roaring64
bitmap (used by pkg/query for BFS/DFS visited sets) or act as a map key.

# Records

A Record is an ordered set of named, typed Fields. It intentionally has no
notion of "this record belongs to class X" — that association is the record
store's job (a Record is just payload). Field order is preserved for
deterministic re-encoding in tests but carries no on-disk meaning; two
Records with the same fields in different orders are equal from the
catalog's and codec's point of view.
*/
package types
