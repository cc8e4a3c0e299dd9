/*
Package record implements the Record Store (SPEC_FULL.md §4.4): one KV
sub-database per class, named "data/<classId>", holding each record's
pkg/codec-encoded property payload keyed by its big-endian PositionId.

AddRecord allocates PositionIds from the bucket's own bbolt sequence
counter rather than a separate counters entry, so allocation and the
eventual write share a single bucket and need no extra bookkeeping.
Validation is always performed against a caller-supplied catalog.Snapshot,
never against live catalog state fetched mid-call, so a record add/update
validates against exactly the schema its transaction is running against.

This package knows nothing about secondary indexes or the relation index;
pkg/graphdb sequences record mutations together with the corresponding
secindex/relation updates inside one KV transaction.
*/
package record
