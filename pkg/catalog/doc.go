/*
Package catalog implements the versioned schema catalog (SPEC_FULL.md §4.3):
class and property descriptors, the single-inheritance class forest,
secondary index registrations, and id allocation.

A Catalog holds one atomically-swapped Snapshot at a time. A write
transaction calls Begin to get an OverlayTx — a private, mutable clone of
the current Snapshot — makes its schema edits against that, then Stage
writes the overlay's resulting descriptors into the transaction's KV
buckets. Only once the underlying KV transaction has actually committed
does the transaction manager call Publish, which swaps the Catalog's atomic
pointer to the overlay's resulting Snapshot. A reader that started before
Publish keeps using the Snapshot it captured at transaction start, for as
long as its transaction lives — this is the catalog's half of the storage
core's snapshot isolation guarantee (§5).
*/
package catalog
