/*
Package txnmgr implements the MVCC Transaction Manager (SPEC_FULL.md §4.7):
a single write-transaction slot enforced by a 1-buffered channel (chosen
over sync.Mutex so BeginWrite can honor context cancellation while
waiting, per §5), any number of concurrent read transactions each pinned
to the catalog.Snapshot published when they began, and the commit
ordering that keeps the catalog's published state always a subset of what
bbolt has durably committed:

	1. Txn.Commit stages the write transaction's schema overlay into its
	   own KV buckets (catalog.Stage).
	2. The KV transaction commits (kv.Txn.Commit) — at this point the
	   overlay's schema changes, record writes, index updates and relation
	   edits are all durable together or not at all.
	3. Only now does catalog.Publish swap the Catalog's atomic snapshot
	   pointer, and only now is the writer slot released for the next
	   writer.

A read transaction never contends for the writer slot: bbolt read
transactions already run against their own consistent view of the data
file, and pairing that with a captured catalog.Snapshot gives the reader a
stable view of both data and schema for its entire lifetime, even while a
concurrent writer commits (§5's snapshot isolation guarantee).
*/
package txnmgr
