/*
Package graphdb is the public facade over the storage core (SPEC_FULL.md
§6): Database opens an environment directory and hands out Transactions,
and Transaction exposes the schema, data, and query verbs by wiring
together pkg/catalog, pkg/record, pkg/relation, pkg/secindex, and
pkg/query against a single pkg/txnmgr.Txn.

This is the only package that enforces cross-component invariants the
lower layers intentionally don't know about: dropClass requires the class
to have no live records (pkg/catalog has no visibility into pkg/record),
and removing a vertex must also remove every incident edge's own record
and index entries, not just the relation-index rows pkg/relation itself
maintains.
*/
package graphdb
