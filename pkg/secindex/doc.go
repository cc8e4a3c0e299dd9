/*
Package secindex implements the Secondary Index (SPEC_FULL.md §4.6): one KV
sub-database per index, named "idx/<indexId>", keyed by the property
value's pkg/codec order-preserving packed bytes.

Unique indexes store the packed value as the bare key; non-unique indexes
append a RecordId tiebreaker (pkg/codec.IndexKey), the same composite-key
dup-sort emulation pkg/relation uses for incidence lists. Lookup evaluates
Eq/Lt/Le/Gt/Ge by walking the bucket's cursor from the right starting point,
so a range predicate over an indexed property costs a bounded scan instead
of visiting every record in the class — the whole reason this package
exists alongside a plain class scan (§4.8's find().where().indexed()).

Reindex is the operation createIndex runs when a new index is registered
against a class that already holds records: it wipes the (necessarily
empty, since the index id is fresh) bucket and inserts one entry per
existing record.
*/
package secindex
