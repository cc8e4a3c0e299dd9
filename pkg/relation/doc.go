/*
Package relation implements the Relation Index (SPEC_FULL.md §4.5): three
KV sub-databases recording which vertices an edge connects and, in both
directions, which edges are incident to a given vertex.

	endpoints       edge RecordId      -> (from RecordId, to RecordId)
	incidence_out   from ∥ edge        -> to
	incidence_in    to ∥ edge          -> from

incidence_out and incidence_in use the composite-key duplicate-value
emulation pkg/kv's DupCursor provides, since bbolt has no native dup-sort:
every edge incident to a vertex gets its own physical key sharing that
vertex's RecordId as a prefix, and OutEdges/InEdges are plain prefix scans.

DeleteVertex cascades to every edge incident to the vertex in either
direction, which is pkg/graphdb's one deletion cascade (§4.4, §9) —
dropClass itself never cascades and instead requires the class be empty
first.
*/
package relation
