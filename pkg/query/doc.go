/*
Package query implements Find & Traversal (SPEC_FULL.md §4.8) on top of a
single txnmgr.Txn:

  - Finder (find.go) resolves find(class).where(cond) to a secondary-index
    lookup when one exists and matches, or falls back to a full class scan
    filtering in-process; indexed() turns a missing index into an error
    instead of a silent scan.
  - Traverse (traverse.go) walks the relation index outward from a start
    vertex, BFS by default or DFS on request, bounding the visited set with
    a roaring64 bitmap keyed by RecordId.Packed so long traversals stay
    memory-bounded.
  - ShortestPath and WeightedShortestPath (shortestpath.go) find an
    unweighted BFS path or run Dijkstra's algorithm keyed by a numeric edge
    property, respectively.

Every cursor returned by this package is pinned to the catalog generation
observed when it was created and fails fast if that generation advances
or the owning transaction closes before the cursor is exhausted.
*/
package query
