package graphdb

import (
	"github.com/cuemby/graphdb/pkg/query"
	"github.com/cuemby/graphdb/pkg/types"
)

// Find begins a find(class).where(cond)[.indexed()].get()/getCursor() chain.
func (t *Transaction) Find(class types.ClassId) *query.Finder {
	return query.Find(t.txn, class)
}

// TraverseOut walks outward along outgoing edges from src.
func (t *Transaction) TraverseOut(src types.RecordId, opts query.TraverseOptions) ([]types.RecordId, error) {
	return query.Traverse(t.txn, src, query.Out, opts)
}

// TraverseIn walks outward along incoming edges from src.
func (t *Transaction) TraverseIn(src types.RecordId, opts query.TraverseOptions) ([]types.RecordId, error) {
	return query.Traverse(t.txn, src, query.In, opts)
}

// TraverseAll walks outward along edges in either direction from src.
func (t *Transaction) TraverseAll(src types.RecordId, opts query.TraverseOptions) ([]types.RecordId, error) {
	return query.Traverse(t.txn, src, query.All, opts)
}

// ShortestPath finds an unweighted shortest path from src to dst.
func (t *Transaction) ShortestPath(src, dst types.RecordId, dir query.Direction) (*query.Path, error) {
	return query.ShortestPath(t.txn, src, dst, dir)
}

// ShortestPathWithWeight finds the minimum-weight path from src to dst,
// weighting each edge by weightProperty (§6's shortestPath(...).withWeight(property)).
func (t *Transaction) ShortestPathWithWeight(src, dst types.RecordId, dir query.Direction, weightProperty string) (*query.Path, error) {
	return query.WeightedShortestPath(t.txn, src, dst, dir, weightProperty)
}
