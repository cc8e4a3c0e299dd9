package query

import (
	roaring "github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/cuemby/graphdb/pkg/metrics"
	"github.com/cuemby/graphdb/pkg/relation"
	"github.com/cuemby/graphdb/pkg/txnmgr"
	"github.com/cuemby/graphdb/pkg/types"
)

// Direction selects which incidence relationship a traversal follows.
type Direction int

const (
	Out Direction = iota
	In
	All
)

// TraverseOptions configures a BFS/DFS traversal (§4.8). MinDepth/MaxDepth
// are both inclusive; a MinDepth of 0 would include the start vertex
// itself, which traversal never does — depth is counted in edges hopped,
// starting at 1 for direct neighbors.
type TraverseOptions struct {
	MinDepth int
	MaxDepth int
	DFS      bool
}

// DefaultTraverseOptions returns unlimited-depth BFS, the traversal default
// per §4.8.
func DefaultTraverseOptions() TraverseOptions {
	return TraverseOptions{MinDepth: 1, MaxDepth: 1 << 30}
}

// Traverse walks outward from start following direction, visiting each
// reachable vertex at most once (tracked in a roaring64 bitmap keyed by
// RecordId.Packed, per §4.8's memory-bounded visited-set design), and
// returns every vertex found within [MinDepth, MaxDepth].
func Traverse(txn *txnmgr.Txn, start types.RecordId, dir Direction, opts TraverseOptions) ([]types.RecordId, error) {
	rel := relation.New()
	visited := roaring.New()
	visited.Add(start.Packed())

	var result []types.RecordId
	neighbors := func(v types.RecordId) ([]types.RecordId, error) {
		return neighborVertices(txn, rel, v, dir)
	}

	if opts.DFS {
		err := dfs(start, 0, opts, visited, neighbors, &result)
		if err != nil {
			return nil, err
		}
	} else {
		if err := bfs(start, opts, visited, neighbors, &result); err != nil {
			return nil, err
		}
	}

	metrics.TraversalsTotal.WithLabelValues(traversalKind(dir, opts.DFS)).Inc()
	metrics.TraversalVisited.Observe(float64(visited.GetCardinality()))
	return result, nil
}

func traversalKind(dir Direction, dfs bool) string {
	name := map[Direction]string{Out: "out", In: "in", All: "all"}[dir]
	if dfs {
		return name + "-dfs"
	}
	return name + "-bfs"
}

// neighborVertices resolves the vertices directly reachable from v via
// direction dir, deduplicating when the same edge id would otherwise
// appear from both an out and an in scan under Direction=All.
func neighborVertices(txn *txnmgr.Txn, rel *relation.Index, v types.RecordId, dir Direction) ([]types.RecordId, error) {
	var out []types.RecordId
	if dir == Out || dir == All {
		edges, err := rel.OutEdges(txn.KV(), v)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			ep, err := rel.Endpoints(txn.KV(), e)
			if err != nil {
				return nil, err
			}
			out = append(out, ep.To)
		}
	}
	if dir == In || dir == All {
		edges, err := rel.InEdges(txn.KV(), v)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			ep, err := rel.Endpoints(txn.KV(), e)
			if err != nil {
				return nil, err
			}
			out = append(out, ep.From)
		}
	}
	return out, nil
}

func bfs(start types.RecordId, opts TraverseOptions, visited *roaring.Bitmap, neighbors func(types.RecordId) ([]types.RecordId, error), result *[]types.RecordId) error {
	frontier := []types.RecordId{start}
	depth := 0
	for len(frontier) > 0 && depth < opts.MaxDepth {
		depth++
		var next []types.RecordId
		for _, v := range frontier {
			ns, err := neighbors(v)
			if err != nil {
				return err
			}
			for _, n := range ns {
				if visited.Contains(n.Packed()) {
					continue
				}
				visited.Add(n.Packed())
				next = append(next, n)
				if depth >= opts.MinDepth {
					*result = append(*result, n)
				}
			}
		}
		frontier = next
	}
	return nil
}

func dfs(v types.RecordId, depth int, opts TraverseOptions, visited *roaring.Bitmap, neighbors func(types.RecordId) ([]types.RecordId, error), result *[]types.RecordId) error {
	if depth >= opts.MaxDepth {
		return nil
	}
	ns, err := neighbors(v)
	if err != nil {
		return err
	}
	for _, n := range ns {
		if visited.Contains(n.Packed()) {
			continue
		}
		visited.Add(n.Packed())
		if depth+1 >= opts.MinDepth {
			*result = append(*result, n)
		}
		if err := dfs(n, depth+1, opts, visited, neighbors, result); err != nil {
			return err
		}
	}
	return nil
}
