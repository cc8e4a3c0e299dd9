package query

import (
	"container/heap"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/record"
	"github.com/cuemby/graphdb/pkg/relation"
	"github.com/cuemby/graphdb/pkg/txnmgr"
	"github.com/cuemby/graphdb/pkg/types"
)

// Path is the result of a shortest-path search: the vertex sequence from
// source to destination inclusive, and the edge ids connecting each
// consecutive pair (len(Edges) == len(Vertices)-1).
type Path struct {
	Vertices []types.RecordId
	Edges    []types.RecordId
	Weight   float64
}

type edgeStep struct {
	edge types.RecordId
	to   types.RecordId
}

// pathParent records, for a vertex discovered during a path search, the
// predecessor vertex and the edge used to reach it.
type pathParent struct {
	vertex types.RecordId
	edge   types.RecordId
}

// outSteps lists the (edge, neighbor) pairs reachable from v following dir.
func outSteps(txn *txnmgr.Txn, rel *relation.Index, v types.RecordId, dir Direction) ([]edgeStep, error) {
	var steps []edgeStep
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
			steps = append(steps, edgeStep{edge: e, to: ep.To})
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
			steps = append(steps, edgeStep{edge: e, to: ep.From})
		}
	}
	return steps, nil
}

// ShortestPath finds an unweighted shortest path from src to dst following
// dir, using BFS (every edge has implicit weight 1). Returns (nil, nil) if
// dst is unreachable.
func ShortestPath(txn *txnmgr.Txn, src, dst types.RecordId, dir Direction) (*Path, error) {
	if src == dst {
		return &Path{Vertices: []types.RecordId{src}}, nil
	}
	rel := relation.New()

	came := map[types.RecordId]pathParent{src: {}}
	frontier := []types.RecordId{src}

	for len(frontier) > 0 {
		var next []types.RecordId
		for _, v := range frontier {
			steps, err := outSteps(txn, rel, v, dir)
			if err != nil {
				return nil, err
			}
			for _, st := range steps {
				if _, seen := came[st.to]; seen {
					continue
				}
				came[st.to] = pathParent{vertex: v, edge: st.edge}
				if st.to == dst {
					return reconstructPath(came, src, dst, func(types.RecordId) float64 { return 1 })
				}
				next = append(next, st.to)
			}
		}
		frontier = next
	}
	return nil, nil
}

func reconstructPath(came map[types.RecordId]pathParent, src, dst types.RecordId, weightOf func(types.RecordId) float64) (*Path, error) {
	var verts []types.RecordId
	var edges []types.RecordId
	total := 0.0
	cur := dst
	for cur != src {
		p := came[cur]
		verts = append([]types.RecordId{cur}, verts...)
		edges = append([]types.RecordId{p.edge}, edges...)
		total += weightOf(p.edge)
		cur = p.vertex
	}
	verts = append([]types.RecordId{src}, verts...)
	return &Path{Vertices: verts, Edges: edges, Weight: total}, nil
}

// dijkstraItem is a priority-queue entry for WeightedShortestPath.
type dijkstraItem struct {
	vertex types.RecordId
	dist   float64
	index  int
}

type priorityQueue []*dijkstraItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index = i; pq[j].index = j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*dijkstraItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// WeightedShortestPath runs Dijkstra's algorithm from src to dst following
// dir, weighting each edge by the numeric value of weightProperty on that
// edge's record. An edge missing the property defaults to weight 1, to
// stay total over graphs that only weight some edges; a present but
// non-numeric or negative weight is rejected with CodeInvalidPropType,
// since Dijkstra is undefined over negative weights.
func WeightedShortestPath(txn *txnmgr.Txn, src, dst types.RecordId, dir Direction, weightProperty string) (*Path, error) {
	if src == dst {
		return &Path{Vertices: []types.RecordId{src}}, nil
	}
	rel := relation.New()
	records := record.New()
	snap := txn.Snapshot()

	weightOf := func(edge types.RecordId) (float64, error) {
		rec, err := records.GetRecord(txn.KV(), snap, edge)
		if err != nil {
			return 0, err
		}
		v, ok := rec.Get(weightProperty)
		if !ok {
			return 1, nil
		}
		var w float64
		switch {
		case v.Type == types.PropertyReal:
			w = v.Real
		case v.Type.Numeric():
			w = float64(v.Int)
		default:
			return 0, gderrors.Usage(gderrors.CodeInvalidPropType, "property %q is not numeric", weightProperty)
		}
		if w < 0 {
			return 0, gderrors.Usage(gderrors.CodeInvalidPropType, "edge %s has negative weight", edge)
		}
		return w, nil
	}

	dist := map[types.RecordId]float64{src: 0}
	came := map[types.RecordId]pathParent{}
	visited := map[types.RecordId]bool{}

	pq := &priorityQueue{{vertex: src, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*dijkstraItem)
		if visited[cur.vertex] {
			continue
		}
		visited[cur.vertex] = true
		if cur.vertex == dst {
			break
		}

		steps, err := outSteps(txn, rel, cur.vertex, dir)
		if err != nil {
			return nil, err
		}
		for _, st := range steps {
			if visited[st.to] {
				continue
			}
			w, err := weightOf(st.edge)
			if err != nil {
				return nil, err
			}
			nd := cur.dist + w
			if existing, ok := dist[st.to]; !ok || nd < existing {
				dist[st.to] = nd
				came[st.to] = pathParent{vertex: cur.vertex, edge: st.edge}
				heap.Push(pq, &dijkstraItem{vertex: st.to, dist: nd})
			}
		}
	}

	if _, ok := dist[dst]; !ok {
		return nil, nil
	}

	var verts []types.RecordId
	var edges []types.RecordId
	total := 0.0
	cur := dst
	for cur != src {
		p := came[cur]
		w, err := weightOf(p.edge)
		if err != nil {
			return nil, err
		}
		verts = append([]types.RecordId{cur}, verts...)
		edges = append([]types.RecordId{p.edge}, edges...)
		total += w
		cur = p.vertex
	}
	verts = append([]types.RecordId{src}, verts...)
	return &Path{Vertices: verts, Edges: edges, Weight: total}, nil
}
