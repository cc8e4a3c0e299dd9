// Package relation implements the Relation Index (SPEC_FULL.md §4.5): the
// directed incidence structure linking edge records to their source and
// destination vertices, and the traversal-facing out/in edge lookups built
// on it.
package relation

import (
	"fmt"

	"github.com/cuemby/graphdb/pkg/codec"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

const (
	bucketEndpoints    = "endpoints"
	bucketIncidenceOut = "incidence_out"
	bucketIncidenceIn  = "incidence_in"
)

// Endpoints is the pair of vertices an edge connects.
type Endpoints struct {
	From types.RecordId
	To   types.RecordId
}

func encodeEndpoints(e Endpoints) []byte {
	out := make([]byte, 0, 20)
	out = append(out, codec.RecordIdKey(e.From)...)
	out = append(out, codec.RecordIdKey(e.To)...)
	return out
}

func decodeEndpoints(b []byte) (Endpoints, error) {
	if len(b) != 20 {
		return Endpoints{}, fmt.Errorf("relation: endpoints record has length %d, want 20", len(b))
	}
	from, err := codec.ParseRecordIdKey(b[:10])
	if err != nil {
		return Endpoints{}, err
	}
	to, err := codec.ParseRecordIdKey(b[10:])
	if err != nil {
		return Endpoints{}, err
	}
	return Endpoints{From: from, To: to}, nil
}

// incidenceKey packs vertex ∥ edge into the composite key the incidence
// sub-databases use to emulate bbolt's missing dup-sort support (§4.1,
// §4.5): every edge incident to vertex occupies a distinct physical key
// sharing vertex as a prefix, so a prefix scan lists them in edge RecordId
// order (edge ClassId, then PositionId; within one edge class that is
// insertion order).
func incidenceKey(vertex, edge types.RecordId) []byte {
	out := make([]byte, 0, 20)
	out = append(out, codec.RecordIdKey(vertex)...)
	out = append(out, codec.RecordIdKey(edge)...)
	return out
}

// Index mediates reads and writes against the relation sub-databases. It
// is stateless; all persistent state lives in the KV transaction.
type Index struct{}

// New returns an Index.
func New() *Index { return &Index{} }

// AddEdge records edge as connecting from -> to, inserting the forward and
// reverse incidence entries alongside the endpoints record. Callers are
// responsible for having already written edge's own property record via
// pkg/record.
func (ix *Index) AddEdge(txn *kv.Txn, edge, from, to types.RecordId) error {
	epBkt, err := txn.CreateBucketIfNotExists(bucketEndpoints)
	if err != nil {
		return err
	}
	if err := epBkt.Put(codec.RecordIdKey(edge), encodeEndpoints(Endpoints{From: from, To: to})); err != nil {
		return err
	}

	outBkt, err := txn.CreateBucketIfNotExists(bucketIncidenceOut)
	if err != nil {
		return err
	}
	if err := outBkt.Put(incidenceKey(from, edge), codec.RecordIdKey(to)); err != nil {
		return err
	}

	inBkt, err := txn.CreateBucketIfNotExists(bucketIncidenceIn)
	if err != nil {
		return err
	}
	return inBkt.Put(incidenceKey(to, edge), codec.RecordIdKey(from))
}

// Endpoints returns the vertices edge connects.
func (ix *Index) Endpoints(txn *kv.Txn, edge types.RecordId) (Endpoints, error) {
	bkt, err := txn.Bucket(bucketEndpoints)
	if err != nil {
		return Endpoints{}, gderrors.Usage(gderrors.CodeNoExistVertex, "edge %s does not exist", edge)
	}
	raw := bkt.Get(codec.RecordIdKey(edge))
	if raw == nil {
		return Endpoints{}, gderrors.Usage(gderrors.CodeNoExistVertex, "edge %s does not exist", edge)
	}
	return decodeEndpoints(raw)
}

// DeleteEdge removes edge's endpoints record and both incidence entries. It
// is not an error to delete an edge id that does not exist.
func (ix *Index) DeleteEdge(txn *kv.Txn, edge types.RecordId) error {
	ep, err := ix.Endpoints(txn, edge)
	if gderrors.IsCode(err, gderrors.CodeNoExistVertex) {
		return nil
	}
	if err != nil {
		return err
	}

	if bkt, err := txn.Bucket(bucketEndpoints); err == nil {
		if err := bkt.Delete(codec.RecordIdKey(edge)); err != nil {
			return err
		}
	}
	if bkt, err := txn.Bucket(bucketIncidenceOut); err == nil {
		if err := bkt.Delete(incidenceKey(ep.From, edge)); err != nil {
			return err
		}
	}
	if bkt, err := txn.Bucket(bucketIncidenceIn); err == nil {
		if err := bkt.Delete(incidenceKey(ep.To, edge)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteVertex removes every edge incident to vertex (both directions),
// cascading per §4.4/§9's resolved vertex-deletion semantics, and returns
// the ids of the edges it removed so the caller can also delete their
// property records.
func (ix *Index) DeleteVertex(txn *kv.Txn, vertex types.RecordId) ([]types.RecordId, error) {
	var removed []types.RecordId

	out, err := ix.OutEdges(txn, vertex)
	if err != nil {
		return nil, err
	}
	in, err := ix.InEdges(txn, vertex)
	if err != nil {
		return nil, err
	}

	seen := make(map[types.RecordId]bool)
	for _, e := range append(out, in...) {
		if seen[e] {
			continue
		}
		seen[e] = true
		if err := ix.DeleteEdge(txn, e); err != nil {
			return nil, err
		}
		removed = append(removed, e)
	}
	return removed, nil
}

// OutEdges lists every edge whose source is vertex, in edge RecordId order.
func (ix *Index) OutEdges(txn *kv.Txn, vertex types.RecordId) ([]types.RecordId, error) {
	return ix.scanIncidence(txn, bucketIncidenceOut, vertex)
}

// InEdges lists every edge whose destination is vertex, in edge RecordId
// order.
func (ix *Index) InEdges(txn *kv.Txn, vertex types.RecordId) ([]types.RecordId, error) {
	return ix.scanIncidence(txn, bucketIncidenceIn, vertex)
}

func (ix *Index) scanIncidence(txn *kv.Txn, bucket string, vertex types.RecordId) ([]types.RecordId, error) {
	bkt, err := txn.Bucket(bucket)
	if err != nil {
		return nil, nil
	}
	prefix := codec.RecordIdKey(vertex)
	dc := bkt.NewDupCursor(prefix)
	var out []types.RecordId
	for kvp, ok := dc.First(); ok; kvp, ok = dc.Next() {
		edge, err := codec.ParseRecordIdKey(kvp.Key[len(prefix):])
		if err != nil {
			return nil, err
		}
		out = append(out, edge)
	}
	return out, nil
}
