package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/record"
	"github.com/cuemby/graphdb/pkg/relation"
	"github.com/cuemby/graphdb/pkg/secindex"
	"github.com/cuemby/graphdb/pkg/txnmgr"
	"github.com/cuemby/graphdb/pkg/types"
)

func openManager(t *testing.T) *txnmgr.Manager {
	t.Helper()
	mgr, err := txnmgr.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

// personGraph sets up a Person vertex class (name text, age int) and a
// Knows edge class (weight real), then adds four people in a line
// A->B->C->D connected by Knows edges, returning their record ids.
type personGraph struct {
	person, knows types.ClassId
	age, weight   types.PropertyId
	a, b, c, d    types.RecordId
}

func buildPersonGraph(t *testing.T, mgr *txnmgr.Manager) personGraph {
	t.Helper()
	txn, err := mgr.BeginWrite(context.Background())
	require.NoError(t, err)

	overlay := txn.Overlay()
	person, err := overlay.AddClass("Person", types.ClassKindVertex, nil)
	require.NoError(t, err)
	_, err = overlay.AddProperty(person, "name", types.PropertyText)
	require.NoError(t, err)
	age, err := overlay.AddProperty(person, "age", types.PropertyInt)
	require.NoError(t, err)
	knows, err := overlay.AddClass("Knows", types.ClassKindEdge, nil)
	require.NoError(t, err)
	weight, err := overlay.AddProperty(knows, "weight", types.PropertyReal)
	require.NoError(t, err)

	snap := overlay.Snapshot()
	records := record.New()
	rel := relation.New()

	add := func(name string, ageVal int64) types.RecordId {
		rec := types.NewRecord().Set("name", types.TextValue(name)).Set("age", types.IntValue(types.PropertyInt, ageVal))
		rid, err := records.AddRecord(txn.KV(), snap, person, rec)
		require.NoError(t, err)
		return rid
	}
	a := add("alice", 30)
	b := add("bob", 40)
	c := add("carol", 50)
	d := add("dave", 60)

	addEdge := func(from, to types.RecordId, w float64) {
		edgeRec := types.NewRecord().Set("weight", types.RealValue(w))
		eid, err := records.AddRecord(txn.KV(), snap, knows, edgeRec)
		require.NoError(t, err)
		require.NoError(t, rel.AddEdge(txn.KV(), eid, from, to))
	}
	addEdge(a, b, 1)
	addEdge(b, c, 5)
	addEdge(c, d, 1)
	addEdge(a, d, 100) // a long direct shortcut, heavier than the a-b-c-d chain

	require.NoError(t, txn.Commit())

	return personGraph{person: person, knows: knows, age: age, weight: weight, a: a, b: b, c: c, d: d}
}

func TestFindWhereFullScanUnindexed(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	got, err := Find(txn, g.person).Where(Condition{Property: "age", Op: secindex.Ge, Value: types.IntValue(types.PropertyInt, 40)}).Get()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{g.b, g.c, g.d}, got)
}

func TestFindIndexedMatchesUnindexedResult(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	// Build and populate an index on Person.age in a separate write txn,
	// mirroring how pkg/graphdb's addIndex would backfill via Reindex.
	txn, err := mgr.BeginWrite(context.Background())
	require.NoError(t, err)
	idxID, err := txn.Overlay().CreateIndex(g.person, g.age, false)
	require.NoError(t, err)
	idxDesc, ok := txn.Overlay().Snapshot().Index(idxID)
	require.True(t, ok)

	records := record.New()
	indexes := secindex.New()
	cur, err := records.ScanClass(txn.KV(), txn.Overlay().Snapshot(), g.person)
	require.NoError(t, err)
	for rid, rec, ok := cur.First(); ok; rid, rec, ok = cur.Next() {
		v, present := rec.Get("age")
		require.True(t, present)
		require.NoError(t, indexes.Insert(txn.KV(), idxDesc, rid, v))
	}
	require.NoError(t, txn.Commit())

	read, err := mgr.BeginRead()
	require.NoError(t, err)
	defer read.Rollback()

	cond := Condition{Property: "age", Op: secindex.Ge, Value: types.IntValue(types.PropertyInt, 40)}
	viaIndex, err := Find(read, g.person).Where(cond).Indexed().Get()
	require.NoError(t, err)
	viaScan, err := Find(read, g.person).Where(cond).Get()
	require.NoError(t, err)
	assert.ElementsMatch(t, viaScan, viaIndex)
}

// between(30,50,{false,true}) excludes 30, includes 50: {b,c}.
func TestFindBetweenFullScan(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	cond := Between("age", types.IntValue(types.PropertyInt, 30), types.IntValue(types.PropertyInt, 50), false, true)
	got, err := Find(txn, g.person).Where(cond).Get()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{g.b, g.c}, got)
}

func TestFindBetweenIndexedMatchesUnindexed(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginWrite(context.Background())
	require.NoError(t, err)
	idxID, err := txn.Overlay().CreateIndex(g.person, g.age, false)
	require.NoError(t, err)
	idxDesc, ok := txn.Overlay().Snapshot().Index(idxID)
	require.True(t, ok)

	records := record.New()
	indexes := secindex.New()
	cur, err := records.ScanClass(txn.KV(), txn.Overlay().Snapshot(), g.person)
	require.NoError(t, err)
	for rid, rec, ok := cur.First(); ok; rid, rec, ok = cur.Next() {
		v, present := rec.Get("age")
		require.True(t, present)
		require.NoError(t, indexes.Insert(txn.KV(), idxDesc, rid, v))
	}
	require.NoError(t, txn.Commit())

	read, err := mgr.BeginRead()
	require.NoError(t, err)
	defer read.Rollback()

	cond := Between("age", types.IntValue(types.PropertyInt, 30), types.IntValue(types.PropertyInt, 50), false, true)
	viaIndex, err := Find(read, g.person).Where(cond).Indexed().Get()
	require.NoError(t, err)
	viaScan, err := Find(read, g.person).Where(cond).Get()
	require.NoError(t, err)
	assert.ElementsMatch(t, viaScan, viaIndex)
	assert.ElementsMatch(t, []types.RecordId{g.b, g.c}, viaIndex)
}

// §8: a between() whose low bound exceeds its high bound matches nothing,
// and one whose bounds are equal with both inclusive matches exactly the
// single record equal to that value.
func TestFindBetweenBoundaryCases(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	empty := Between("age", types.IntValue(types.PropertyInt, 50), types.IntValue(types.PropertyInt, 30), true, true)
	got, err := Find(txn, g.person).Where(empty).Get()
	require.NoError(t, err)
	assert.Empty(t, got)

	single := Between("age", types.IntValue(types.PropertyInt, 40), types.IntValue(types.PropertyInt, 40), true, true)
	got, err = Find(txn, g.person).Where(single).Get()
	require.NoError(t, err)
	assert.Equal(t, []types.RecordId{g.b}, got)
}

func TestFindIndexedFailsWithoutIndex(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	_, err = Find(txn, g.person).Where(Condition{Property: "age", Op: secindex.Eq, Value: types.IntValue(types.PropertyInt, 30)}).Indexed().Get()
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeNoExistIndex, gderrors.CodeOf(err))
}

func TestCursorExpiresAfterTransactionCloses(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)

	cursor, err := Find(txn, g.person).GetCursor()
	require.NoError(t, err)
	require.NoError(t, txn.Rollback())

	_, _, err = cursor.Next()
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeCursorExpired, gderrors.CodeOf(err))
}

func TestCursorExpiresAfterSchemaChange(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()
	cursor, err := Find(txn, g.person).GetCursor()
	require.NoError(t, err)

	writer, err := mgr.BeginWrite(context.Background())
	require.NoError(t, err)
	_, err = writer.Overlay().AddClass("Other", types.ClassKindVertex, nil)
	require.NoError(t, err)
	require.NoError(t, writer.Commit())

	_, _, err = cursor.Next()
	require.Error(t, err)
	assert.Equal(t, gderrors.CodeCursorExpired, gderrors.CodeOf(err))
}

func TestTraverseOutVisitsReachableVertices(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	got, err := Traverse(txn, g.a, Out, DefaultTraverseOptions())
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{g.b, g.c, g.d}, got)
}

func TestTraverseRespectsDepthBounds(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	got, err := Traverse(txn, g.a, Out, TraverseOptions{MinDepth: 1, MaxDepth: 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{g.b, g.d}, got, "depth 1 from a reaches only its direct out-neighbors")
}

func TestTraverseInFollowsReverseDirection(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	got, err := Traverse(txn, g.d, In, DefaultTraverseOptions())
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{g.a, g.b, g.c}, got)
}

func TestShortestPathUnweightedPrefersFewestHops(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	path, err := ShortestPath(txn, g.a, g.d, Out)
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.Equal(t, []types.RecordId{g.a, g.d}, path.Vertices, "the direct a->d edge is one hop, fewer than the a-b-c-d chain")
}

func TestWeightedShortestPathPrefersLighterPath(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	path, err := WeightedShortestPath(txn, g.a, g.d, Out, "weight")
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.Equal(t, []types.RecordId{g.a, g.b, g.c, g.d}, path.Vertices, "a-b-c-d totals weight 7, cheaper than the direct 100-weight edge")
	assert.InDelta(t, 7, path.Weight, 0.0001)
}

// An edge missing the weighted property defaults to weight 1 rather than
// failing the search (§4.8), so a two-hop path through an unweighted edge
// can still beat a heavier direct edge.
func TestWeightedShortestPathDefaultsMissingWeightToOne(t *testing.T) {
	mgr := openManager(t)
	txn, err := mgr.BeginWrite(context.Background())
	require.NoError(t, err)

	overlay := txn.Overlay()
	person, err := overlay.AddClass("Person", types.ClassKindVertex, nil)
	require.NoError(t, err)
	knows, err := overlay.AddClass("Knows", types.ClassKindEdge, nil)
	require.NoError(t, err)
	_, err = overlay.AddProperty(knows, "weight", types.PropertyReal)
	require.NoError(t, err)

	snap := overlay.Snapshot()
	records := record.New()
	rel := relation.New()

	a, err := records.AddRecord(txn.KV(), snap, person, types.NewRecord())
	require.NoError(t, err)
	b, err := records.AddRecord(txn.KV(), snap, person, types.NewRecord())
	require.NoError(t, err)
	c, err := records.AddRecord(txn.KV(), snap, person, types.NewRecord())
	require.NoError(t, err)

	// a->b and b->c carry no "weight" property at all (defaults to 1 each,
	// total 2); a->c is explicitly weighted at 10.
	e1, err := records.AddRecord(txn.KV(), snap, knows, types.NewRecord())
	require.NoError(t, err)
	require.NoError(t, rel.AddEdge(txn.KV(), e1, a, b))
	e2, err := records.AddRecord(txn.KV(), snap, knows, types.NewRecord())
	require.NoError(t, err)
	require.NoError(t, rel.AddEdge(txn.KV(), e2, b, c))
	e3, err := records.AddRecord(txn.KV(), snap, knows, types.NewRecord().Set("weight", types.RealValue(10)))
	require.NoError(t, err)
	require.NoError(t, rel.AddEdge(txn.KV(), e3, a, c))

	require.NoError(t, txn.Commit())

	read, err := mgr.BeginRead()
	require.NoError(t, err)
	defer read.Rollback()

	path, err := WeightedShortestPath(read, a, c, Out, "weight")
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.Equal(t, []types.RecordId{a, b, c}, path.Vertices)
	assert.InDelta(t, 2, path.Weight, 0.0001)
}

func TestShortestPathUnreachableReturnsNil(t *testing.T) {
	mgr := openManager(t)
	g := buildPersonGraph(t, mgr)

	txn, err := mgr.BeginRead()
	require.NoError(t, err)
	defer txn.Rollback()

	path, err := ShortestPath(txn, g.d, g.a, Out)
	require.NoError(t, err)
	assert.Nil(t, path, "edges only run forward a->b->c->d (and a->d), so d cannot reach a via Out")
}
