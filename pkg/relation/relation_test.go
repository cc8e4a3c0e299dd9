package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/types"
)

func openEngine(t *testing.T) *kv.Engine {
	t.Helper()
	engine, err := kv.Open(t.TempDir(), kv.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func rid(class types.ClassId, pos types.PositionId) types.RecordId {
	return types.RecordId{ClassId: class, Position: pos}
}

func TestAddEdgeAndEndpoints(t *testing.T) {
	engine := openEngine(t)
	ix := New()

	v1, v2, e1 := rid(1, 0), rid(1, 1), rid(2, 0)

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.AddEdge(txn, e1, v1, v2))
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	ep, err := ix.Endpoints(ro, e1)
	require.NoError(t, err)
	assert.Equal(t, v1, ep.From)
	assert.Equal(t, v2, ep.To)
}

func TestOutEdgesAndInEdges(t *testing.T) {
	engine := openEngine(t)
	ix := New()

	v1, v2, v3 := rid(1, 0), rid(1, 1), rid(1, 2)
	e1, e2 := rid(2, 0), rid(2, 1)

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.AddEdge(txn, e1, v1, v2))
	require.NoError(t, ix.AddEdge(txn, e2, v1, v3))
	require.NoError(t, txn.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()

	out, err := ix.OutEdges(ro, v1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{e1, e2}, out)

	in, err := ix.InEdges(ro, v2)
	require.NoError(t, err)
	assert.Equal(t, []types.RecordId{e1}, in)
}

func TestDeleteEdgeRemovesBothIncidenceEntries(t *testing.T) {
	engine := openEngine(t)
	ix := New()

	v1, v2, e1 := rid(1, 0), rid(1, 1), rid(2, 0)
	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.AddEdge(txn, e1, v1, v2))
	require.NoError(t, txn.Commit())

	txn2, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.DeleteEdge(txn2, e1))
	require.NoError(t, txn2.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()

	out, err := ix.OutEdges(ro, v1)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = ix.Endpoints(ro, e1)
	assert.Error(t, err)
}

func TestDeleteVertexCascadesToIncidentEdges(t *testing.T) {
	engine := openEngine(t)
	ix := New()

	v1, v2, v3 := rid(1, 0), rid(1, 1), rid(1, 2)
	e1, e2, e3 := rid(2, 0), rid(2, 1), rid(2, 2)

	txn, err := engine.Begin(true)
	require.NoError(t, err)
	require.NoError(t, ix.AddEdge(txn, e1, v1, v2))
	require.NoError(t, ix.AddEdge(txn, e2, v3, v1))
	require.NoError(t, ix.AddEdge(txn, e3, v2, v3))
	require.NoError(t, txn.Commit())

	txn2, err := engine.Begin(true)
	require.NoError(t, err)
	removed, err := ix.DeleteVertex(txn2, v1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.RecordId{e1, e2}, removed)
	require.NoError(t, txn2.Commit())

	ro, err := engine.Begin(false)
	require.NoError(t, err)
	defer ro.Rollback()
	remainingOut, err := ix.OutEdges(ro, v2)
	require.NoError(t, err)
	assert.Equal(t, []types.RecordId{e3}, remainingOut)

	_, err = ix.Endpoints(ro, e1)
	assert.Error(t, err)
	_, err = ix.Endpoints(ro, e2)
	assert.Error(t, err)
	_, err = ix.Endpoints(ro, e3)
	assert.NoError(t, err)
}
