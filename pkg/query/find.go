// Package query implements Find & Traversal (SPEC_FULL.md §4.8): class
// scans with optional indexed predicates, directed BFS/DFS traversal, and
// shortest-path search, all running against a single txnmgr.Txn.
package query

import (
	"github.com/cuemby/graphdb/pkg/catalog"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/record"
	"github.com/cuemby/graphdb/pkg/secindex"
	"github.com/cuemby/graphdb/pkg/txnmgr"
	"github.com/cuemby/graphdb/pkg/types"
)

// Condition names an indexed or unindexed equality/range predicate for
// Finder.Where, by property name rather than id so callers never need to
// resolve a PropertyId themselves. High, LowInclusive, and HighInclusive are
// only meaningful when Op is secindex.Between.
type Condition struct {
	Property      string
	Op            secindex.Op
	Value         types.Value
	High          types.Value
	LowInclusive  bool
	HighInclusive bool
}

// Between builds a bounded-range Condition equivalent to the documented
// between(lo, hi, [loInclusive, hiInclusive]) operation (§4.8): a lo greater
// than hi matches nothing, and lo == hi with both bounds inclusive matches
// exactly the records equal to lo.
func Between(property string, lo, hi types.Value, loInclusive, hiInclusive bool) Condition {
	return Condition{
		Property:      property,
		Op:            secindex.Between,
		Value:         lo,
		High:          hi,
		LowInclusive:  loInclusive,
		HighInclusive: hiInclusive,
	}
}

// Finder builds and executes a class-scoped lookup: find(class).where(cond)
// [.indexed()].get() / .getCursor() (§4.8).
type Finder struct {
	txn       *txnmgr.Txn
	class     types.ClassId
	cond      *Condition
	requireIx bool

	records *record.Store
	indexes *secindex.Index
}

// Find begins a lookup over class's records within txn.
func Find(txn *txnmgr.Txn, class types.ClassId) *Finder {
	return &Finder{txn: txn, class: class, records: record.New(), indexes: secindex.New()}
}

// Where attaches a filter predicate. Without Indexed(), Get falls back to a
// full class scan filtering in-process if no matching index exists.
func (f *Finder) Where(cond Condition) *Finder {
	f.cond = &cond
	return f
}

// Indexed requires Get/GetCursor to use a secondary index for the attached
// Where predicate, failing with CodeNoExistIndex rather than silently
// falling back to a full scan (§4.8's explicit indexed() opt-in).
func (f *Finder) Indexed() *Finder {
	f.requireIx = true
	return f
}

// Get executes the lookup and returns every matching RecordId.
func (f *Finder) Get() ([]types.RecordId, error) {
	snap := f.txn.Snapshot()
	if _, ok := snap.Class(f.class); !ok {
		return nil, gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", f.class)
	}

	if f.cond == nil {
		return f.fullScan(snap, nil)
	}

	prop, ok := snap.PropertyByName(f.class, f.cond.Property)
	if !ok {
		return nil, gderrors.Usage(gderrors.CodeNoExistProperty, "class %d has no property %q", f.class, f.cond.Property)
	}

	idx, hasIndex := snap.IndexFor(f.class, prop.ID)
	if hasIndex {
		return f.indexes.Lookup(f.txn.KV(), idx, secindex.Condition{
			Op:            f.cond.Op,
			Value:         f.cond.Value,
			High:          f.cond.High,
			LowInclusive:  f.cond.LowInclusive,
			HighInclusive: f.cond.HighInclusive,
		})
	}
	if f.requireIx {
		return nil, gderrors.Usage(gderrors.CodeNoExistIndex, "class %d property %q has no index", f.class, f.cond.Property)
	}
	return f.fullScan(snap, f.cond)
}

// GetCursor returns a streaming Cursor equivalent to Get, pinned to this
// transaction's catalog generation (§9).
func (f *Finder) GetCursor() (*Cursor, error) {
	snap := f.txn.Snapshot()
	if _, ok := snap.Class(f.class); !ok {
		return nil, gderrors.Usage(gderrors.CodeNoExistClass, "class %d does not exist", f.class)
	}
	rc, err := f.records.ScanClass(f.txn.KV(), snap, f.class)
	if err != nil {
		return nil, err
	}
	return &Cursor{txn: f.txn, generation: f.txn.Generation(), inner: rc, cond: f.cond}, nil
}

func (f *Finder) fullScan(snap *catalog.Snapshot, cond *Condition) ([]types.RecordId, error) {
	rc, err := f.records.ScanClass(f.txn.KV(), snap, f.class)
	if err != nil {
		return nil, err
	}
	var out []types.RecordId
	for rid, rec, ok := rc.First(); ok; rid, rec, ok = rc.Next() {
		if cond == nil {
			out = append(out, rid)
			continue
		}
		v, present := rec.Get(cond.Property)
		if !present {
			continue
		}
		if matches(v, cond) {
			out = append(out, rid)
		}
	}
	return out, nil
}

// matches evaluates an unindexed condition against v.
func matches(v types.Value, cond *Condition) bool {
	if cond.Op == secindex.Between {
		if compareValues(cond.Value, cond.High) > 0 {
			return false
		}
		lo := compareValues(v, cond.Value)
		if lo < 0 || (lo == 0 && !cond.LowInclusive) {
			return false
		}
		hi := compareValues(v, cond.High)
		if hi > 0 || (hi == 0 && !cond.HighInclusive) {
			return false
		}
		return true
	}

	cmp := compareValues(v, cond.Value)
	if cmp == 2 {
		return false
	}
	switch cond.Op {
	case secindex.Eq:
		return cmp == 0
	case secindex.Lt:
		return cmp < 0
	case secindex.Le:
		return cmp <= 0
	case secindex.Gt:
		return cmp > 0
	case secindex.Ge:
		return cmp >= 0
	default:
		return false
	}
}

// compareValues orders two values of the same type. Numeric types compare
// by their numeric value; text compares lexicographically; any other
// comparison (mismatched types, blob) is unordered and returns 2, which
// matches treats as satisfying no operator.
func compareValues(a, b types.Value) int {
	if a.Type != b.Type {
		return 2
	}
	switch {
	case a.Type.Numeric() && a.Type != types.PropertyReal:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		default:
			return 0
		}
	case a.Type == types.PropertyReal:
		switch {
		case a.Real < b.Real:
			return -1
		case a.Real > b.Real:
			return 1
		default:
			return 0
		}
	case a.Type == types.PropertyText:
		switch {
		case a.Text < b.Text:
			return -1
		case a.Text > b.Text:
			return 1
		default:
			return 0
		}
	default:
		return 2
	}
}

// Cursor streams a Finder's results, re-checking on every call that the
// issuing transaction is still open and that no newer catalog generation
// has been published since the cursor was created (every committed write
// transaction publishes one) — a cursor used after its transaction closes,
// or after a schema change, would otherwise be impossible to notice (§9).
type Cursor struct {
	txn        *txnmgr.Txn
	generation uint64
	inner      *record.Cursor
	cond       *Condition
}

func (c *Cursor) checkAlive() error {
	if c.txn.Closed() {
		return gderrors.Usage(gderrors.CodeCursorExpired, "cursor's transaction is no longer open")
	}
	if c.txn.Generation() != c.generation {
		return gderrors.Usage(gderrors.CodeCursorExpired, "cursor's catalog generation is stale")
	}
	return nil
}

// Next advances the cursor, returning (zero, nil, false) once exhausted.
func (c *Cursor) Next() (types.RecordId, *types.Record, error) {
	if err := c.checkAlive(); err != nil {
		return types.RecordId{}, nil, err
	}
	for {
		rid, rec, ok := c.inner.Next()
		if !ok {
			return types.RecordId{}, nil, nil
		}
		if c.cond == nil {
			return rid, rec, nil
		}
		v, present := rec.Get(c.cond.Property)
		if present && matches(v, c.cond) {
			return rid, rec, nil
		}
	}
}
