// Package txnmgr implements the Transaction Manager (SPEC_FULL.md §4.7):
// the single-writer, multi-reader MVCC coordinator sitting on top of
// pkg/kv and pkg/catalog. Every read or write transaction the rest of this
// module performs against the database goes through a *Txn this package
// hands out.
package txnmgr

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cuemby/graphdb/pkg/catalog"
	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/metrics"
)

// Manager owns the environment and catalog for one open database and
// enforces the single-writer contract: at most one write Txn may be open
// at a time, while any number of read Txns may run concurrently against
// their own captured catalog.Snapshot (§5).
type Manager struct {
	engine  *kv.Engine
	catalog *catalog.Catalog

	// writerSlot is a 1-buffered channel acting as a cancellable mutex: a
	// send acquires it, a receive releases it. Plain sync.Mutex has no way
	// to honor ctx cancellation while waiting, which BeginWrite needs (§5:
	// "a context only cancels the wait to acquire the write slot, never an
	// in-flight transaction").
	writerSlot chan struct{}

	openReaders atomic.Int64
	nextTxnID   atomic.Uint64
}

// Open opens (creating if necessary) the environment at dir and loads its
// catalog.
func Open(dir string, opts kv.Options) (*Manager, error) {
	engine, err := kv.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Open(engine)
	if err != nil {
		_ = engine.Close()
		return nil, err
	}
	m := &Manager{engine: engine, catalog: cat, writerSlot: make(chan struct{}, 1)}
	m.writerSlot <- struct{}{}
	return m, nil
}

// Close closes the underlying environment. Callers must ensure every Txn
// this Manager issued has already been committed or rolled back.
func (m *Manager) Close() error {
	return m.engine.Close()
}

// Catalog exposes the manager's catalog for components (pkg/graphdb) that
// need to read the current Snapshot outside of a transaction, e.g. to
// describe the schema.
func (m *Manager) Catalog() *catalog.Catalog { return m.catalog }

// BeginRead opens a read-only transaction against the currently published
// catalog Snapshot. The transaction never blocks on the writer slot —
// bbolt read transactions run against their own MVCC snapshot of the data
// file independent of any in-flight write (§4.7).
func (m *Manager) BeginRead() (*Txn, error) {
	kvTxn, err := m.engine.Begin(false)
	if err != nil {
		return nil, err
	}
	m.openReaders.Add(1)
	metrics.OpenReadTxns.Inc()
	return &Txn{
		mgr:      m,
		id:       m.nextTxnID.Add(1),
		kv:       kvTxn,
		writable: false,
		snapshot: m.catalog.Current(),
	}, nil
}

// BeginWrite acquires the single writer slot and opens a read-write
// transaction. ctx bounds only the wait to acquire the slot; once acquired,
// the transaction runs to completion regardless of ctx (§5).
func (m *Manager) BeginWrite(ctx context.Context) (*Txn, error) {
	select {
	case <-m.writerSlot:
	default:
		metrics.WriterContentionTotal.Inc()
		select {
		case <-m.writerSlot:
		case <-ctx.Done():
			return nil, gderrors.Usage(gderrors.CodeWriterBusy, "timed out waiting for the write transaction slot")
		}
	}
	metrics.WriterHeld.Set(1)

	kvTxn, err := m.engine.Begin(true)
	if err != nil {
		m.releaseWriterSlot()
		return nil, err
	}
	overlay, err := m.catalog.Begin(kvTxn)
	if err != nil {
		_ = kvTxn.Rollback()
		m.releaseWriterSlot()
		return nil, err
	}

	return &Txn{
		mgr:       m,
		id:        m.nextTxnID.Add(1),
		kv:        kvTxn,
		writable:  true,
		snapshot:  m.catalog.Current(),
		overlay:   overlay,
		startedAt: time.Now(),
	}, nil
}

func (m *Manager) releaseWriterSlot() {
	metrics.WriterHeld.Set(0)
	m.writerSlot <- struct{}{}
}

// Txn is a single logical database transaction, read-only or read-write.
type Txn struct {
	mgr      *Manager
	id       uint64
	kv       *kv.Txn
	writable bool
	snapshot *catalog.Snapshot
	overlay  *catalog.OverlayTx

	startedAt time.Time
	closed    bool
	mu        sync.Mutex
}

// ID returns this transaction's manager-local, monotonically increasing id.
func (t *Txn) ID() uint64 { return t.id }

// KV exposes the underlying storage transaction to pkg/record, pkg/relation
// and pkg/secindex, which all operate directly on KV buckets.
func (t *Txn) KV() *kv.Txn { return t.kv }

// Snapshot returns the catalog view this transaction is running against.
// For a write transaction this is the overlay's live working view, so
// schema edits made earlier in the same transaction are visible to later
// operations in it; for a read transaction it is the Snapshot captured at
// BeginRead and never changes.
func (t *Txn) Snapshot() *catalog.Snapshot {
	if t.overlay != nil {
		return t.overlay.Snapshot()
	}
	return t.snapshot
}

// Overlay returns the schema overlay for a write transaction, or nil for a
// read transaction.
func (t *Txn) Overlay() *catalog.OverlayTx { return t.overlay }

// Writable reports whether this transaction may mutate the database.
func (t *Txn) Writable() bool { return t.writable }

// Generation reports the generation of the catalog's most recently
// published Snapshot, for the cursor-expiry check pkg/query performs (§9).
// It advances whenever any write transaction commits, so a cursor that
// captured it earlier can tell a newer catalog has been published.
func (t *Txn) Generation() uint64 { return t.mgr.catalog.Current().Generation() }

// Closed reports whether Commit or Rollback has already run, the signal a
// long-lived cursor checks before using a Txn further.
func (t *Txn) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Commit finalizes the transaction: for a write transaction, it stages the
// schema overlay, commits the underlying KV transaction, and only then
// publishes the overlay to the catalog and releases the writer slot — in
// that order, so a reader can never observe published schema state that
// is not actually durable (§9).
func (t *Txn) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return gderrors.Usage(gderrors.CodeTxnClosed, "transaction already closed")
	}
	t.closed = true

	if !t.writable {
		metrics.OpenReadTxns.Dec()
		t.mgr.openReaders.Add(-1)
		return t.kv.Rollback()
	}

	timer := metrics.NewTimer()
	if err := t.mgr.catalog.Stage(t.kv, t.overlay); err != nil {
		_ = t.kv.Rollback()
		t.mgr.releaseWriterSlot()
		metrics.TxnsAbortedTotal.WithLabelValues("stage-failed").Inc()
		return err
	}
	if err := t.kv.Commit(); err != nil {
		t.mgr.releaseWriterSlot()
		metrics.TxnsAbortedTotal.WithLabelValues("commit-failed").Inc()
		return err
	}
	t.mgr.catalog.Publish(t.overlay)
	t.mgr.releaseWriterSlot()
	timer.ObserveDuration(metrics.CommitDuration)
	metrics.TxnsCommittedTotal.WithLabelValues("write").Inc()

	log.WithTxnID(t.id).Debug().Dur("duration", time.Since(t.startedAt)).Msg("transaction committed")
	return nil
}

// Rollback discards the transaction. Rolling back an already-closed
// transaction is a no-op.
func (t *Txn) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true

	err := t.kv.Rollback()
	if t.writable {
		t.mgr.releaseWriterSlot()
		metrics.TxnsAbortedTotal.WithLabelValues("rollback").Inc()
	} else {
		metrics.OpenReadTxns.Dec()
		t.mgr.openReaders.Add(-1)
	}
	return err
}

// OpenReaders reports the number of currently open read-only transactions.
func (m *Manager) OpenReaders() int64 { return m.openReaders.Load() }
