package catalog

import (
	"sync/atomic"

	"github.com/cuemby/graphdb/pkg/kv"
)

// Catalog owns the published Snapshot and mediates every schema-changing
// transaction's overlay through to disk. It is safe for concurrent use:
// Current is lock-free (atomic.Pointer), and Begin/Stage/Publish are only
// ever called by the single writer txnmgr admits at a time (§5).
type Catalog struct {
	current atomic.Pointer[Snapshot]
}

// Open provisions the reserved catalog buckets if this is a brand new
// environment, loads the persisted descriptors into memory, and publishes
// the initial Snapshot.
func Open(engine *kv.Engine) (*Catalog, error) {
	for _, name := range reservedBuckets {
		if err := engine.EnsureBucket(name); err != nil {
			return nil, err
		}
	}

	txn, err := engine.Begin(false)
	if err != nil {
		return nil, err
	}
	defer txn.Rollback()

	snap, _, err := loadSnapshot(txn)
	if err != nil {
		return nil, err
	}

	c := &Catalog{}
	c.current.Store(snap)
	return c, nil
}

// Current returns the most recently published Snapshot. Safe to call from
// any goroutine without synchronization.
func (c *Catalog) Current() *Snapshot {
	return c.current.Load()
}

// Begin starts a schema overlay for a write transaction, cloned from the
// currently published Snapshot and the persisted id counters.
func (c *Catalog) Begin(txn *kv.Txn) (*OverlayTx, error) {
	_, counters, err := loadSnapshot(txn)
	if err != nil {
		return nil, err
	}
	return newOverlay(c.Current(), counters), nil
}

// Stage persists an overlay's resulting descriptors into txn's catalog
// buckets. Call this before committing txn.
func (c *Catalog) Stage(txn *kv.Txn, o *OverlayTx) error {
	return stage(txn, o)
}

// Publish makes an overlay's resulting state visible to new transactions.
// Callers must only call this after the kv.Txn that Stage wrote into has
// committed successfully (§9's catalog-overlay-then-KV-commit-then-publish
// ordering) — publishing before the KV commit lands would let a reader see
// schema state with no corresponding durable record.
func (c *Catalog) Publish(o *OverlayTx) *Snapshot {
	next := o.working
	next.generation = c.Current().generation + 1
	c.current.Store(next)
	return next
}
