// Package kv wraps go.etcd.io/bbolt as the ordered, transactional,
// memory-mapped B+-tree store SPEC_FULL.md §4.1 calls the KV Engine. Every
// other package in this module (catalog, record, relation, secindex) talks
// to the database only through Engine/Txn/Cursor — none of them imports
// bbolt directly, which is what lets §4.1's "KV Engine is swappable in
// principle" property hold in practice.
//
// bbolt has no native MDB_DUPSORT support, unlike the LMDB-family engines
// the wider spec was written against. Rather than reach for a different
// library, the rest of this module follows §4.1's documented fallback:
// duplicate-value semantics (the relation index's incidence lists, the
// secondary index's non-unique entries) are emulated with composite keys —
// see pkg/codec's IndexKey/RecordIdKey — and DupCursor here walks those
// composite keys with a plain prefix scan.
package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/log"
)

const dataFileName = "graph.db"

// Options configures Open.
type Options struct {
	// ReadOnly is accepted but not consulted by Open: the exclusive lock
	// file is always taken and write transactions are always permitted, so
	// there is exactly one process per environment directory, per §4.7/§6.
	ReadOnly bool

	// Timeout bounds how long Open waits for the bbolt file lock (separate
	// from the sibling advisory lock file). Zero means bbolt's default,
	// which blocks indefinitely.
	Timeout time.Duration

	// MaxReaders is accepted but not enforced: neither Engine nor txnmgr
	// limits the number of concurrently open read-only transactions.
	// txnmgr.Manager.OpenReaders reports the current count.
	MaxReaders int
}

// Engine owns a single environment directory: the data file, the sibling
// advisory lock, and bucket (sub-database) namespace management.
type Engine struct {
	db   *bolt.DB
	lock *flock.Flock
	path string
}

// Open creates the environment directory if needed, acquires the exclusive
// sibling lock file, and opens the bbolt data file inside it.
func Open(dir string, opts Options) (*Engine, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "failed to create environment directory", err)
	}

	fl, err := acquireExclusive(dir)
	if err != nil {
		return nil, err
	}

	boltOpts := &bolt.Options{Timeout: opts.Timeout, ReadOnly: false}
	dbPath := filepath.Join(dir, dataFileName)
	db, err := bolt.Open(dbPath, 0o600, boltOpts)
	if err != nil {
		_ = releaseExclusive(fl)
		return nil, gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "failed to open database file", err)
	}

	log.WithComponent("kv").Info().Str("path", dbPath).Msg("environment opened")
	return &Engine{db: db, lock: fl, path: dir}, nil
}

// Close commits no pending work (callers must commit/rollback every Txn
// themselves); it just closes the data file and releases the lock file.
func (e *Engine) Close() error {
	if err := e.db.Close(); err != nil {
		return gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, "failed to close database file", err)
	}
	if err := releaseExclusive(e.lock); err != nil {
		return err
	}
	log.WithComponent("kv").Info().Str("path", e.path).Msg("environment closed")
	return nil
}

// Path returns the environment directory Open was given.
func (e *Engine) Path() string { return e.path }

// Begin starts a manually-lifecycled transaction. Unlike bbolt's
// View/Update closures, the caller controls exactly when Commit or
// Rollback runs — txnmgr needs this because a graph transaction spans
// catalog, record, relation and secondary-index work before it knows
// whether to commit.
//
// A writable Begin blocks until bbolt's single writer-transaction slot is
// free. txnmgr does not rely on this blocking behavior for its own
// single-writer contract (§9): it guards entry with its own advisory mutex
// first, so in practice this call never contends.
func (e *Engine) Begin(writable bool) (*Txn, error) {
	tx, err := e.db.Begin(writable)
	if err != nil {
		return nil, translateError(err)
	}
	return &Txn{tx: tx, writable: writable}, nil
}

// EnsureBucket creates the named top-level sub-database if it does not
// exist, inside its own write transaction. Used at startup to provision the
// catalog's reserved sub-databases (§4.3).
func (e *Engine) EnsureBucket(name string) error {
	err := e.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	})
	if err != nil {
		return gderrors.New(gderrors.CodeStorageGeneric, gderrors.CategoryStorage, fmt.Sprintf("failed to create bucket %q", name), err)
	}
	return nil
}
