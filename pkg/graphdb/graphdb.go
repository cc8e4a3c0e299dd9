package graphdb

import (
	"context"

	"github.com/cuemby/graphdb/pkg/gderrors"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/txnmgr"
)

// Mode selects a transaction's access level, per §6's beginTxn(mode).
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// Database is an open environment: one KV engine, one catalog, one
// transaction manager, all guarded by the environment's advisory lock
// file for the life of the process holding it.
type Database struct {
	mgr *txnmgr.Manager
}

// Open opens (creating if absent) the environment directory at dir. Only
// one process may hold it open at a time; a second Open against the same
// directory fails with CodeContextLocked.
func Open(dir string, opts kv.Options) (*Database, error) {
	mgr, err := txnmgr.Open(dir, opts)
	if err != nil {
		return nil, err
	}
	log.WithComponent("graphdb").Info().Str("dir", dir).Msg("environment opened")
	return &Database{mgr: mgr}, nil
}

// Close releases the environment's resources and its advisory lock.
func (d *Database) Close() error {
	return d.mgr.Close()
}

// BeginTxn starts a new transaction in the given mode. A ReadWrite
// transaction blocks until the single writer slot is free, or until ctx is
// cancelled (§5's "cancellation of the wait, not the transaction").
func (d *Database) BeginTxn(ctx context.Context, mode Mode) (*Transaction, error) {
	switch mode {
	case ReadOnly:
		txn, err := d.mgr.BeginRead()
		if err != nil {
			return nil, err
		}
		return newTransaction(txn), nil
	case ReadWrite:
		txn, err := d.mgr.BeginWrite(ctx)
		if err != nil {
			return nil, err
		}
		return newTransaction(txn), nil
	default:
		return nil, gderrors.Usage(gderrors.CodeUnspecified, "unknown transaction mode %d", mode)
	}
}
