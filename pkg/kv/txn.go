package kv

import (
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/graphdb/pkg/gderrors"
)

// Txn wraps a single bbolt transaction with a manual commit/rollback
// lifecycle. Once it has been committed or rolled back, a further Commit
// fails with CodeTxnClosed and a further Rollback is a no-op; Cursor itself
// does not check whether its Txn is still alive.
type Txn struct {
	tx       *bolt.Tx
	writable bool
	done     bool
}

// Writable reports whether this transaction may mutate sub-databases.
func (t *Txn) Writable() bool { return t.writable }

// Commit persists the transaction's writes. Calling Commit on a read-only
// Txn is a no-op beyond releasing it, matching bbolt's own semantics.
func (t *Txn) Commit() error {
	if t.done {
		return gderrors.Usage(gderrors.CodeTxnClosed, "transaction already committed or rolled back")
	}
	t.done = true
	if !t.writable {
		return translateError(t.tx.Rollback())
	}
	if err := t.tx.Commit(); err != nil {
		return translateError(err)
	}
	return nil
}

// Rollback discards the transaction's writes, or simply releases a
// read-only transaction's snapshot.
func (t *Txn) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	if err := t.tx.Rollback(); err != nil {
		return translateError(err)
	}
	return nil
}

// Bucket opens an existing named sub-database for reading or writing.
func (t *Txn) Bucket(name string) (*Bucket, error) {
	b := t.tx.Bucket([]byte(name))
	if b == nil {
		return nil, gderrors.New(gderrors.CodeStorageNotFound, gderrors.CategoryStorage, "sub-database \""+name+"\" does not exist", nil)
	}
	return &Bucket{b: b, txn: t}, nil
}

// CreateBucketIfNotExists opens a named sub-database, creating it if this is
// the first write transaction to touch it. Requires a writable Txn.
func (t *Txn) CreateBucketIfNotExists(name string) (*Bucket, error) {
	if !t.writable {
		return nil, gderrors.Usage(gderrors.CodeUnspecified, "cannot create sub-database %q in a read-only transaction", name)
	}
	b, err := t.tx.CreateBucketIfNotExists([]byte(name))
	if err != nil {
		return nil, translateError(err)
	}
	return &Bucket{b: b, txn: t}, nil
}

// DeleteBucket removes a named sub-database and everything in it.
func (t *Txn) DeleteBucket(name string) error {
	if !t.writable {
		return gderrors.Usage(gderrors.CodeUnspecified, "cannot delete sub-database %q in a read-only transaction", name)
	}
	if err := t.tx.DeleteBucket([]byte(name)); err != nil {
		return translateError(err)
	}
	return nil
}

// Bucket is a handle to one named sub-database within a Txn.
type Bucket struct {
	b   *bolt.Bucket
	txn *Txn
}

// Get returns the value stored under key, or nil if absent. The returned
// slice is only valid until the owning Txn commits or rolls back; callers
// that need to retain it must copy.
func (b *Bucket) Get(key []byte) []byte {
	return b.b.Get(key)
}

// Put stores value under key, overwriting any existing entry.
func (b *Bucket) Put(key, value []byte) error {
	if err := b.b.Put(key, value); err != nil {
		return translateError(err)
	}
	return nil
}

// Delete removes key, if present. Deleting an absent key is a no-op.
func (b *Bucket) Delete(key []byte) error {
	if err := b.b.Delete(key); err != nil {
		return translateError(err)
	}
	return nil
}

// NestedBucket opens a bucket nested inside this one, creating it if it
// does not exist and the transaction is writable. Used by the relation
// index to keep each vertex's out/in incidence list as its own nested
// sub-database (§4.5).
func (b *Bucket) NestedBucket(name string, create bool) (*Bucket, error) {
	if create {
		if !b.txn.writable {
			return nil, gderrors.Usage(gderrors.CodeUnspecified, "cannot create nested bucket %q in a read-only transaction", name)
		}
		nb, err := b.b.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return nil, translateError(err)
		}
		return &Bucket{b: nb, txn: b.txn}, nil
	}
	nb := b.b.Bucket([]byte(name))
	if nb == nil {
		return nil, gderrors.New(gderrors.CodeStorageNotFound, gderrors.CategoryStorage, "nested bucket \""+name+"\" does not exist", nil)
	}
	return &Bucket{b: nb, txn: b.txn}, nil
}

// DeleteNestedBucket removes a nested bucket entirely.
func (b *Bucket) DeleteNestedBucket(name string) error {
	if err := b.b.DeleteBucket([]byte(name)); err != nil {
		return translateError(err)
	}
	return nil
}

// NextSequence returns a monotonically increasing integer for this bucket,
// used by pkg/record to allocate PositionIds without a separate counters
// sub-database entry per class.
func (b *Bucket) NextSequence() (uint64, error) {
	seq, err := b.b.NextSequence()
	if err != nil {
		return 0, translateError(err)
	}
	return seq, nil
}

// Cursor returns a new Cursor positioned before the first key.
func (b *Bucket) Cursor() *Cursor {
	return &Cursor{c: b.b.Cursor()}
}
