package kv

import (
	"bytes"

	bolt "go.etcd.io/bbolt"
)

// Cursor wraps a bbolt cursor with the positioning operators pkg/record,
// pkg/relation, pkg/secindex and pkg/query need: First/Last/Next/Prev,
// exact Seek, and range Seek (first key >= target, for the "indexed" range
// predicates in §4.8).
type Cursor struct {
	c *bolt.Cursor
}

// KV is a single cursor position's key/value pair. Value is nil when the
// cursor has run off either end.
type KV struct {
	Key   []byte
	Value []byte
}

func pair(k, v []byte) KV {
	if k == nil {
		return KV{}
	}
	return KV{Key: k, Value: v}
}

func (c *Cursor) First() KV       { k, v := c.c.First(); return pair(k, v) }
func (c *Cursor) Last() KV        { k, v := c.c.Last(); return pair(k, v) }
func (c *Cursor) Next() KV        { k, v := c.c.Next(); return pair(k, v) }
func (c *Cursor) Prev() KV        { k, v := c.c.Prev(); return pair(k, v) }
func (c *Cursor) Seek(key []byte) KV { k, v := c.c.Seek(key); return pair(k, v) }

// SeekExact positions on key and returns (KV{}, false) if key is absent,
// distinguishing "positioned at the next key" (Seek) from "found".
func (c *Cursor) SeekExact(key []byte) (KV, bool) {
	k, v := c.c.Seek(key)
	if k == nil || !bytes.Equal(k, key) {
		return KV{}, false
	}
	return pair(k, v), true
}

// DupCursor iterates the composite-key duplicate-value group that shares a
// single logical prefix — the emulation §4.1/§4.6 describe in place of
// native MDB_DUPSORT. The prefix is typically a packed index value or a
// source vertex RecordId; the suffix distinguishes otherwise-identical
// entries (usually a RecordId, via pkg/codec.RecordIdKey).
type DupCursor struct {
	c      *bolt.Cursor
	prefix []byte
}

// NewDupCursor returns a DupCursor scoped to all keys beginning with prefix.
func (b *Bucket) NewDupCursor(prefix []byte) *DupCursor {
	return &DupCursor{c: b.b.Cursor(), prefix: prefix}
}

// First positions on the first key in the duplicate group, if any.
func (d *DupCursor) First() (KV, bool) {
	k, v := d.c.Seek(d.prefix)
	return d.checkPrefix(k, v)
}

// Next advances within the duplicate group.
func (d *DupCursor) Next() (KV, bool) {
	k, v := d.c.Next()
	return d.checkPrefix(k, v)
}

func (d *DupCursor) checkPrefix(k, v []byte) (KV, bool) {
	if k == nil || !bytes.HasPrefix(k, d.prefix) {
		return KV{}, false
	}
	return pair(k, v), true
}
