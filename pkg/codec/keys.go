package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cuemby/graphdb/pkg/types"
)

// PositionKey packs a PositionId as a big-endian u64 so that lexicographic
// byte order on the record store's sub-database matches numeric order,
// giving in-order scanClass iteration for free from the KV cursor.
func PositionKey(pos types.PositionId) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(pos))
	return buf[:]
}

// ParsePositionKey is the inverse of PositionKey.
func ParsePositionKey(key []byte) (types.PositionId, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("codec: position key has length %d, want 8", len(key))
	}
	return types.PositionId(binary.BigEndian.Uint64(key)), nil
}

// RecordIdKey packs a RecordId as ClassId (2 bytes BE) ∥ PositionId (8 bytes
// BE), used as the endpoints sub-database key and as the tiebreaker suffix
// on non-unique secondary index keys (§4.6, §6).
func RecordIdKey(rid types.RecordId) []byte {
	var buf [10]byte
	binary.BigEndian.PutUint16(buf[0:2], uint16(rid.ClassId))
	binary.BigEndian.PutUint64(buf[2:10], uint64(rid.Position))
	return buf[:]
}

// ParseRecordIdKey is the inverse of RecordIdKey.
func ParseRecordIdKey(key []byte) (types.RecordId, error) {
	if len(key) != 10 {
		return types.RecordId{}, fmt.Errorf("codec: record id key has length %d, want 10", len(key))
	}
	return types.RecordId{
		ClassId:  types.ClassId(binary.BigEndian.Uint16(key[0:2])),
		Position: types.PositionId(binary.BigEndian.Uint64(key[2:10])),
	}, nil
}

// PackIndexValue packs a property Value into its index-key byte
// representation. Numeric types use a big-endian, sign/IEEE-754
// order-preserving encoding so lexicographic byte order matches numeric
// order; text is raw UTF-8 bytes (already lexicographically comparable in
// the way the spec's range predicates expect). Blob is rejected — it is not
// indexable per §4.6.
func PackIndexValue(v types.Value) ([]byte, error) {
	switch v.Type {
	case types.PropertyTinyInt, types.PropertySmallInt, types.PropertyInt, types.PropertyBigInt:
		return packSignedBE(v.Int, widthFor(v.Type)), nil
	case types.PropertyUTinyInt, types.PropertyUSmall, types.PropertyUInt, types.PropertyUBigInt:
		return packUnsignedBE(uint64(v.Int), widthFor(v.Type)), nil
	case types.PropertyReal:
		return packFloatBE(v.Real), nil
	case types.PropertyText:
		return []byte(v.Text), nil
	case types.PropertyBlob:
		return nil, fmt.Errorf("codec: blob properties are not indexable")
	default:
		return nil, fmt.Errorf("codec: unknown property type %q", v.Type)
	}
}

func widthFor(t types.PropertyType) int {
	switch t {
	case types.PropertyTinyInt, types.PropertyUTinyInt:
		return 1
	case types.PropertySmallInt, types.PropertyUSmall:
		return 2
	case types.PropertyInt, types.PropertyUInt:
		return 4
	default:
		return 8
	}
}

// packSignedBE encodes a signed integer as order-preserving big-endian bytes
// by flipping the sign bit, so that byte-lexicographic order equals signed
// numeric order (the standard trick for sortable signed keys).
func packSignedBE(v int64, width int) []byte {
	u := uint64(v)
	u ^= uint64(1) << (uint(width)*8 - 1) // flip the sign bit of the width-byte value
	buf := make([]byte, width)
	full := make([]byte, 8)
	binary.BigEndian.PutUint64(full, u)
	copy(buf, full[8-width:])
	return buf
}

func packUnsignedBE(v uint64, width int) []byte {
	full := make([]byte, 8)
	binary.BigEndian.PutUint64(full, v)
	buf := make([]byte, width)
	copy(buf, full[8-width:])
	return buf
}

// packFloatBE encodes a float64 as order-preserving big-endian bytes: for
// non-negative floats, flipping the sign bit suffices; for negative floats,
// every bit must also be flipped so that more-negative sorts before
// less-negative.
func packFloatBE(f float64) []byte {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		bits = ^bits
	} else {
		bits |= 1 << 63
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, bits)
	return buf
}

// IndexKey builds the physical key for a secondary index entry. For unique
// indexes the key is just the packed value; for non-unique indexes the
// owning RecordId is appended as a tiebreaker (§4.6, §6) so duplicate values
// occupy distinct physical keys while remaining prefix-range-scannable.
func IndexKey(value []byte, rid types.RecordId, unique bool) []byte {
	if unique {
		out := make([]byte, len(value))
		copy(out, value)
		return out
	}
	out := make([]byte, 0, len(value)+10)
	out = append(out, value...)
	out = append(out, RecordIdKey(rid)...)
	return out
}

// SplitNonUniqueIndexKey separates a non-unique index physical key back into
// its value prefix and RecordId suffix.
func SplitNonUniqueIndexKey(key []byte) ([]byte, types.RecordId, error) {
	if len(key) < 10 {
		return nil, types.RecordId{}, fmt.Errorf("codec: non-unique index key too short: %d bytes", len(key))
	}
	valLen := len(key) - 10
	rid, err := ParseRecordIdKey(key[valLen:])
	if err != nil {
		return nil, types.RecordId{}, err
	}
	return key[:valLen], rid, nil
}
