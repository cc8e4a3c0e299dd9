package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cuemby/graphdb/pkg/types"
)

// typeTag is the on-disk byte identifying a property's type, per §4.2/§6.
// Values are part of the wire format and must never change once assigned.
type typeTag byte

const (
	tagTinyInt  typeTag = 1
	tagSmallInt typeTag = 2
	tagInt      typeTag = 3
	tagBigInt   typeTag = 4
	tagUTinyInt typeTag = 5
	tagUSmall   typeTag = 6
	tagUInt     typeTag = 7
	tagUBigInt  typeTag = 8
	tagReal     typeTag = 9
	tagText     typeTag = 10
	tagBlob     typeTag = 11
)

var typeToTag = map[types.PropertyType]typeTag{
	types.PropertyTinyInt:  tagTinyInt,
	types.PropertySmallInt: tagSmallInt,
	types.PropertyInt:      tagInt,
	types.PropertyBigInt:   tagBigInt,
	types.PropertyUTinyInt: tagUTinyInt,
	types.PropertyUSmall:   tagUSmall,
	types.PropertyUInt:     tagUInt,
	types.PropertyUBigInt:  tagUBigInt,
	types.PropertyReal:     tagReal,
	types.PropertyText:     tagText,
	types.PropertyBlob:     tagBlob,
}

var tagToType = func() map[typeTag]types.PropertyType {
	m := make(map[typeTag]types.PropertyType, len(typeToTag))
	for t, tag := range typeToTag {
		m[tag] = t
	}
	return m
}()

func fixedWidth(tag typeTag) int {
	switch tag {
	case tagTinyInt, tagUTinyInt:
		return 1
	case tagSmallInt, tagUSmall:
		return 2
	case tagInt, tagUInt:
		return 4
	case tagBigInt, tagUBigInt, tagReal:
		return 8
	default:
		return -1 // variable-length: text, blob
	}
}

// EncodeValue appends the little-endian fixed-width or raw-bytes encoding of
// v's payload (not its propertyId/tag/length header) to buf.
func EncodeValue(buf []byte, v types.Value) ([]byte, error) {
	switch v.Type {
	case types.PropertyTinyInt:
		return append(buf, byte(int8(v.Int))), nil
	case types.PropertyUTinyInt:
		return append(buf, byte(uint8(v.Int))), nil
	case types.PropertySmallInt, types.PropertyUSmall:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(v.Int))
		return append(buf, tmp[:]...), nil
	case types.PropertyInt, types.PropertyUInt:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v.Int))
		return append(buf, tmp[:]...), nil
	case types.PropertyBigInt, types.PropertyUBigInt:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], uint64(v.Int))
		return append(buf, tmp[:]...), nil
	case types.PropertyReal:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v.Real))
		return append(buf, tmp[:]...), nil
	case types.PropertyText:
		return append(buf, []byte(v.Text)...), nil
	case types.PropertyBlob:
		return append(buf, v.Blob...), nil
	default:
		return nil, fmt.Errorf("codec: unknown property type %q", v.Type)
	}
}

// decodeValue parses raw bytes of the given on-disk tag back into a Value.
func decodeValue(tag typeTag, raw []byte) (types.Value, error) {
	pt, ok := tagToType[tag]
	if !ok {
		return types.Value{}, fmt.Errorf("codec: unknown type tag %d", tag)
	}
	switch tag {
	case tagTinyInt:
		return types.IntValue(pt, int64(int8(raw[0]))), nil
	case tagUTinyInt:
		return types.IntValue(pt, int64(uint8(raw[0]))), nil
	case tagSmallInt:
		return types.IntValue(pt, int64(int16(binary.LittleEndian.Uint16(raw)))), nil
	case tagUSmall:
		return types.IntValue(pt, int64(binary.LittleEndian.Uint16(raw))), nil
	case tagInt:
		return types.IntValue(pt, int64(int32(binary.LittleEndian.Uint32(raw)))), nil
	case tagUInt:
		return types.IntValue(pt, int64(binary.LittleEndian.Uint32(raw))), nil
	case tagBigInt:
		return types.IntValue(pt, int64(binary.LittleEndian.Uint64(raw))), nil
	case tagUBigInt:
		return types.IntValue(pt, int64(binary.LittleEndian.Uint64(raw))), nil
	case tagReal:
		return types.RealValue(math.Float64frombits(binary.LittleEndian.Uint64(raw))), nil
	case tagText:
		return types.TextValue(string(raw)), nil
	case tagBlob:
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return types.BlobValue(cp), nil
	default:
		return types.Value{}, fmt.Errorf("codec: unhandled tag %d", tag)
	}
}

// EncodeRecord serializes fields as a sequence of
// (propertyId:varint, typeTag:u8, length:varint, bytes:length), in the
// order of the fields slice — the writer's insertion order, per §4.2.
// Resolving field names to PropertyIds is the caller's (record store's)
// responsibility, not the codec's.
func EncodeRecord(fields []FieldValue) ([]byte, error) {
	var buf []byte
	var varintBuf [binary.MaxVarintLen64]byte
	for _, f := range fields {
		n := binary.PutUvarint(varintBuf[:], uint64(f.PropertyID))
		buf = append(buf, varintBuf[:n]...)

		tag, ok := typeToTag[f.Value.Type]
		if !ok {
			return nil, fmt.Errorf("codec: unknown property type %q", f.Value.Type)
		}
		buf = append(buf, byte(tag))

		valBuf, err := EncodeValue(nil, f.Value)
		if err != nil {
			return nil, err
		}
		n = binary.PutUvarint(varintBuf[:], uint64(len(valBuf)))
		buf = append(buf, varintBuf[:n]...)
		buf = append(buf, valBuf...)
	}
	return buf, nil
}

// FieldValue pairs a resolved PropertyId with the Value to encode under it.
type FieldValue struct {
	PropertyID types.PropertyId
	Value      types.Value
}

// DecodedField is one field recovered by DecodeRecord, with its PropertyId
// preserved so the record store can resolve it back to a property name.
type DecodedField struct {
	PropertyID types.PropertyId
	Value      types.Value
}

// DecodeRecord streams through an encoded payload, decoding every field
// whose typeTag it recognizes. A field with an unknown typeTag is skipped
// by its declared length, not an error — this is what makes the format
// forward-compatible. PropertyIds are returned as stored, whether or not
// the reader's catalog knows them; the record store drops ids its Snapshot
// does not resolve. Trailing bytes that don't form a complete field are
// ignored.
func DecodeRecord(payload []byte) ([]DecodedField, error) {
	var out []DecodedField
	i := 0
	for i < len(payload) {
		propID, n := binary.Uvarint(payload[i:])
		if n <= 0 {
			break
		}
		i += n
		if i >= len(payload) {
			break
		}
		tag := typeTag(payload[i])
		i++
		if i >= len(payload) {
			break
		}
		length, n := binary.Uvarint(payload[i:])
		if n <= 0 {
			break
		}
		i += n
		if i+int(length) > len(payload) {
			break
		}
		raw := payload[i : i+int(length)]
		i += int(length)

		if _, known := tagToType[tag]; !known {
			continue // skip-by-length: forward compatible with unknown tags
		}
		width := fixedWidth(tag)
		if width >= 0 && len(raw) != width {
			return nil, fmt.Errorf("codec: field for property %d has wrong width %d, want %d", propID, len(raw), width)
		}
		v, err := decodeValue(tag, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, DecodedField{PropertyID: types.PropertyId(propID), Value: v})
	}
	return out, nil
}
