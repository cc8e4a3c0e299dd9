package codec

import (
	"testing"

	"github.com/cuemby/graphdb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		fields []FieldValue
	}{
		{
			name:   "empty record",
			fields: nil,
		},
		{
			name: "mixed scalar types",
			fields: []FieldValue{
				{PropertyID: 1, Value: types.IntValue(types.PropertyTinyInt, -12)},
				{PropertyID: 2, Value: types.IntValue(types.PropertyInt, 123456)},
				{PropertyID: 3, Value: types.RealValue(3.14159)},
				{PropertyID: 4, Value: types.TextValue("hello graph")},
				{PropertyID: 5, Value: types.BlobValue([]byte{0xde, 0xad, 0xbe, 0xef})},
			},
		},
		{
			name: "unsigned and bigint",
			fields: []FieldValue{
				{PropertyID: 10, Value: types.IntValue(types.PropertyUBigInt, int64(uint64(1) << 40))},
				{PropertyID: 11, Value: types.IntValue(types.PropertyBigInt, -987654321)},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := EncodeRecord(tc.fields)
			require.NoError(t, err)

			decoded, err := DecodeRecord(encoded)
			require.NoError(t, err)
			require.Len(t, decoded, len(tc.fields))

			for i, f := range tc.fields {
				assert.Equal(t, f.PropertyID, decoded[i].PropertyID)
				assert.Equal(t, f.Value, decoded[i].Value)
			}

			// Re-encoding the decoded fields must reproduce identical bytes.
			reencoded, err := EncodeRecord(toFieldValues(decoded))
			require.NoError(t, err)
			assert.Equal(t, encoded, reencoded)
		})
	}
}

func toFieldValues(decoded []DecodedField) []FieldValue {
	out := make([]FieldValue, len(decoded))
	for i, d := range decoded {
		out[i] = FieldValue{PropertyID: d.PropertyID, Value: d.Value}
	}
	return out
}

func TestDecodeRecordSkipsUnknownTag(t *testing.T) {
	known, err := EncodeRecord([]FieldValue{
		{PropertyID: 1, Value: types.IntValue(types.PropertyInt, 7)},
	})
	require.NoError(t, err)

	// Hand-craft a payload with one unknown-tag field (tag 200) followed by
	// the known field, to prove decoding skips the unknown one by its
	// declared length instead of aborting.
	unknown := []byte{
		0x63,       // propertyId varint = 99
		200,        // unrecognized typeTag
		0x03,       // length = 3
		'x', 'y', 'z',
	}
	payload := append(unknown, known...)

	decoded, err := DecodeRecord(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, types.PropertyId(1), decoded[0].PropertyID)
	assert.Equal(t, types.IntValue(types.PropertyInt, 7), decoded[0].Value)
}
