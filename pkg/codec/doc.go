/*
Package codec implements the two independent binary encodings SPEC_FULL.md
§4.2 describes: the property payload format used by pkg/record, and the key
packing used by pkg/record, pkg/relation, and pkg/secindex.

# Payload format

	(propertyId:varint, typeTag:u8, length:varint, bytes:length) ...

EncodeRecord/DecodeRecord implement this directly. Decoding is streaming and
skips fields whose typeTag it does not recognize, by length, rather than
failing — this is what lets an older reader tolerate a payload written by a
newer schema version without crashing (§4.2 forward compatibility).

# Key packing

PositionKey and RecordIdKey give big-endian fixed-width keys so that
lexicographic byte order on the underlying B+-tree matches numeric order.
PackIndexValue extends the same idea to arbitrary property values: signed
integers have their sign bit flipped, floats have their sign-dependent bit
pattern flipped, so that byte-lexicographic order over the packed bytes
equals the value's natural numeric order. IndexKey then appends a RecordId
tiebreaker for non-unique indexes, per §4.6/§6.
*/
package codec
