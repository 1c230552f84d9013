package wire

// Field-level encoding helpers: each emits a tag followed by the payload.
// Callers pick the varint transform (plain, zigzag, bool) before calling.

// EncodeVarintField encodes a varint field with its tag.
func (e *Encoder) EncodeVarintField(num FieldNumber, v uint64) {
	e.EncodeTag(num, WireVarint)
	e.EncodeVarint(v)
}

// EncodeFixed32Field encodes a fixed32 field with its tag.
func (e *Encoder) EncodeFixed32Field(num FieldNumber, v uint32) {
	e.EncodeTag(num, WireFixed32)
	e.EncodeFixed32(v)
}

// EncodeFixed64Field encodes a fixed64 field with its tag.
func (e *Encoder) EncodeFixed64Field(num FieldNumber, v uint64) {
	e.EncodeTag(num, WireFixed64)
	e.EncodeFixed64(v)
}

// EncodeBytesField encodes a length-delimited field with its tag.
func (e *Encoder) EncodeBytesField(num FieldNumber, data []byte) {
	e.EncodeTag(num, WireBytes)
	e.EncodeBytes(data)
}

// EncodeStringField encodes a string field with its tag.
func (e *Encoder) EncodeStringField(num FieldNumber, s string) {
	e.EncodeTag(num, WireBytes)
	e.EncodeString(s)
}
