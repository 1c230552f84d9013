package wire

// Encoder handles low-level protobuf wire format encoding. The zero value
// is ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder creates a new wire format encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buf: make([]byte, 0),
	}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len returns the number of encoded bytes so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// EncodeTag encodes a field tag.
func (e *Encoder) EncodeTag(num FieldNumber, wt WireType) {
	e.EncodeVarint(uint64(MakeTag(num, wt)))
}
