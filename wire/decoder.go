package wire

import (
	"errors"
	"fmt"
)

// ErrShortBuffer reports a read past the end of the input.
var ErrShortBuffer = errors.New("short buffer")

// Decoder is a cursor over a single wire-format buffer. It never copies the
// input; DecodeRawBytes and scanned fields share the underlying array.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder creates a decoder positioned at the start of buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Pos returns the current offset into the buffer.
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// EOF reports whether the buffer is fully consumed.
func (d *Decoder) EOF() bool {
	return d.pos >= len(d.buf)
}

// take consumes n bytes and returns them as a shared slice.
func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, n, d.Remaining())
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// DecodeTag decodes a field tag from the current position.
func (d *Decoder) DecodeTag() (FieldNumber, WireType, error) {
	v, err := d.DecodeVarint()
	if err != nil {
		return 0, 0, fmt.Errorf("decode tag: %w", err)
	}
	return ParseTag(Tag(v))
}
