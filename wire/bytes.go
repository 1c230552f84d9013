package wire

import (
	"errors"
	"fmt"
)

// ErrTruncatedBytes reports a length-delimited field whose declared length
// exceeds the remaining input.
var ErrTruncatedBytes = errors.New("bytes truncated")

// DECODER METHODS

// DecodeBytes decodes a length-delimited byte array. The result is a copy
// and does not share the underlying buffer.
func (d *Decoder) DecodeBytes() ([]byte, error) {
	raw, err := d.DecodeRawBytes()
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(raw))
	copy(data, raw)
	return data, nil
}

// DecodeRawBytes decodes a length-delimited byte array without copying
// (shares the underlying buffer). The declared length is validated against
// the remaining input before any bytes are consumed.
func (d *Decoder) DecodeRawBytes() ([]byte, error) {
	length, err := d.DecodeVarint()
	if err != nil {
		return nil, fmt.Errorf("decode bytes length: %w", err)
	}
	if length > uint64(d.Remaining()) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncatedBytes, length, d.Remaining())
	}
	b := d.buf[d.pos : d.pos+int(length)]
	d.pos += int(length)
	return b, nil
}

// DecodeString decodes a length-delimited string
func (d *Decoder) DecodeString() (string, error) {
	raw, err := d.DecodeRawBytes()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ENCODER METHODS

// EncodeBytes encodes a byte array as length-delimited
func (e *Encoder) EncodeBytes(data []byte) {
	e.EncodeVarint(uint64(len(data)))
	e.buf = append(e.buf, data...)
}

// EncodeString encodes a string as length-delimited bytes
func (e *Encoder) EncodeString(s string) {
	e.EncodeVarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// UTILITY FUNCTIONS

// BytesSize returns the size needed to encode the given bytes
func BytesSize(data []byte) int {
	return VarintSize(uint64(len(data))) + len(data)
}

// StringSize returns the size needed to encode the given string
func StringSize(s string) int {
	return VarintSize(uint64(len(s))) + len(s)
}
