package wire

import (
	"encoding/binary"
	"fmt"
)

// DECODER METHODS

// DecodeFixed32 decodes a 32-bit little-endian fixed-width value
func (d *Decoder) DecodeFixed32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, fmt.Errorf("fixed32: %w", err)
	}
	return binary.LittleEndian.Uint32(b), nil
}

// DecodeFixed64 decodes a 64-bit little-endian fixed-width value
func (d *Decoder) DecodeFixed64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, fmt.Errorf("fixed64: %w", err)
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ENCODER METHODS

// EncodeFixed32 encodes a 32-bit fixed-width value
func (e *Encoder) EncodeFixed32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

// EncodeFixed64 encodes a 64-bit fixed-width value
func (e *Encoder) EncodeFixed64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}
