package decode

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/protoweave/protoweave/wire"
)

// Leaf decodes a single field occurrence of one scalar type. The wire type
// is validated before the payload is interpreted. Exactly one of the from
// funcs is set, matching the leaf's wire type.
type Leaf[T any] struct {
	name        string
	wire        wire.WireType
	fromUvarint func(uint64) (T, error)
	fromBits32  func(uint32) (T, error)
	fromBits64  func(uint64) (T, error)
	fromRaw     func([]byte) (T, error)
}

// Name returns the scalar name the leaf decodes, for diagnostics.
func (l Leaf[T]) Name() string {
	return l.name
}

// WireType returns the wire type the leaf expects for unpacked occurrences.
func (l Leaf[T]) WireType() wire.WireType {
	return l.wire
}

// packable reports whether repeated occurrences may arrive packed.
func (l Leaf[T]) packable() bool {
	return l.wire != wire.WireBytes
}

// decodeField interprets one scanned occurrence.
func (l Leaf[T]) decodeField(f wire.RawField) (T, error) {
	var zero T
	if f.Type != l.wire {
		return zero, &WireTypeError{Want: l.wire, Got: f.Type}
	}
	switch l.wire {
	case wire.WireVarint:
		return l.fromUvarint(f.Uvarint)
	case wire.WireFixed32:
		return l.fromBits32(binary.LittleEndian.Uint32(f.Raw))
	case wire.WireFixed64:
		return l.fromBits64(binary.LittleEndian.Uint64(f.Raw))
	default:
		return l.fromRaw(f.Raw)
	}
}

// decodePacked reads one element of a packed payload.
func (l Leaf[T]) decodePacked(d *wire.Decoder) (T, error) {
	var zero T
	switch l.wire {
	case wire.WireVarint:
		v, err := d.DecodeVarint()
		if err != nil {
			return zero, err
		}
		return l.fromUvarint(v)
	case wire.WireFixed32:
		v, err := d.DecodeFixed32()
		if err != nil {
			return zero, err
		}
		return l.fromBits32(v)
	default:
		v, err := d.DecodeFixed64()
		if err != nil {
			return zero, err
		}
		return l.fromBits64(v)
	}
}

// Varint leaves follow proto3 semantics: values are carried as 64-bit on
// the wire, and 32-bit leaves truncate the way generated code does.
var (
	Int32 = Leaf[int32]{name: "int32", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (int32, error) { return int32(v), nil }}

	Int64 = Leaf[int64]{name: "int64", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (int64, error) { return int64(v), nil }}

	UInt32 = Leaf[uint32]{name: "uint32", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (uint32, error) { return uint32(v), nil }}

	UInt64 = Leaf[uint64]{name: "uint64", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (uint64, error) { return v, nil }}

	SInt32 = Leaf[int32]{name: "sint32", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (int32, error) { return wire.DecodeZigZag32(v), nil }}

	SInt64 = Leaf[int64]{name: "sint64", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (int64, error) { return wire.DecodeZigZag64(v), nil }}

	Bool = Leaf[bool]{name: "bool", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (bool, error) { return v != 0, nil }}

	Enum = Leaf[int32]{name: "enum", wire: wire.WireVarint,
		fromUvarint: func(v uint64) (int32, error) { return int32(v), nil }}
)

// Fixed-width leaves.
var (
	Fixed32 = Leaf[uint32]{name: "fixed32", wire: wire.WireFixed32,
		fromBits32: func(v uint32) (uint32, error) { return v, nil }}

	SFixed32 = Leaf[int32]{name: "sfixed32", wire: wire.WireFixed32,
		fromBits32: func(v uint32) (int32, error) { return int32(v), nil }}

	Float = Leaf[float32]{name: "float", wire: wire.WireFixed32,
		fromBits32: func(v uint32) (float32, error) { return math.Float32frombits(v), nil }}

	Fixed64 = Leaf[uint64]{name: "fixed64", wire: wire.WireFixed64,
		fromBits64: func(v uint64) (uint64, error) { return v, nil }}

	SFixed64 = Leaf[int64]{name: "sfixed64", wire: wire.WireFixed64,
		fromBits64: func(v uint64) (int64, error) { return int64(v), nil }}

	Double = Leaf[float64]{name: "double", wire: wire.WireFixed64,
		fromBits64: func(v uint64) (float64, error) { return math.Float64frombits(v), nil }}
)

// Length-delimited leaves. Bytes copies the payload so results never alias
// the scanned buffer; String validates UTF-8.
var (
	String = Leaf[string]{name: "string", wire: wire.WireBytes,
		fromRaw: func(b []byte) (string, error) {
			if !utf8.Valid(b) {
				return "", ErrInvalidUTF8
			}
			return string(b), nil
		}}

	Bytes = Leaf[[]byte]{name: "bytes", wire: wire.WireBytes,
		fromRaw: func(b []byte) ([]byte, error) {
			out := make([]byte, len(b))
			copy(out, b)
			return out, nil
		}}
)
