package wire

import (
	"errors"
	"fmt"
)

// WireType represents protobuf wire format types
type WireType int32

const (
	WireVarint     WireType = 0 // int32, int64, uint32, uint64, sint32, sint64, bool, enum
	WireFixed64    WireType = 1 // fixed64, sfixed64, double
	WireBytes      WireType = 2 // string, bytes, embedded messages, packed repeated fields
	WireStartGroup WireType = 3 // proto2 groups, rejected on decode
	WireEndGroup   WireType = 4 // proto2 groups, rejected on decode
	WireFixed32    WireType = 5 // fixed32, sfixed32, float
)

// String returns the wire type name used in error messages.
func (wt WireType) String() string {
	switch wt {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "bytes"
	case WireStartGroup:
		return "start-group"
	case WireEndGroup:
		return "end-group"
	case WireFixed32:
		return "fixed32"
	default:
		return fmt.Sprintf("wire-type(%d)", int32(wt))
	}
}

// valid reports whether the wire type is one of the six defined values.
func (wt WireType) valid() bool {
	return wt >= WireVarint && wt <= WireFixed32
}

// FieldNumber represents a protobuf field number
type FieldNumber int32

// MaxFieldNumber is the largest field number the tag encoding can carry.
const MaxFieldNumber FieldNumber = 1<<29 - 1

// Tag represents a protobuf field tag (field number + wire type)
type Tag uint64

// Tag parsing errors
var (
	ErrInvalidFieldNumber = errors.New("invalid field number")
	ErrInvalidWireType    = errors.New("invalid wire type")
)

// MakeTag creates a tag from field number and wire type
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag parses a tag into field number and wire type. Field numbers must
// be in [1, MaxFieldNumber] and the wire type must be defined.
func ParseTag(tag Tag) (FieldNumber, WireType, error) {
	num := FieldNumber(tag >> 3)
	wt := WireType(tag & 0x7)
	if num < 1 || num > MaxFieldNumber {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidFieldNumber, num)
	}
	if !wt.valid() {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidWireType, int32(wt))
	}
	return num, wt, nil
}
