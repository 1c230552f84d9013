package decode

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/protoweave/protoweave/wire"
)

// ErrInvalidUTF8 reports a string field whose payload is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 in string field")

// PathError carries the dot-separated path to the field where decoding
// failed. Wrapping an already-pathed error prepends the outer element, so
// the innermost failure surfaces as "user.address.city: ...".
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// WrapPath prefixes err with a path element. An inner PathError is not
// nested; its path is extended instead, keeping one PathError per failure.
func WrapPath(elem string, err error) error {
	if pe, ok := err.(*PathError); ok {
		return &PathError{Path: elem + "." + pe.Path, Err: pe.Err}
	}
	return &PathError{Path: elem, Err: err}
}

func wrapNumber(num wire.FieldNumber, err error) error {
	return WrapPath(strconv.Itoa(int(num)), err)
}

// WireTypeError reports a field encoded with a wire type that does not
// match its declared type.
type WireTypeError struct {
	Want wire.WireType
	Got  wire.WireType
}

func (e *WireTypeError) Error() string {
	return fmt.Sprintf("wire type mismatch: want %v, got %v", e.Want, e.Got)
}

// FieldNotFoundError reports a required field with no occurrence in the
// message.
type FieldNotFoundError struct {
	Number wire.FieldNumber
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %d not present", e.Number)
}

// OneofNotSetError reports that none of a oneof's members occurred.
type OneofNotSetError struct {
	Numbers []wire.FieldNumber
}

func (e *OneofNotSetError) Error() string {
	return fmt.Sprintf("none of oneof fields %v present", e.Numbers)
}
