// Package decode provides a composable, typed view over scanned wire-format
// messages. A Decoder[T] reads whole fields out of a wire.FieldMap; leaves
// interpret single occurrences after validating their wire type. Decoders
// combine into message shapes without generated code.
package decode

import (
	"github.com/hashicorp/go-multierror"

	"github.com/protoweave/protoweave/wire"
)

// Decoder decodes a value of type T from a scanned message.
type Decoder[T any] func(m *wire.FieldMap) (T, error)

// Run scans data and applies d to the resulting field map.
func Run[T any](data []byte, d Decoder[T]) (T, error) {
	var zero T
	fields, err := wire.ScanFields(data)
	if err != nil {
		return zero, err
	}
	return d(wire.GroupFields(fields))
}

// Succeed always yields v.
func Succeed[T any](v T) Decoder[T] {
	return func(*wire.FieldMap) (T, error) {
		return v, nil
	}
}

// Fail always yields err.
func Fail[T any](err error) Decoder[T] {
	return func(*wire.FieldMap) (T, error) {
		var zero T
		return zero, err
	}
}

// Field decodes a required singular field. When the field occurs more than
// once the last occurrence wins, matching proto3 merge semantics. A missing
// field yields FieldNotFoundError.
func Field[T any](num wire.FieldNumber, leaf Leaf[T]) Decoder[T] {
	return func(m *wire.FieldMap) (T, error) {
		var zero T
		occ := m.Get(num)
		if len(occ) == 0 {
			return zero, &FieldNotFoundError{Number: num}
		}
		v, err := leaf.decodeField(occ[len(occ)-1])
		if err != nil {
			return zero, wrapNumber(num, err)
		}
		return v, nil
	}
}

// Optional decodes a singular field that may be absent. Absence yields nil
// without error.
func Optional[T any](num wire.FieldNumber, leaf Leaf[T]) Decoder[*T] {
	return func(m *wire.FieldMap) (*T, error) {
		occ := m.Get(num)
		if len(occ) == 0 {
			return nil, nil
		}
		v, err := leaf.decodeField(occ[len(occ)-1])
		if err != nil {
			return nil, wrapNumber(num, err)
		}
		return &v, nil
	}
}

// WithDefault decodes a singular field, yielding def when absent.
func WithDefault[T any](num wire.FieldNumber, leaf Leaf[T], def T) Decoder[T] {
	return func(m *wire.FieldMap) (T, error) {
		var zero T
		occ := m.Get(num)
		if len(occ) == 0 {
			return def, nil
		}
		v, err := leaf.decodeField(occ[len(occ)-1])
		if err != nil {
			return zero, wrapNumber(num, err)
		}
		return v, nil
	}
}

// Repeated decodes every occurrence of a field in wire order, expanding
// packed payloads for packable leaves. Unlike the singular combinators it
// does not stop at the first failure: every broken element contributes to
// the returned multierror, alongside the elements that did decode.
func Repeated[T any](num wire.FieldNumber, leaf Leaf[T]) Decoder[[]T] {
	return func(m *wire.FieldMap) ([]T, error) {
		var out []T
		var errs *multierror.Error
		for _, f := range m.Get(num) {
			if leaf.packable() && f.Type == wire.WireBytes {
				d := wire.NewDecoder(f.Raw)
				for !d.EOF() {
					v, err := leaf.decodePacked(d)
					if err != nil {
						// A packed payload is unrecoverable mid-element.
						errs = multierror.Append(errs, wrapNumber(num, err))
						break
					}
					out = append(out, v)
				}
				continue
			}
			v, err := leaf.decodeField(f)
			if err != nil {
				errs = multierror.Append(errs, wrapNumber(num, err))
				continue
			}
			out = append(out, v)
		}
		return out, errs.ErrorOrNil()
	}
}

// Nested decodes a required embedded message field by rescanning its
// payload and applying d. Errors from d are prefixed with the field number.
func Nested[T any](num wire.FieldNumber, d Decoder[T]) Decoder[T] {
	return func(m *wire.FieldMap) (T, error) {
		var zero T
		occ := m.Get(num)
		if len(occ) == 0 {
			return zero, &FieldNotFoundError{Number: num}
		}
		v, err := decodeNested(occ[len(occ)-1], d)
		if err != nil {
			return zero, wrapNumber(num, err)
		}
		return v, nil
	}
}

// OptionalNested decodes an embedded message field that may be absent.
func OptionalNested[T any](num wire.FieldNumber, d Decoder[T]) Decoder[*T] {
	return func(m *wire.FieldMap) (*T, error) {
		occ := m.Get(num)
		if len(occ) == 0 {
			return nil, nil
		}
		v, err := decodeNested(occ[len(occ)-1], d)
		if err != nil {
			return nil, wrapNumber(num, err)
		}
		return &v, nil
	}
}

func decodeNested[T any](f wire.RawField, d Decoder[T]) (T, error) {
	var zero T
	if f.Type != wire.WireBytes {
		return zero, &WireTypeError{Want: wire.WireBytes, Got: f.Type}
	}
	fields, err := wire.ScanFields(f.Raw)
	if err != nil {
		return zero, err
	}
	return d(wire.GroupFields(fields))
}

// Arm is one alternative of a oneof decoder.
type Arm[T any] struct {
	Number  wire.FieldNumber
	Decoder Decoder[T]
}

// Case builds a oneof arm for the given field number.
func Case[T any](num wire.FieldNumber, d Decoder[T]) Arm[T] {
	return Arm[T]{Number: num, Decoder: d}
}

// OneOf probes arms in declaration order and decodes with the first arm
// whose field number is present. No arm present yields OneofNotSetError.
func OneOf[T any](arms ...Arm[T]) Decoder[T] {
	return func(m *wire.FieldMap) (T, error) {
		for _, arm := range arms {
			if m.Has(arm.Number) {
				return arm.Decoder(m)
			}
		}
		var zero T
		nums := make([]wire.FieldNumber, len(arms))
		for i, arm := range arms {
			nums[i] = arm.Number
		}
		return zero, &OneofNotSetError{Numbers: nums}
	}
}

// Then feeds d's result through f, short-circuiting on d's error. This is
// the sequential counterpart to Repeated's accumulate-everything: a failed
// d never reaches f.
func Then[A, B any](d Decoder[A], f func(A) (B, error)) Decoder[B] {
	return func(m *wire.FieldMap) (B, error) {
		var zero B
		a, err := d(m)
		if err != nil {
			return zero, err
		}
		return f(a)
	}
}

// Map2 combines two decoders with f. Both decoders run regardless of each
// other's outcome and their errors are joined.
func Map2[A, B, R any](da Decoder[A], db Decoder[B], f func(A, B) R) Decoder[R] {
	return func(m *wire.FieldMap) (R, error) {
		var zero R
		a, aerr := da(m)
		b, berr := db(m)
		if err := multierror.Append(nil, aerr, berr).ErrorOrNil(); err != nil {
			return zero, err
		}
		return f(a, b), nil
	}
}

// Map3 combines three decoders with f, joining all errors.
func Map3[A, B, C, R any](da Decoder[A], db Decoder[B], dc Decoder[C], f func(A, B, C) R) Decoder[R] {
	return func(m *wire.FieldMap) (R, error) {
		var zero R
		a, aerr := da(m)
		b, berr := db(m)
		c, cerr := dc(m)
		if err := multierror.Append(nil, aerr, berr, cerr).ErrorOrNil(); err != nil {
			return zero, err
		}
		return f(a, b, c), nil
	}
}
