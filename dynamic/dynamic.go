// Package dynamic encodes and decodes protobuf messages through their
// registered schemas, with no generated code. A decoded message is a
// map[string]any keyed by field name: scalars keep their schema-declared Go
// type, enums decode to their value name, nested messages to nested maps,
// repeated fields to []any and map fields to map[any]any.
//
// Schemas must be linked before use; a named reference that still carries
// KindNamed fails both directions.
package dynamic

import (
	"github.com/protoweave/protoweave/registry"
	"github.com/protoweave/protoweave/schema"
	"github.com/protoweave/protoweave/wire"
)

// Unmarshal decodes data as the named message type. The name is resolved
// through the registry with its usual suffix fallback, so both
// "users.v1.User" and a unique "User" work. cfg controls unknown-field,
// wire-type-mismatch and duplicate-occurrence handling; the zero Config is
// canonical proto3 behavior.
func Unmarshal(data []byte, name string, reg *registry.Registry, cfg wire.Config) (map[string]any, error) {
	msg, err := reg.Message(name)
	if err != nil {
		return nil, err
	}
	d := &decoder{registry: reg, config: cfg}
	return d.message(data, msg)
}

// Marshal encodes fields as the named message type. Output is deterministic:
// fields are emitted in ascending field-number order and map entries in
// sorted key order. Values accept the types Unmarshal produces plus the
// untyped forms handy in literals (int for any integer field, float64 for
// float, []T slices and map[K]V maps for repeated and map fields).
func Marshal(fields map[string]any, name string, reg *registry.Registry) ([]byte, error) {
	msg, err := reg.Message(name)
	if err != nil {
		return nil, err
	}
	e := &encoder{registry: reg}
	return e.message(fields, msg)
}

// scalarWire maps a scalar type to the wire type that carries it.
func scalarWire(s schema.Scalar) wire.WireType {
	switch s {
	case schema.ScalarString, schema.ScalarBytes:
		return wire.WireBytes
	case schema.ScalarFloat, schema.ScalarFixed32, schema.ScalarSfixed32:
		return wire.WireFixed32
	case schema.ScalarDouble, schema.ScalarFixed64, schema.ScalarSfixed64:
		return wire.WireFixed64
	default:
		return wire.WireVarint
	}
}

// typeWire maps a field type to the wire type that carries it. Enums ride
// varints; messages and map entries are length-delimited.
func typeWire(t *schema.Type) wire.WireType {
	switch t.Kind {
	case schema.KindScalar:
		return scalarWire(t.Scalar)
	case schema.KindMessage, schema.KindMap:
		return wire.WireBytes
	default:
		return wire.WireVarint
	}
}

// packable reports whether a repeated field of this type uses packed
// encoding. Everything but strings, bytes and messages packs.
func packable(t *schema.Type) bool {
	switch t.Kind {
	case schema.KindScalar:
		return t.Scalar.Packable()
	case schema.KindEnum:
		return true
	default:
		return false
	}
}
