package dynamic

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/pkg/errors"

	"github.com/protoweave/protoweave/decode"
	"github.com/protoweave/protoweave/registry"
	"github.com/protoweave/protoweave/schema"
	"github.com/protoweave/protoweave/wire"
)

type encoder struct {
	registry *registry.Registry
}

// message encodes a field map. Entries are sorted by field number before
// emission so equal inputs always produce equal bytes.
func (e *encoder) message(fields map[string]any, msg *schema.Message) ([]byte, error) {
	type entry struct {
		field *schema.Field
		value any
	}
	entries := make([]entry, 0, len(fields))
	chosen := make(map[int32]string)
	for name, value := range fields {
		field := msg.Field(name)
		if field == nil {
			return nil, errors.Errorf("message %s has no field %q", msg.Name, name)
		}
		if field.OneofIndex >= 0 {
			if prev, set := chosen[field.OneofIndex]; set {
				return nil, errors.Errorf("oneof %s: fields %q and %q both set", msg.Oneofs[field.OneofIndex].Name, prev, name)
			}
			chosen[field.OneofIndex] = name
		}
		entries = append(entries, entry{field: field, value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].field.Number < entries[j].field.Number })

	enc := wire.NewEncoder()
	for _, ent := range entries {
		if err := e.encodeField(enc, ent.field, ent.value); err != nil {
			return nil, decode.WrapPath(ent.field.Name, err)
		}
	}
	return enc.Bytes(), nil
}

func (e *encoder) encodeField(enc *wire.Encoder, field *schema.Field, v any) error {
	if v == nil {
		return errors.New("nil value")
	}
	switch {
	case field.Type.Kind == schema.KindMap:
		return e.mapField(enc, field, v)
	case field.Repeated:
		return e.repeatedField(enc, field, v)
	default:
		enc.EncodeTag(wire.FieldNumber(field.Number), typeWire(field.Type))
		return e.value(enc, field.Type, v)
	}
}

// value encodes a single value without a tag. For packable kinds this is
// also the packed-element encoding.
func (e *encoder) value(enc *wire.Encoder, t *schema.Type, v any) error {
	switch t.Kind {
	case schema.KindScalar:
		return e.scalar(enc, t.Scalar, v)
	case schema.KindEnum:
		return e.enum(enc, t.Named, v)
	case schema.KindMessage:
		fields, ok := v.(map[string]any)
		if !ok {
			return errors.Errorf("message value must be map[string]any, got %T", v)
		}
		sub, err := e.registry.Message(t.Named)
		if err != nil {
			return err
		}
		b, err := e.message(fields, sub)
		if err != nil {
			return err
		}
		enc.EncodeBytes(b)
		return nil
	default:
		return errors.Errorf("unresolved type reference %q: schema not linked", t.Named)
	}
}

func (e *encoder) scalar(enc *wire.Encoder, s schema.Scalar, v any) error {
	switch s {
	case schema.ScalarInt32, schema.ScalarInt64:
		n, ok := asInt(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeVarint(uint64(n))
	case schema.ScalarUint32, schema.ScalarUint64:
		u, ok := asUint(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeVarint(u)
	case schema.ScalarSint32:
		n, ok := asInt(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeVarint(wire.EncodeZigZag32(int32(n)))
	case schema.ScalarSint64:
		n, ok := asInt(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeVarint(wire.EncodeZigZag64(n))
	case schema.ScalarBool:
		b, ok := v.(bool)
		if !ok {
			return typeError(s, v)
		}
		var u uint64
		if b {
			u = 1
		}
		enc.EncodeVarint(u)
	case schema.ScalarFixed32:
		u, ok := asUint(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeFixed32(uint32(u))
	case schema.ScalarSfixed32:
		n, ok := asInt(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeFixed32(uint32(int32(n)))
	case schema.ScalarFloat:
		f, ok := asFloat(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeFixed32(math.Float32bits(float32(f)))
	case schema.ScalarFixed64:
		u, ok := asUint(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeFixed64(u)
	case schema.ScalarSfixed64:
		n, ok := asInt(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeFixed64(uint64(n))
	case schema.ScalarDouble:
		f, ok := asFloat(v)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeFixed64(math.Float64bits(f))
	case schema.ScalarString:
		str, ok := v.(string)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeString(str)
	case schema.ScalarBytes:
		b, ok := v.([]byte)
		if !ok {
			return typeError(s, v)
		}
		enc.EncodeBytes(b)
	default:
		return errors.Errorf("unsupported scalar type %s", s)
	}
	return nil
}

// enum accepts a value name or a raw number; undeclared numbers encode
// as-is, mirroring the open enum semantics on decode.
func (e *encoder) enum(enc *wire.Encoder, name string, v any) error {
	enum, err := e.registry.Enum(name)
	if err != nil {
		return err
	}
	if valueName, ok := v.(string); ok {
		n, ok := enum.ValueNumber(valueName)
		if !ok {
			return errors.Errorf("enum %s has no value named %q", name, valueName)
		}
		enc.EncodeVarint(uint64(int64(n)))
		return nil
	}
	n, ok := asInt(v)
	if !ok {
		return errors.Errorf("cannot encode %T as enum %s", v, name)
	}
	enc.EncodeVarint(uint64(n))
	return nil
}

func (e *encoder) repeatedField(enc *wire.Encoder, field *schema.Field, v any) error {
	elems, err := asList(v)
	if err != nil {
		return err
	}
	num := wire.FieldNumber(field.Number)

	if packable(field.Type) {
		if len(elems) == 0 {
			return nil
		}
		packed := wire.NewEncoder()
		for i, el := range elems {
			if err := e.value(packed, field.Type, el); err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
		}
		enc.EncodeBytesField(num, packed.Bytes())
		return nil
	}

	for i, el := range elems {
		enc.EncodeTag(num, typeWire(field.Type))
		if err := e.value(enc, field.Type, el); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func (e *encoder) mapField(enc *wire.Encoder, field *schema.Field, v any) error {
	entry, err := e.registry.MapEntry(field)
	if err != nil {
		return err
	}
	keyType := entry.FieldByNumber(1).Type
	valueType := entry.FieldByNumber(2).Type

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return errors.Errorf("map field value must be a map, got %T", v)
	}
	type pair struct{ key, value any }
	pairs := make([]pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, pair{key: iter.Key().Interface(), value: iter.Value().Interface()})
	}
	sort.Slice(pairs, func(i, j int) bool { return lessKey(pairs[i].key, pairs[j].key) })

	for _, p := range pairs {
		entryEnc := wire.NewEncoder()
		entryEnc.EncodeTag(1, typeWire(keyType))
		if err := e.value(entryEnc, keyType, p.key); err != nil {
			return errors.Wrapf(err, "key %v", p.key)
		}
		entryEnc.EncodeTag(2, typeWire(valueType))
		if err := e.value(entryEnc, valueType, p.value); err != nil {
			return errors.Wrapf(err, "key %v", p.key)
		}
		enc.EncodeBytesField(wire.FieldNumber(field.Number), entryEnc.Bytes())
	}
	return nil
}

// lessKey orders map keys: numerically for integer keys, lexicographically
// for strings, false before true for bools. Key types are homogeneous per
// field, so mixed comparisons only arise from malformed input and still
// order totally via the string fallback.
func lessKey(a, b any) bool {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
	}
	if ai, ok := asInt(a); ok {
		if bi, ok := asInt(b); ok {
			return ai < bi
		}
	}
	if au, ok := asUint(a); ok {
		if bu, ok := asUint(b); ok {
			return au < bu
		}
	}
	return fmt.Sprintf("%v", a) < fmt.Sprintf("%v", b)
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

func asUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	case int:
		if n >= 0 {
			return uint64(n), true
		}
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// asList normalizes any slice type to []any. []byte is excluded; a bare
// byte slice for a repeated field is almost always a caller mistake.
func asList(v any) ([]any, error) {
	if elems, ok := v.([]any); ok {
		return elems, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, errors.Errorf("repeated field value must be a slice, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func typeError(s schema.Scalar, v any) error {
	return errors.Errorf("cannot encode %T as %s", v, s)
}
