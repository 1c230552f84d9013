package dynamic

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/protoweave/protoweave/decode"
	"github.com/protoweave/protoweave/registry"
	"github.com/protoweave/protoweave/schema"
	"github.com/protoweave/protoweave/wire"
)

type decoder struct {
	registry *registry.Registry
	config   wire.Config
}

// message decodes one message payload. Repeated and map fields accumulate in
// collectors and merge into the result after the scan, so interleaved
// occurrences group correctly.
func (d *decoder) message(data []byte, msg *schema.Message) (map[string]any, error) {
	raws, err := wire.ScanFields(data)
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	lists := make(map[string][]any)
	maps := make(map[string]map[any]any)
	chosen := make(map[int32]string) // oneof index -> member currently set

	for _, raw := range raws {
		field := msg.FieldByNumber(int32(raw.Number))
		if field == nil {
			if d.config.RejectUnknownFields {
				return nil, errors.Errorf("unknown field %d in message %s", raw.Number, msg.Name)
			}
			// ScanFields already consumed the payload; skipping is free.
			continue
		}

		if err := d.decodeField(raw, field, out, lists, maps, chosen); err != nil {
			var mismatch *decode.WireTypeError
			if errors.As(err, &mismatch) && !d.config.StrictWireType {
				continue
			}
			return nil, decode.WrapPath(field.Name, err)
		}
	}

	for name, list := range lists {
		out[name] = list
	}
	for name, m := range maps {
		out[name] = m
	}
	return out, nil
}

func (d *decoder) decodeField(raw wire.RawField, field *schema.Field, out map[string]any, lists map[string][]any, maps map[string]map[any]any, chosen map[int32]string) error {
	switch {
	case field.Type.Kind == schema.KindMap:
		if raw.Type != wire.WireBytes {
			return &decode.WireTypeError{Want: wire.WireBytes, Got: raw.Type}
		}
		entry, err := d.registry.MapEntry(field)
		if err != nil {
			return err
		}
		key, value, err := d.mapEntry(raw.Raw, entry)
		if err != nil {
			return err
		}
		m := maps[field.Name]
		if m == nil {
			m = make(map[any]any)
			maps[field.Name] = m
		}
		m[key] = value
		return nil

	case field.Repeated:
		if raw.Type == wire.WireBytes && packable(field.Type) {
			elems, err := d.packed(raw.Raw, field.Type)
			if err != nil {
				return err
			}
			lists[field.Name] = append(lists[field.Name], elems...)
			return nil
		}
		v, err := d.fieldValue(raw, field.Type)
		if err != nil {
			return err
		}
		lists[field.Name] = append(lists[field.Name], v)
		return nil

	default:
		v, err := d.fieldValue(raw, field.Type)
		if err != nil {
			return err
		}
		d.store(field, v, out, chosen)
		return nil
	}
}

// store writes a singular value, honoring oneof exclusivity and the
// FirstWins toggle. A later oneof member clears the earlier one.
func (d *decoder) store(field *schema.Field, v any, out map[string]any, chosen map[int32]string) {
	if field.OneofIndex >= 0 {
		prev, set := chosen[field.OneofIndex]
		if set && d.config.FirstWins {
			return
		}
		if set && prev != field.Name {
			delete(out, prev)
		}
		chosen[field.OneofIndex] = field.Name
		out[field.Name] = v
		return
	}
	if _, set := out[field.Name]; set && d.config.FirstWins {
		return
	}
	out[field.Name] = v
}

// fieldValue decodes one occurrence of a singular or repeated-expanded
// value. The wire type must match the schema type exactly.
func (d *decoder) fieldValue(raw wire.RawField, t *schema.Type) (any, error) {
	if want := typeWire(t); raw.Type != want {
		return nil, &decode.WireTypeError{Want: want, Got: raw.Type}
	}

	switch t.Kind {
	case schema.KindScalar:
		return d.scalarValue(raw, t.Scalar)
	case schema.KindEnum:
		return d.enumValue(raw.Uvarint, t.Named)
	case schema.KindMessage:
		sub, err := d.registry.Message(t.Named)
		if err != nil {
			return nil, err
		}
		return d.message(raw.Raw, sub)
	default:
		return nil, errors.Errorf("unresolved type reference %q: schema not linked", t.Named)
	}
}

func (d *decoder) scalarValue(raw wire.RawField, s schema.Scalar) (any, error) {
	switch scalarWire(s) {
	case wire.WireVarint:
		return varintValue(raw.Uvarint, s), nil
	case wire.WireFixed32:
		return fixed32Value(binary.LittleEndian.Uint32(raw.Raw), s), nil
	case wire.WireFixed64:
		return fixed64Value(binary.LittleEndian.Uint64(raw.Raw), s), nil
	}
	if s == schema.ScalarString {
		if !utf8.Valid(raw.Raw) {
			return nil, decode.ErrInvalidUTF8
		}
		return string(raw.Raw), nil
	}
	// Copy bytes out so results never alias the input buffer.
	return append([]byte(nil), raw.Raw...), nil
}

// enumValue decodes an enum number to its declared name. Numbers without a
// declared name decode as int32, keeping unknown values round-trippable.
func (d *decoder) enumValue(u uint64, name string) (any, error) {
	enum, err := d.registry.Enum(name)
	if err != nil {
		return nil, err
	}
	n := int32(u)
	if valueName := enum.ValueName(n); valueName != "" {
		return valueName, nil
	}
	return n, nil
}

func varintValue(u uint64, s schema.Scalar) any {
	switch s {
	case schema.ScalarInt32:
		return int32(u)
	case schema.ScalarInt64:
		return int64(u)
	case schema.ScalarUint32:
		return uint32(u)
	case schema.ScalarSint32:
		return wire.DecodeZigZag32(u)
	case schema.ScalarSint64:
		return wire.DecodeZigZag64(u)
	case schema.ScalarBool:
		return u != 0
	default:
		return u
	}
}

func fixed32Value(bits uint32, s schema.Scalar) any {
	switch s {
	case schema.ScalarSfixed32:
		return int32(bits)
	case schema.ScalarFloat:
		return math.Float32frombits(bits)
	default:
		return bits
	}
}

func fixed64Value(bits uint64, s schema.Scalar) any {
	switch s {
	case schema.ScalarSfixed64:
		return int64(bits)
	case schema.ScalarDouble:
		return math.Float64frombits(bits)
	default:
		return bits
	}
}

// packed expands a packed repeated payload into its elements.
func (d *decoder) packed(data []byte, t *schema.Type) ([]any, error) {
	dec := wire.NewDecoder(data)
	var out []any
	for !dec.EOF() {
		var v any
		var err error
		switch typeWire(t) {
		case wire.WireVarint:
			var u uint64
			if u, err = dec.DecodeVarint(); err == nil {
				if t.Kind == schema.KindEnum {
					v, err = d.enumValue(u, t.Named)
				} else {
					v = varintValue(u, t.Scalar)
				}
			}
		case wire.WireFixed32:
			var bits uint32
			if bits, err = dec.DecodeFixed32(); err == nil {
				v = fixed32Value(bits, t.Scalar)
			}
		default:
			var bits uint64
			if bits, err = dec.DecodeFixed64(); err == nil {
				v = fixed64Value(bits, t.Scalar)
			}
		}
		if err != nil {
			return nil, errors.Wrapf(err, "packed element %d", len(out))
		}
		out = append(out, v)
	}
	return out, nil
}

// mapEntry decodes a map entry payload: key is field 1, value field 2.
// Writers may omit zero-valued key or value; both default per proto3.
func (d *decoder) mapEntry(data []byte, entry *schema.Message) (any, any, error) {
	kv, err := d.message(data, entry)
	if err != nil {
		return nil, nil, err
	}
	key, ok := kv["key"]
	if !ok {
		key = d.zeroValue(entry.FieldByNumber(1).Type)
	}
	value, ok := kv["value"]
	if !ok {
		value = d.zeroValue(entry.FieldByNumber(2).Type)
	}
	return key, value, nil
}

func (d *decoder) zeroValue(t *schema.Type) any {
	switch t.Kind {
	case schema.KindEnum:
		if enum, err := d.registry.Enum(t.Named); err == nil {
			if name := enum.ValueName(0); name != "" {
				return name
			}
		}
		return int32(0)
	case schema.KindMessage:
		return map[string]any{}
	}
	switch t.Scalar {
	case schema.ScalarString:
		return ""
	case schema.ScalarBytes:
		return []byte{}
	case schema.ScalarBool:
		return false
	case schema.ScalarInt32, schema.ScalarSint32, schema.ScalarSfixed32:
		return int32(0)
	case schema.ScalarInt64, schema.ScalarSint64, schema.ScalarSfixed64:
		return int64(0)
	case schema.ScalarUint32, schema.ScalarFixed32:
		return uint32(0)
	case schema.ScalarFloat:
		return float32(0)
	case schema.ScalarDouble:
		return float64(0)
	default:
		return uint64(0)
	}
}
