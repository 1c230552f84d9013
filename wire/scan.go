package wire

import (
	"errors"
	"fmt"
)

// ErrGroupEncountered reports a start-group or end-group tag in the input.
// Groups are a proto2 encoding and are not supported.
var ErrGroupEncountered = errors.New("group wire type not supported")

// RawField is a single field occurrence split off a message payload but not
// yet interpreted. Varint fields carry their value in Uvarint; fixed32,
// fixed64 and length-delimited fields carry their payload bytes in Raw,
// sharing the scanned buffer.
type RawField struct {
	Number  FieldNumber
	Type    WireType
	Uvarint uint64
	Raw     []byte
}

// DecodeRawField decodes one tag and its payload from the current position.
func (d *Decoder) DecodeRawField() (RawField, error) {
	num, wt, err := d.DecodeTag()
	if err != nil {
		return RawField{}, err
	}

	f := RawField{Number: num, Type: wt}
	switch wt {
	case WireVarint:
		f.Uvarint, err = d.DecodeVarint()
	case WireFixed64:
		f.Raw, err = d.take(8)
	case WireBytes:
		f.Raw, err = d.DecodeRawBytes()
	case WireFixed32:
		f.Raw, err = d.take(4)
	case WireStartGroup, WireEndGroup:
		err = ErrGroupEncountered
	}
	if err != nil {
		return RawField{}, fmt.Errorf("field %d: %w", num, err)
	}
	return f, nil
}

// ScanFields splits a message payload into its fields in encounter order.
// The input must be consumed exactly; truncated payloads, unterminated
// varints and group tags fail the scan. Raw payloads share buf.
func ScanFields(buf []byte) ([]RawField, error) {
	d := NewDecoder(buf)
	var fields []RawField
	for !d.EOF() {
		offset := d.Pos()
		f, err := d.DecodeRawField()
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", offset, err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// FieldMap groups scanned fields by field number. Within a number the
// occurrences keep their wire order; Numbers lists the numbers in first
// encounter order.
type FieldMap struct {
	order  []FieldNumber
	fields map[FieldNumber][]RawField
}

// GroupFields builds a FieldMap from fields in scan order.
func GroupFields(fields []RawField) *FieldMap {
	m := &FieldMap{fields: make(map[FieldNumber][]RawField, len(fields))}
	for _, f := range fields {
		if _, seen := m.fields[f.Number]; !seen {
			m.order = append(m.order, f.Number)
		}
		m.fields[f.Number] = append(m.fields[f.Number], f)
	}
	return m
}

// Get returns all occurrences of the given field number in wire order.
func (m *FieldMap) Get(num FieldNumber) []RawField {
	return m.fields[num]
}

// Has reports whether the field number occurred at least once.
func (m *FieldMap) Has(num FieldNumber) bool {
	_, ok := m.fields[num]
	return ok
}

// Numbers returns the field numbers in first encounter order.
func (m *FieldMap) Numbers() []FieldNumber {
	return m.order
}

// Len returns the number of distinct field numbers.
func (m *FieldMap) Len() int {
	return len(m.order)
}
