package wire

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestMakeParseTag(t *testing.T) {
	tests := []struct {
		num FieldNumber
		wt  WireType
	}{
		{num: 1, wt: WireVarint},
		{num: 2, wt: WireBytes},
		{num: 16, wt: WireFixed64},
		{num: 2047, wt: WireFixed32},
		{num: MaxFieldNumber, wt: WireVarint},
	}

	for _, tt := range tests {
		tag := MakeTag(tt.num, tt.wt)
		num, wt, err := ParseTag(tag)
		if err != nil {
			t.Fatalf("ParseTag(MakeTag(%d, %v)) error: %v", tt.num, tt.wt, err)
		}
		if num != tt.num || wt != tt.wt {
			t.Errorf("ParseTag(MakeTag(%d, %v)) = (%d, %v)", tt.num, tt.wt, num, wt)
		}

		want := protowire.AppendTag(nil, protowire.Number(tt.num), protowire.Type(tt.wt))
		e := NewEncoder()
		e.EncodeTag(tt.num, tt.wt)
		if diff := cmp.Diff(want, e.Bytes()); diff != "" {
			t.Errorf("EncodeTag(%d, %v) disagrees with protowire (-want +got):\n%s", tt.num, tt.wt, diff)
		}
	}
}

func TestParseTag_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		tag     Tag
		wantErr error
	}{
		{name: "field number zero", tag: MakeTag(0, WireVarint), wantErr: ErrInvalidFieldNumber},
		{name: "wire type six", tag: Tag(1<<3 | 6), wantErr: ErrInvalidWireType},
		{name: "wire type seven", tag: Tag(1<<3 | 7), wantErr: ErrInvalidWireType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseTag(tt.tag)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseTag(%d) error = %v, want %v", tt.tag, err, tt.wantErr)
			}
		})
	}
}

func TestScanFields(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarintField(1, 150)
	e.EncodeStringField(2, "testing")
	e.EncodeFixed32Field(3, 0xDEADBEEF)
	e.EncodeVarintField(1, 151)
	e.EncodeFixed64Field(4, 0x0102030405060708)
	e.EncodeBytesField(2, []byte{0xFF})

	fields, err := ScanFields(e.Bytes())
	if err != nil {
		t.Fatalf("ScanFields error: %v", err)
	}

	want := []RawField{
		{Number: 1, Type: WireVarint, Uvarint: 150},
		{Number: 2, Type: WireBytes, Raw: []byte("testing")},
		{Number: 3, Type: WireFixed32, Raw: []byte{0xEF, 0xBE, 0xAD, 0xDE}},
		{Number: 1, Type: WireVarint, Uvarint: 151},
		{Number: 4, Type: WireFixed64, Raw: []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}},
		{Number: 2, Type: WireBytes, Raw: []byte{0xFF}},
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("ScanFields mismatch (-want +got):\n%s", diff)
	}
}

func TestScanFields_Empty(t *testing.T) {
	fields, err := ScanFields(nil)
	if err != nil {
		t.Fatalf("ScanFields(nil) error: %v", err)
	}
	if len(fields) != 0 {
		t.Errorf("ScanFields(nil) = %v, want empty", fields)
	}
}

func TestScanFields_Errors(t *testing.T) {
	truncated := func() []byte {
		e := NewEncoder()
		e.EncodeTag(1, WireBytes)
		e.EncodeVarint(5)
		return append(e.Bytes(), 0x01, 0x02, 0x03)
	}()

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{name: "truncated bytes payload", input: truncated, wantErr: ErrTruncatedBytes},
		{name: "unterminated tag", input: []byte{0x80}, wantErr: ErrUnterminatedVarint},
		{name: "field number zero", input: []byte{0x00}, wantErr: ErrInvalidFieldNumber},
		{name: "start group", input: []byte{0x0B}, wantErr: ErrGroupEncountered},
		{name: "end group", input: []byte{0x0C}, wantErr: ErrGroupEncountered},
		{name: "truncated fixed32", input: []byte{0x0D, 0x01, 0x02}, wantErr: ErrShortBuffer},
		{name: "truncated fixed64", input: []byte{0x09, 0x01}, wantErr: ErrShortBuffer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanFields(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ScanFields(%v) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestScanFields_TrailingGarbage(t *testing.T) {
	e := NewEncoder()
	e.EncodeVarintField(1, 1)
	input := append(e.Bytes(), 0x80)

	_, err := ScanFields(input)
	if !errors.Is(err, ErrUnterminatedVarint) {
		t.Fatalf("ScanFields error = %v, want %v", err, ErrUnterminatedVarint)
	}
	if !strings.Contains(err.Error(), "offset 2") {
		t.Errorf("error %q does not name the failing offset", err)
	}
}

func TestScanFields_ProtowireCrossCheck(t *testing.T) {
	var buf []byte
	buf = protowire.AppendTag(buf, 1, protowire.VarintType)
	buf = protowire.AppendVarint(buf, 300)
	buf = protowire.AppendTag(buf, 2, protowire.BytesType)
	buf = protowire.AppendBytes(buf, []byte("abc"))
	buf = protowire.AppendTag(buf, 3, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, 42)

	fields, err := ScanFields(buf)
	if err != nil {
		t.Fatalf("ScanFields error: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("ScanFields returned %d fields, want 3", len(fields))
	}
	if fields[0].Uvarint != 300 {
		t.Errorf("field 1 = %d, want 300", fields[0].Uvarint)
	}
	if string(fields[1].Raw) != "abc" {
		t.Errorf("field 2 = %q, want %q", fields[1].Raw, "abc")
	}
	got, n := protowire.ConsumeFixed64(fields[2].Raw)
	if n != 8 || got != 42 {
		t.Errorf("field 3 = %v, want fixed64 42", fields[2].Raw)
	}
}

func TestGroupFields(t *testing.T) {
	fields := []RawField{
		{Number: 5, Type: WireVarint, Uvarint: 1},
		{Number: 2, Type: WireVarint, Uvarint: 2},
		{Number: 5, Type: WireVarint, Uvarint: 3},
		{Number: 9, Type: WireVarint, Uvarint: 4},
		{Number: 5, Type: WireVarint, Uvarint: 5},
	}

	m := GroupFields(fields)

	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
	wantOrder := []FieldNumber{5, 2, 9}
	if diff := cmp.Diff(wantOrder, m.Numbers()); diff != "" {
		t.Errorf("Numbers() mismatch (-want +got):\n%s", diff)
	}

	got := m.Get(5)
	if len(got) != 3 || got[0].Uvarint != 1 || got[1].Uvarint != 3 || got[2].Uvarint != 5 {
		t.Errorf("Get(5) = %v, want occurrences 1, 3, 5 in wire order", got)
	}

	if !m.Has(9) || m.Has(1) {
		t.Errorf("Has: got Has(9)=%v Has(1)=%v", m.Has(9), m.Has(1))
	}
	if m.Get(1) != nil {
		t.Errorf("Get(1) = %v, want nil", m.Get(1))
	}
}
