package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestEncodeVarint(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		want  []byte
	}{
		{name: "zero", value: 0, want: []byte{0x00}},
		{name: "one", value: 1, want: []byte{0x01}},
		{name: "max single byte", value: 127, want: []byte{0x7F}},
		{name: "smallest two bytes", value: 128, want: []byte{0x80, 0x01}},
		{name: "three hundred", value: 300, want: []byte{0xAC, 0x02}},
		{name: "smallest three bytes", value: 16384, want: []byte{0x80, 0x80, 0x01}},
		{name: "max uint64", value: math.MaxUint64, want: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder()
			e.EncodeVarint(tt.value)
			if !bytes.Equal(e.Bytes(), tt.want) {
				t.Errorf("EncodeVarint(%d) = %v, want %v", tt.value, e.Bytes(), tt.want)
			}
			if got := VarintSize(tt.value); got != len(tt.want) {
				t.Errorf("VarintSize(%d) = %d, want %d", tt.value, got, len(tt.want))
			}
		})
	}
}

func TestDecodeVarint(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  uint64
	}{
		{name: "zero", input: []byte{0x00}, want: 0},
		{name: "max single byte", input: []byte{0x7F}, want: 127},
		{name: "smallest two bytes", input: []byte{0x80, 0x01}, want: 128},
		{name: "three hundred", input: []byte{0xAC, 0x02}, want: 300},
		{name: "smallest three bytes", input: []byte{0x80, 0x80, 0x01}, want: 16384},
		{name: "non-minimal zero accepted", input: []byte{0x80, 0x00}, want: 0},
		{name: "max uint64", input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, want: math.MaxUint64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.input)
			got, err := d.DecodeVarint()
			if err != nil {
				t.Fatalf("DecodeVarint(%v) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("DecodeVarint(%v) = %d, want %d", tt.input, got, tt.want)
			}
			if !d.EOF() {
				t.Errorf("DecodeVarint(%v) left %d unread bytes", tt.input, d.Remaining())
			}
		})
	}
}

func TestDecodeVarint_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{name: "empty input", input: nil, wantErr: ErrUnterminatedVarint},
		{name: "lone continuation byte", input: []byte{0x80}, wantErr: ErrUnterminatedVarint},
		{name: "ends mid varint", input: []byte{0xFF, 0xFF}, wantErr: ErrUnterminatedVarint},
		{name: "ten continuation bytes", input: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, wantErr: ErrVarintOverflow},
		{name: "tenth byte overflows", input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x02}, wantErr: ErrVarintOverflow},
		{name: "all ones", input: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, wantErr: ErrVarintOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.input)
			_, err := d.DecodeVarint()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeVarint(%v) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestZigZag(t *testing.T) {
	tests := []struct {
		value   int64
		encoded uint64
	}{
		{value: 0, encoded: 0},
		{value: -1, encoded: 1},
		{value: 1, encoded: 2},
		{value: -2, encoded: 3},
		{value: 2, encoded: 4},
		{value: 2147483647, encoded: 4294967294},
		{value: -2147483648, encoded: 4294967295},
		{value: math.MaxInt64, encoded: math.MaxUint64 - 1},
		{value: math.MinInt64, encoded: math.MaxUint64},
	}

	for _, tt := range tests {
		if got := EncodeZigZag64(tt.value); got != tt.encoded {
			t.Errorf("EncodeZigZag64(%d) = %d, want %d", tt.value, got, tt.encoded)
		}
		if got := DecodeZigZag64(tt.encoded); got != tt.value {
			t.Errorf("DecodeZigZag64(%d) = %d, want %d", tt.encoded, got, tt.value)
		}
		if got := protowire.EncodeZigZag(tt.value); got != tt.encoded {
			t.Errorf("protowire.EncodeZigZag(%d) = %d, disagrees with fixture %d", tt.value, got, tt.encoded)
		}
	}
}

func TestZigZag32(t *testing.T) {
	values := []int32{0, -1, 1, -2, 2, 63, -64, math.MaxInt32, math.MinInt32}
	for _, v := range values {
		if got := DecodeZigZag32(EncodeZigZag32(v)); got != v {
			t.Errorf("DecodeZigZag32(EncodeZigZag32(%d)) = %d", v, got)
		}
	}
}

func TestVarint_ProtowireCrossCheck(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16383, 16384, 1 << 21, 1 << 28, 1 << 35, 1 << 56, math.MaxUint64}
	for _, v := range values {
		e := NewEncoder()
		e.EncodeVarint(v)
		want := protowire.AppendVarint(nil, v)
		if !bytes.Equal(e.Bytes(), want) {
			t.Errorf("EncodeVarint(%d) = %v, protowire produces %v", v, e.Bytes(), want)
		}

		got, n := protowire.ConsumeVarint(e.Bytes())
		if n != len(e.Bytes()) || got != v {
			t.Errorf("protowire.ConsumeVarint(%v) = (%d, %d), want (%d, %d)", e.Bytes(), got, n, v, len(e.Bytes()))
		}

		d := NewDecoder(want)
		back, err := d.DecodeVarint()
		if err != nil || back != v {
			t.Errorf("DecodeVarint(%v) = (%d, %v), want %d", want, back, err, v)
		}
	}
}
