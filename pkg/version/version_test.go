package version

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		v      Version
		packed uint32
	}{
		{"zero", Version{}, 0x00000000},
		{"move hub firmware", Version{2, 0, 0, 17}, 0x20000017},
		{"bcd build and revision", Version{2, 0, 17, 123}, 0x20170123},
		{"hardware", Version{0, 4, 0, 0}, 0x04000000},
		{"max", Version{7, 15, 99, 9999}, 0x7F999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := tt.v.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if packed != tt.packed {
				t.Errorf("Encode = 0x%08X, want 0x%08X", packed, tt.packed)
			}
			if got := Decode(packed); got != tt.v {
				t.Errorf("Decode = %v, want %v", got, tt.v)
			}
		})
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		v    Version
	}{
		{"major", Version{Major: 8}},
		{"minor", Version{Minor: 16}},
		{"build", Version{Build: 100}},
		{"revision", Version{Revision: 10000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.v.Encode()
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Encode error = %v, want ErrOutOfRange", err)
			}
			if _, err := tt.v.Bytes(); err == nil {
				t.Error("Bytes should fail too")
			}
		})
	}
}

func TestBytes(t *testing.T) {
	v := Version{2, 0, 0, 17}
	b, err := v.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if want := []byte{0x17, 0x00, 0x00, 0x20}; !bytes.Equal(b, want) {
		t.Errorf("Bytes = % X, want % X", b, want)
	}

	got, err := FromBytes(b)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if got != v {
		t.Errorf("FromBytes = %v, want %v", got, v)
	}

	if _, err := FromBytes(b[:3]); err == nil {
		t.Error("FromBytes should reject short input")
	}
}

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  Version
	}{
		{"2.0.00.0017", Version{2, 0, 0, 17}},
		{"1.0.0.0", Version{1, 0, 0, 0}},
		{"7.15.99.9999", Version{7, 15, 99, 9999}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, v, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1.0",
		"1.0.0",
		"a.b.c.d",
		"8.0.0.0",
		"1.0.100.0",
		"1.0.0.-1",
		"1..0.0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := (Version{2, 0, 0, 17}).String(); got != "2.0.00.0017" {
		t.Errorf("String = %q, want 2.0.00.0017", got)
	}
}

func TestTextRoundTrip(t *testing.T) {
	v := Version{1, 2, 3, 4}
	text, err := v.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var got Version
	if err := got.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(%s) failed: %v", text, err)
	}
	if got != v {
		t.Errorf("got %v, want %v", got, v)
	}
}

func TestDecodeNonBCDNibbles(t *testing.T) {
	// 0xA in the low revision nibble reads as ten.
	got := Decode(0x0000000A)
	if got.Revision != 10 {
		t.Errorf("Revision = %d, want 10", got.Revision)
	}
}
