package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ValueKind selects the width of a port value. The numbers match the
// dataset type tags used on the wire.
type ValueKind uint8

const (
	KindU8  ValueKind = 0x00
	KindU16 ValueKind = 0x01
	KindU32 ValueKind = 0x02
	KindF32 ValueKind = 0x03
)

// Size returns the encoded width in bytes, or 0 for an unknown kind.
func (k ValueKind) Size() int {
	switch k {
	case KindU8:
		return 1
	case KindU16:
		return 2
	case KindU32, KindF32:
		return 4
	default:
		return 0
	}
}

// String returns the kind name.
func (k ValueKind) String() string {
	switch k {
	case KindU8:
		return "U8"
	case KindU16:
		return "U16"
	case KindU32:
		return "U32"
	case KindF32:
		return "F32"
	default:
		return fmt.Sprintf("ValueKind(%d)", uint8(k))
	}
}

// Value is a port value of one of the four wire widths.
type Value struct {
	kind ValueKind
	bits uint32
}

// U8 returns an 8-bit value.
func U8(v uint8) Value { return Value{kind: KindU8, bits: uint32(v)} }

// U16 returns a 16-bit value.
func U16(v uint16) Value { return Value{kind: KindU16, bits: uint32(v)} }

// U32 returns a 32-bit value.
func U32(v uint32) Value { return Value{kind: KindU32, bits: v} }

// F32 returns a float value.
func F32(v float32) Value { return Value{kind: KindF32, bits: math.Float32bits(v)} }

// Kind returns the value width.
func (v Value) Kind() ValueKind { return v.kind }

// Uint returns the integer value. For F32 it returns the raw bits.
func (v Value) Uint() uint32 { return v.bits }

// Float returns the value as a float. Integer kinds are converted.
func (v Value) Float() float32 {
	if v.kind == KindF32 {
		return math.Float32frombits(v.bits)
	}
	return float32(v.bits)
}

func (v Value) String() string {
	if v.kind == KindF32 {
		return fmt.Sprintf("F32(%g)", v.Float())
	}
	return fmt.Sprintf("%s(%d)", v.kind, v.bits)
}

func (v Value) appendTo(b []byte) []byte {
	switch v.kind {
	case KindU8:
		return append(b, byte(v.bits))
	case KindU16:
		return binary.LittleEndian.AppendUint16(b, uint16(v.bits))
	default:
		return binary.LittleEndian.AppendUint32(b, v.bits)
	}
}

// readValue decodes a value of kind k from the start of b. ok is false
// when b is too short.
func readValue(k ValueKind, b []byte) (v Value, n int, ok bool) {
	n = k.Size()
	if n == 0 || len(b) < n {
		return Value{}, n, false
	}
	switch k {
	case KindU8:
		v = U8(b[0])
	case KindU16:
		v = U16(binary.LittleEndian.Uint16(b))
	default:
		v = Value{kind: k, bits: binary.LittleEndian.Uint32(b)}
	}
	return v, n, true
}
