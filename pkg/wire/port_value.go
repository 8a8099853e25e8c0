package wire

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// PortValue is one entry of a PortValueSingle message.
type PortValue struct {
	PortID uint8
	Value  Value
}

func (v PortValue) String() string {
	return fmt.Sprintf("0x%02X=%s", v.PortID, v.Value)
}

// PortValueSingle reports input values (0x45). Each entry carries its
// port and a width tag.
type PortValueSingle struct {
	Envelope
	Values []PortValue
}

func (m *PortValueSingle) Type() MessageType { return TypePortValueSingle }

func (m *PortValueSingle) Encode() ([]byte, error) {
	if len(m.Values) == 0 {
		return nil, emptyPayload(m.Type(), "value list")
	}
	p := make([]byte, 0, 6*len(m.Values))
	for _, v := range m.Values {
		if v.Value.Kind().Size() == 0 {
			return nil, fmt.Errorf("%s: port 0x%02X: %s: %w", m.Type(), v.PortID, v.Value.Kind(), ErrUnknownVariantShape)
		}
		p = append(p, v.PortID, byte(v.Value.Kind()))
		p = v.Value.appendTo(p)
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortValueSingle) String() string {
	parts := make([]string, len(m.Values))
	for i, v := range m.Values {
		parts[i] = v.String()
	}
	return fmt.Sprintf("PortValueSingle{%s}", strings.Join(parts, " "))
}

func decodePortValueSingle(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	m := &PortValueSingle{Envelope: Envelope{HubID: f.HubID}}
	p := f.payload
	for i := 0; i < len(p); {
		if len(p)-i < 2 {
			return nil, tooShort(f.Type, f.size(i+2), f.size(len(p)))
		}
		port, kind := p[i], ValueKind(p[i+1])
		i += 2
		v, n, ok := readValue(kind, p[i:])
		if n == 0 {
			return nil, unknownShape(f.Type, "port 0x%02X value type %d", port, uint8(kind))
		}
		if !ok {
			return nil, tooShort(f.Type, f.size(i+n), f.size(len(p)))
		}
		i += n
		m.Values = append(m.Values, PortValue{PortID: port, Value: v})
	}
	return m, nil
}

// PortValueCombined reports the values of a combined mode (0x46).
// Values carry no tags: the width of entry i follows from
// (BitPointer+i) mod 4 using the ValueKind numbering.
type PortValueCombined struct {
	Envelope
	PortID     uint8
	BitPointer uint16
	Values     []Value
}

// CombinedKind returns the value kind expected at position i for a
// combined value message starting at bitPointer.
func CombinedKind(bitPointer uint16, i int) ValueKind {
	return ValueKind((int(bitPointer) + i) % 4)
}

func (m *PortValueCombined) Type() MessageType { return TypePortValueCombined }

func (m *PortValueCombined) Encode() ([]byte, error) {
	p := []byte{m.PortID}
	p = binary.LittleEndian.AppendUint16(p, m.BitPointer)
	for i, v := range m.Values {
		if want := CombinedKind(m.BitPointer, i); v.Kind() != want {
			return nil, fmt.Errorf("%s: value %d is %s, want %s: %w", m.Type(), i, v.Kind(), want, ErrUnknownVariantShape)
		}
		p = v.appendTo(p)
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortValueCombined) String() string {
	return fmt.Sprintf("PortValueCombined{port=0x%02X pointer=0x%04X %v}", m.PortID, m.BitPointer, m.Values)
}

func decodePortValueCombined(f frame) (Message, error) {
	if err := f.need(3); err != nil {
		return nil, err
	}
	p := f.payload
	m := &PortValueCombined{
		Envelope:   Envelope{HubID: f.HubID},
		PortID:     p[0],
		BitPointer: binary.LittleEndian.Uint16(p[1:]),
	}
	for i, off := 0, 3; off < len(p); i++ {
		v, n, ok := readValue(CombinedKind(m.BitPointer, i), p[off:])
		if !ok {
			return nil, tooShort(f.Type, f.size(off+n), f.size(len(p)))
		}
		m.Values = append(m.Values, v)
		off += n
	}
	return m, nil
}
