package wire

import "fmt"

// Raw is a message whose type has no typed decoder. The frame is kept
// as received so it can be forwarded.
type Raw struct {
	Header Header

	// Frame is the whole message, header included.
	Frame []byte
}

func newRaw(f frame, data []byte) *Raw {
	b := make([]byte, f.Length)
	copy(b, data)
	return &Raw{Header: f.Header, Frame: b}
}

func (m *Raw) Type() MessageType { return m.Header.Type }
func (m *Raw) Hub() uint8        { return m.Header.HubID }

// Encode returns a copy of the stored frame.
func (m *Raw) Encode() ([]byte, error) {
	if len(m.Frame) < minHeader {
		return nil, fmt.Errorf("%s: raw frame: %w", m.Header.Type, ErrTooShort)
	}
	out := make([]byte, len(m.Frame))
	copy(out, m.Frame)
	return out, nil
}

func (m *Raw) String() string {
	return fmt.Sprintf("Raw{%s, % X}", m.Header, m.Frame)
}
