package wire

import "fmt"

const (
	// MaxLength is the largest message length the two-byte form can carry.
	MaxLength = 0x7FFF

	// escapeBit marks a two-byte length field.
	escapeBit = 0x80

	// shortLimit is the first length that needs the two-byte form.
	shortLimit = 127

	// minHeader is the size of the smallest header (1-byte length, hub, type).
	minHeader = 3
)

// Header is the common prefix of every LWP message.
type Header struct {
	// Length is the total message length as declared on the wire.
	Length uint16

	// HubID is reserved by the protocol and normally zero.
	HubID uint8

	// Type selects the payload layout.
	Type MessageType
}

func (h Header) String() string {
	return fmt.Sprintf("%s(len=%d, hub=%d)", h.Type, h.Length, h.HubID)
}

// DecodeLength reads the length field at the start of data.
// It returns the declared message length and the number of bytes the
// length field occupies.
func DecodeLength(data []byte) (length int, n int, err error) {
	if len(data) < 1 {
		return 0, 0, fmt.Errorf("length field: %w", ErrTooShort)
	}
	if data[0]&escapeBit == 0 {
		return int(data[0]), 1, nil
	}
	if len(data) < 2 {
		return 0, 0, fmt.Errorf("escaped length field: %w", ErrTooShort)
	}
	return int(data[0]&0x7F)<<8 | int(data[1]), 2, nil
}

// DecodeHeader reads the header at the start of data. It returns the
// header and the offset of the first payload byte.
func DecodeHeader(data []byte) (Header, int, error) {
	length, n, err := DecodeLength(data)
	if err != nil {
		return Header{}, 0, err
	}
	if len(data) < n+2 {
		return Header{}, 0, fmt.Errorf("header: need %d bytes, got %d: %w", n+2, len(data), ErrTooShort)
	}
	return Header{
		Length: uint16(length),
		HubID:  data[n],
		Type:   MessageType(data[n+1]),
	}, n + 2, nil
}

// frame is a header plus the payload bytes it declares.
type frame struct {
	Header
	// payload holds the bytes after the type byte, cut at the declared length.
	payload []byte
	// offset is the header size, 3 or 4.
	offset int
}

// size returns the frame length for a payload minimum, taking the
// header form of this frame into account.
func (f frame) size(payloadLen int) int {
	return f.offset + payloadLen
}

// need fails unless the payload holds at least n bytes.
func (f frame) need(n int) error {
	if len(f.payload) < n {
		return tooShort(f.Type, f.size(n), f.size(len(f.payload)))
	}
	return nil
}

func parseFrame(data []byte) (frame, error) {
	h, off, err := DecodeHeader(data)
	if err != nil {
		return frame{}, err
	}
	length := int(h.Length)
	if length < off {
		return frame{}, tooShort(h.Type, off, length)
	}
	if len(data) < length {
		return frame{}, tooShort(h.Type, length, len(data))
	}
	return frame{Header: h, payload: data[off:length], offset: off}, nil
}

// encodeFrame prefixes payload with a header for hubID and t. The length
// field uses the one-byte form while the whole message stays below 127
// bytes.
// Frames from encoders that wrote the escaped length without counting its
// second byte decode one payload byte short.
func encodeFrame(hubID uint8, t MessageType, payload []byte) ([]byte, error) {
	total := minHeader + len(payload)
	if total >= shortLimit {
		total++
	}
	if total > MaxLength {
		return nil, fmt.Errorf("%s: message length %d exceeds %d: %w", t, total, MaxLength, ErrOutOfRange)
	}

	out := make([]byte, 0, total)
	if total < shortLimit {
		out = append(out, byte(total))
	} else {
		out = append(out, byte(total>>8)|escapeBit, byte(total))
	}
	out = append(out, hubID, byte(t))
	return append(out, payload...), nil
}
