package wire

import (
	"errors"
	"fmt"
)

// Codec errors.
var (
	// ErrTooShort is returned when a frame ends before its declared shape.
	ErrTooShort = errors.New("message too short")

	// ErrUnknownVariantShape is returned when a discriminator byte selects
	// no known payload layout.
	ErrUnknownVariantShape = errors.New("unknown variant shape")

	// ErrOutOfRange is returned when a value does not fit its wire field.
	ErrOutOfRange = errors.New("value out of range")
)

// DecodeError describes a malformed frame.
type DecodeError struct {
	// Type is the message type whose decoder rejected the frame.
	Type MessageType

	// Want is the minimum frame length required, or 0 when the failure
	// is not about length.
	Want int

	// Got is the actual frame length.
	Got int

	// Detail names the offending field for shape errors.
	Detail string

	Err error
}

func (e *DecodeError) Error() string {
	if e.Want > 0 {
		return fmt.Sprintf("%s: %v: need %d bytes, got %d", e.Type, e.Err, e.Want, e.Got)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", e.Type, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func tooShort(t MessageType, want, got int) error {
	return &DecodeError{Type: t, Want: want, Got: got, Err: ErrTooShort}
}

// emptyPayload rejects an encode whose result the decoder would refuse.
func emptyPayload(t MessageType, what string) error {
	return fmt.Errorf("%s: %s must not be empty: %w", t, what, ErrTooShort)
}

func unknownShape(t MessageType, format string, args ...any) error {
	return &DecodeError{Type: t, Detail: fmt.Sprintf(format, args...), Err: ErrUnknownVariantShape}
}
