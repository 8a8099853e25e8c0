// Package wire implements the byte format of the LEGO Wireless Protocol (LWP 3.0).
//
// Every LWP message shares a common header followed by a type-specific
// payload. The header carries the total message length, a hub identifier
// and the message type:
//
//	+--------+--------+--------+----------------+
//	| Length | Hub ID |  Type  | Payload ...    |
//	+--------+--------+--------+----------------+
//
// Lengths below 127 occupy a single byte. Longer messages set the high bit
// of the first length byte and continue in a second byte (big-endian,
// 15 bits total). The length always counts the whole message, length bytes
// included.
//
// # Messages
//
// Decode returns one of the concrete message types in this package as a
// Message. Callers switch on the concrete type:
//
//	msg, err := wire.Decode(frame)
//	if err != nil {
//	    return err
//	}
//	switch m := msg.(type) {
//	case *wire.HubProperty:
//	    ...
//	case *wire.PortValueSingle:
//	    ...
//	}
//
// Message types that are not modelled here decode to *Raw, which keeps the
// frame so it can be forwarded unchanged.
//
// # Lengths
//
// The header length is never set by callers. Encode derives it from the
// payload, so an encoded message always describes its own size.
//
// # Errors
//
// Malformed frames fail with a *DecodeError wrapping ErrTooShort or
// ErrUnknownVariantShape. Values outside their wire range fail with
// ErrOutOfRange. Decoders never return partially filled messages.
package wire
