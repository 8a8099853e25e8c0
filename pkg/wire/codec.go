package wire

import "fmt"

// Message is implemented by every decoded LWP message.
type Message interface {
	// Type returns the message type code.
	Type() MessageType

	// Hub returns the hub identifier from the header.
	Hub() uint8

	// Encode returns the framed message, header included.
	Encode() ([]byte, error)

	fmt.Stringer
}

// Envelope carries the header fields a caller may choose. The length is
// derived when the message is encoded.
type Envelope struct {
	HubID uint8
}

// Hub returns the hub identifier.
func (e Envelope) Hub() uint8 {
	return e.HubID
}

type decodeFunc func(f frame) (Message, error)

var decoders = map[MessageType]decodeFunc{
	TypeHubProperties:                decodeHubProperty,
	TypeHubActions:                   decodeHubAction,
	TypeHubAlerts:                    decodeHubAlert,
	TypeHubAttachedIO:                decodeHubAttachedIO,
	TypeGenericError:                 decodeGenericError,
	TypeHWNetworkCommands:            decodeHWNetworkCommand,
	TypeFWUpdateGoIntoBootMode:       decodeGoIntoBootMode,
	TypePortInformationRequest:       decodePortInformationRequest,
	TypePortModeInformationRequest:   decodePortModeInformationRequest,
	TypePortInputFormatSetupSingle:   decodePortInputFormatSetupSingle,
	TypePortInputFormatSetupCombined: decodePortInputFormatSetupCombined,
	TypePortInformation:              decodePortInformation,
	TypePortModeInformation:          decodePortModeInformation,
	TypePortValueSingle:              decodePortValueSingle,
	TypePortValueCombined:            decodePortValueCombined,
	TypePortInputFormatSingle:        decodePortInputFormatSingle,
	TypePortInputFormatCombined:      decodePortInputFormatCombined,
	TypeVirtualPortSetup:             decodeVirtualPortSetup,
	TypePortOutputCommand:            decodePortOutputCommand,
	TypePortOutputCommandFeedback:    decodePortOutputCommandFeedback,
}

// Decode parses one framed message. Bytes beyond the declared length are
// ignored. Unknown message types decode to *Raw.
func Decode(data []byte) (Message, error) {
	f, err := parseFrame(data)
	if err != nil {
		return nil, err
	}
	dec, ok := decoders[f.Type]
	if !ok {
		return newRaw(f, data), nil
	}
	return dec(f)
}

// Encode frames msg. It is shorthand for msg.Encode.
func Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("encode: nil message")
	}
	return msg.Encode()
}
