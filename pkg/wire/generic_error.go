package wire

import "fmt"

// ErrorCode is the reason carried by a GenericError message.
type ErrorCode uint8

const (
	ErrCodeACK                  ErrorCode = 0x01
	ErrCodeMACK                 ErrorCode = 0x02
	ErrCodeBufferOverflow       ErrorCode = 0x03
	ErrCodeTimeout              ErrorCode = 0x04
	ErrCodeCommandNotRecognized ErrorCode = 0x05
	ErrCodeInvalidUse           ErrorCode = 0x06
	ErrCodeOvercurrent          ErrorCode = 0x07
	ErrCodeInternalError        ErrorCode = 0x08
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeACK:
		return "ACK"
	case ErrCodeMACK:
		return "MACK"
	case ErrCodeBufferOverflow:
		return "BUFFER_OVERFLOW"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodeCommandNotRecognized:
		return "COMMAND_NOT_RECOGNIZED"
	case ErrCodeInvalidUse:
		return "INVALID_USE"
	case ErrCodeOvercurrent:
		return "OVERCURRENT"
	case ErrCodeInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// GenericError reports a failure for a received command type (0x05).
type GenericError struct {
	Envelope
	CommandType MessageType
	Code        ErrorCode
}

func (m *GenericError) Type() MessageType { return TypeGenericError }

func (m *GenericError) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), []byte{byte(m.CommandType), byte(m.Code)})
}

func (m *GenericError) String() string {
	return fmt.Sprintf("GenericError{%s %s}", m.CommandType, m.Code)
}

func decodeGenericError(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	return &GenericError{
		Envelope:    Envelope{HubID: f.HubID},
		CommandType: MessageType(f.payload[0]),
		Code:        ErrorCode(f.payload[1]),
	}, nil
}
