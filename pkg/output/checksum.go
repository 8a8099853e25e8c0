package output

import (
	"errors"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// ErrEmptyPayload is returned when a direct write has nothing to write.
var ErrEmptyPayload = errors.New("output: empty payload")

// Checksum folds payload into a single byte, starting from 0xFF and
// XOR-ing every byte.
func Checksum(payload []byte) byte {
	sum := byte(0xFF)
	for _, b := range payload {
		sum ^= b
	}
	return sum
}

// WriteDirect returns payload followed by its checksum.
func WriteDirect(payload []byte) (Payload, error) {
	if len(payload) == 0 {
		return Payload{}, ErrEmptyPayload
	}
	data := make([]byte, 0, len(payload)+1)
	data = append(data, payload...)
	data = append(data, Checksum(payload))
	return Payload{SubCommand: wire.SubWriteDirect, Data: data}, nil
}

// WriteDirectModeData returns mode, payload and the checksum of payload.
// The mode byte is not part of the checksum.
func WriteDirectModeData(mode uint8, payload []byte) (Payload, error) {
	if len(payload) == 0 {
		return Payload{}, ErrEmptyPayload
	}
	data := make([]byte, 0, len(payload)+2)
	data = append(data, mode)
	data = append(data, payload...)
	data = append(data, Checksum(payload))
	return Payload{SubCommand: wire.SubWriteDirectModeData, Data: data}, nil
}
