package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// result is the decoding of one frame.
type result struct {
	Hex     string       `json:"hex,omitempty" yaml:"hex,omitempty"`
	Length  int          `json:"length" yaml:"length"`
	HubID   uint8        `json:"hub_id" yaml:"hub_id"`
	Type    string       `json:"type,omitempty" yaml:"type,omitempty"`
	Code    uint8        `json:"code" yaml:"code"`
	Summary string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Message wire.Message `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`

	frame []byte
}

// parseHex accepts hex with optional separators (spaces, colons, commas,
// dashes) and 0x prefixes.
func parseHex(s string) ([]byte, error) {
	s = strings.NewReplacer("0x", "", "0X", "").Replace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ':', ',', '-':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return b, nil
}

// splitFrames cuts data into frames using the declared lengths. A tail
// that cannot form a frame is returned with an error.
func splitFrames(data []byte) ([][]byte, error) {
	var frames [][]byte
	for len(data) > 0 {
		length, _, err := wire.DecodeLength(data)
		if err != nil {
			return frames, err
		}
		if length < 3 {
			return frames, fmt.Errorf("declared length %d is shorter than a header", length)
		}
		if length > len(data) {
			return frames, fmt.Errorf("declared length %d, only %d bytes left: %w", length, len(data), wire.ErrTooShort)
		}
		frames = append(frames, data[:length])
		data = data[length:]
	}
	return frames, nil
}

func decodeFrame(frame []byte) result {
	r := result{Hex: hex.EncodeToString(frame), Length: len(frame), frame: frame}

	h, _, err := wire.DecodeHeader(frame)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.HubID = h.HubID
	r.Type = h.Type.String()
	r.Code = uint8(h.Type)

	msg, err := wire.Decode(frame)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Message = msg
	r.Summary = msg.String()
	return r
}

// decodeLine decodes every frame on one input line.
func decodeLine(line string) []result {
	data, err := parseHex(line)
	if err != nil {
		return []result{{Error: err.Error()}}
	}

	frames, err := splitFrames(data)
	results := make([]result, 0, len(frames)+1)
	for _, f := range frames {
		results = append(results, decodeFrame(f))
	}
	if err != nil {
		consumed := 0
		for _, f := range frames {
			consumed += len(f)
		}
		rest := data[consumed:]
		results = append(results, result{Hex: hex.EncodeToString(rest), Length: len(rest), frame: rest, Error: err.Error()})
	}
	return results
}
