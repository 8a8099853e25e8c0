package vectors

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is a named set of frame vectors loaded from one YAML file.
type Suite struct {
	// Name identifies the suite in test output.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description,omitempty"`

	// Vectors are the frames to check.
	Vectors []Vector `yaml:"vectors"`

	// File is the path the suite was loaded from (set by the loader).
	File string `yaml:"-"`
}

// Vector is one frame and the outcome expected from decoding it.
type Vector struct {
	// Name identifies the vector within its suite.
	Name string `yaml:"name"`

	// Frame is the raw message, written as hex with optional spaces.
	Frame Hex `yaml:"frame"`

	// Type is the expected message type name, for example "HubAttachedIO".
	// Empty when Error is set.
	Type string `yaml:"type,omitempty"`

	// Error is the expected failure: "too_short" or "unknown_variant_shape".
	Error string `yaml:"error,omitempty"`

	// Contains lists substrings expected in the decoded message's String.
	Contains []string `yaml:"contains,omitempty"`

	// Encoded is the expected output of re-encoding the decoded message.
	// When empty the re-encoded frame must equal Frame.
	Encoded Hex `yaml:"encoded,omitempty"`
}

// Expected error names.
const (
	ErrorTooShort            = "too_short"
	ErrorUnknownVariantShape = "unknown_variant_shape"
)

// Hex is a byte string written in YAML as hex digits. Whitespace and
// colons between bytes are ignored.
type Hex []byte

// UnmarshalYAML decodes a hex scalar.
func (h *Hex) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	b, err := ParseHex(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*h = b
	return nil
}

// MarshalYAML encodes the bytes as space separated hex.
func (h Hex) MarshalYAML() (any, error) {
	return h.String(), nil
}

func (h Hex) String() string {
	return strings.ToUpper(FormatHex(h))
}

// ParseHex decodes hex digits, ignoring whitespace and colons.
func ParseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':':
			return -1
		}
		return r
	}, s)
	return hex.DecodeString(clean)
}

// FormatHex renders b as space separated lower case hex pairs.
func FormatHex(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = hex.EncodeToString([]byte{c})
	}
	return strings.Join(parts, " ")
}

// LoadError provides details about a vector file that failed to load.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Line > 0 {
		return e.File + ":" + strconv.Itoa(e.Line) + ": " + msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
