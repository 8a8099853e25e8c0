package version

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// Current is the LWP version implemented by this library.
const Current = "3.0"

// ProtocolVersion is the LWP version reported by the LWPVersion hub
// property.
type ProtocolVersion struct {
	Major uint8
	Minor uint8
}

// ParseProtocol parses a "major.minor" protocol version. Both parts
// must fit two BCD digits.
func ParseProtocol(s string) (ProtocolVersion, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || parts[0] == "" || major > 99 {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || parts[1] == "" || minor > 99 {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return ProtocolVersion{Major: uint8(major), Minor: uint8(minor)}, nil
}

// CurrentProtocol returns Current as a ProtocolVersion.
func CurrentProtocol() ProtocolVersion {
	v, _ := ParseProtocol(Current)
	return v
}

// String returns the version as "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v ProtocolVersion) Compatible(other ProtocolVersion) bool {
	return v.Major == other.Major
}

// Encode packs the version as a 16-bit BCD value.
func (v ProtocolVersion) Encode() (uint16, error) {
	if v.Major > 99 || v.Minor > 99 {
		return 0, fmt.Errorf("protocol version %s: %w", v, ErrOutOfRange)
	}
	return toBCD(uint16(v.Major))<<8 | toBCD(uint16(v.Minor)), nil
}

// Bytes returns the little-endian wire form: minor first, then major.
func (v ProtocolVersion) Bytes() ([]byte, error) {
	packed, err := v.Encode()
	if err != nil {
		return nil, err
	}
	return binary.LittleEndian.AppendUint16(nil, packed), nil
}

// DecodeProtocol unpacks a 16-bit BCD protocol version.
func DecodeProtocol(packed uint16) ProtocolVersion {
	return ProtocolVersion{
		Major: uint8(fromBCD(packed >> 8)),
		Minor: uint8(fromBCD(packed & 0xFF)),
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *ProtocolVersion) UnmarshalText(text []byte) error {
	parsed, err := ParseProtocol(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
