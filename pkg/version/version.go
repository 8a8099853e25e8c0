// Package version packs hub firmware, hardware and protocol versions
// into their LWP wire forms.
//
// Firmware and hardware versions are 32-bit values:
//
//	bit 31      always 0
//	bits 28-30  major     (0-7)
//	bits 24-27  minor     (0-15)
//	bits 16-23  build     (2 BCD digits, 0-99)
//	bits 0-15   revision  (4 BCD digits, 0-9999)
//
// The protocol version is a 16-bit BCD value, major in the high byte.
package version

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned when a component does not fit its field.
var ErrOutOfRange = errors.New("version component out of range")

// Field limits.
const (
	MaxMajor    = 7
	MaxMinor    = 15
	MaxBuild    = 99
	MaxRevision = 9999
)

// Version is a firmware or hardware version.
type Version struct {
	Major    uint8
	Minor    uint8
	Build    uint8
	Revision uint16
}

// Validate checks every component against its field limit.
func (v Version) Validate() error {
	switch {
	case v.Major > MaxMajor:
		return fmt.Errorf("major %d > %d: %w", v.Major, MaxMajor, ErrOutOfRange)
	case v.Minor > MaxMinor:
		return fmt.Errorf("minor %d > %d: %w", v.Minor, MaxMinor, ErrOutOfRange)
	case v.Build > MaxBuild:
		return fmt.Errorf("build %d > %d: %w", v.Build, MaxBuild, ErrOutOfRange)
	case v.Revision > MaxRevision:
		return fmt.Errorf("revision %d > %d: %w", v.Revision, MaxRevision, ErrOutOfRange)
	}
	return nil
}

// Encode packs v into its 32-bit wire form.
func (v Version) Encode() (uint32, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	return uint32(v.Major)<<28 |
		uint32(v.Minor)<<24 |
		uint32(toBCD(uint16(v.Build)))<<16 |
		uint32(toBCD(v.Revision)), nil
}

// Decode unpacks a 32-bit wire version. Nibbles above 9 are not
// rejected and decode to their face value.
func Decode(packed uint32) Version {
	return Version{
		Major:    uint8(packed>>28) & 0x07,
		Minor:    uint8(packed>>24) & 0x0F,
		Build:    uint8(fromBCD(uint16(packed>>16) & 0xFF)),
		Revision: fromBCD(uint16(packed)),
	}
}

// Bytes returns the little-endian wire bytes, as carried in hub
// property payloads and attached I/O revisions.
func (v Version) Bytes() ([]byte, error) {
	packed, err := v.Encode()
	if err != nil {
		return nil, err
	}
	return binary.LittleEndian.AppendUint32(nil, packed), nil
}

// FromBytes decodes four little-endian bytes.
func FromBytes(b []byte) (Version, error) {
	if len(b) < 4 {
		return Version{}, fmt.Errorf("version: need 4 bytes, got %d", len(b))
	}
	return Decode(binary.LittleEndian.Uint32(b)), nil
}

// String returns the version as "major.minor.build.revision" with build
// and revision zero padded, e.g. "2.0.00.0017".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%02d.%04d", v.Major, v.Minor, v.Build, v.Revision)
}

// Parse parses a "major.minor.build.revision" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor.build.revision", s)
	}

	var n [4]uint64
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 16)
		if err != nil || p == "" {
			return Version{}, fmt.Errorf("invalid version %q: bad component %d", s, i+1)
		}
		n[i] = v
	}
	if n[0] > MaxMajor || n[1] > MaxMinor || n[2] > MaxBuild || n[3] > MaxRevision {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, ErrOutOfRange)
	}

	return Version{Major: uint8(n[0]), Minor: uint8(n[1]), Build: uint8(n[2]), Revision: uint16(n[3])}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// UnmarshalText implements encoding.TextUnmarshaler so versions can be
// written as strings in configuration files.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func toBCD(n uint16) uint16 {
	var out uint16
	for shift := 0; n > 0; shift += 4 {
		out |= (n % 10) << shift
		n /= 10
	}
	return out
}

func fromBCD(b uint16) uint16 {
	var out uint16
	mul := uint16(1)
	for i := 0; i < 4; i++ {
		out += (b & 0x0F) * mul
		b >>= 4
		mul *= 10
	}
	return out
}
