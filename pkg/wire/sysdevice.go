package wire

import (
	"fmt"
	"strconv"
)

// SystemType is the 3-bit system family of a hub.
type SystemType uint8

const (
	SystemWeDo20      SystemType = 0
	SystemDuplo       SystemType = 1
	SystemLegoSystem1 SystemType = 2
	SystemLegoSystem2 SystemType = 3
)

func (s SystemType) String() string {
	switch s {
	case SystemWeDo20:
		return "LegoWedo20"
	case SystemDuplo:
		return "LegoDuplo"
	case SystemLegoSystem1:
		return "LegoSystem1"
	case SystemLegoSystem2:
		return "LegoSystem2"
	default:
		return fmt.Sprintf("SystemType(%d)", uint8(s))
	}
}

// DeviceNumber is the 5-bit device number within a system.
type DeviceNumber uint8

// SystemDevice is the combined system type and device number byte
// reported by the SystemTypeID property and the advertising data.
type SystemDevice uint8

const (
	WeDoHub        SystemDevice = 0b000_00000
	DuploTrain     SystemDevice = 0b001_00000
	BoostHub       SystemDevice = 0b010_00000
	TwoPortHub     SystemDevice = 0b010_00001
	TwoPortHandset SystemDevice = 0b010_00010
)

// EncodeSystemDevice packs a system type and device number. Device
// numbers are truncated to 5 bits.
func EncodeSystemDevice(sys SystemType, dev DeviceNumber) SystemDevice {
	return SystemDevice(uint8(sys)<<5 | uint8(dev)&0x1F)
}

// DecodeSystemDevice splits b into system type and device number.
func DecodeSystemDevice(b byte) (SystemType, DeviceNumber) {
	return SystemType(b >> 5), DeviceNumber(b & 0x1F)
}

// System returns the system type.
func (sd SystemDevice) System() SystemType { return SystemType(sd >> 5) }

// Device returns the device number.
func (sd SystemDevice) Device() DeviceNumber { return DeviceNumber(sd & 0x1F) }

func (sd SystemDevice) String() string {
	switch sd {
	case WeDoHub:
		return "WeDoHub"
	case DuploTrain:
		return "DuploTrain"
	case BoostHub:
		return "BoostHub"
	case TwoPortHub:
		return "TwoPortHub"
	case TwoPortHandset:
		return "TwoPortHandset"
	default:
		return fmt.Sprintf("%s/%d", sd.System(), sd.Device())
	}
}

// ParseSystemDevice looks up a named hub kind.
func ParseSystemDevice(name string) (SystemDevice, bool) {
	for _, sd := range []SystemDevice{WeDoHub, DuploTrain, BoostHub, TwoPortHub, TwoPortHandset} {
		if sd.String() == name {
			return sd, true
		}
	}
	return 0, false
}

// UnmarshalText accepts a name known to ParseSystemDevice or a number.
func (sd *SystemDevice) UnmarshalText(text []byte) error {
	if v, ok := ParseSystemDevice(string(text)); ok {
		*sd = v
		return nil
	}
	n, err := strconv.ParseUint(string(text), 0, 8)
	if err != nil {
		return fmt.Errorf("system device %q: %w", text, ErrOutOfRange)
	}
	*sd = SystemDevice(n)
	return nil
}
