package wire

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// IOType identifies the kind of device attached to a port.
type IOType uint16

const (
	IOMotor                  IOType = 0x0001
	IOSystemTrainMotor       IOType = 0x0002
	IOButton                 IOType = 0x0005
	IOLEDLight               IOType = 0x0008
	IOVoltage                IOType = 0x0014
	IOCurrent                IOType = 0x0015
	IOPiezoTone              IOType = 0x0016
	IORGBLight               IOType = 0x0017
	IOExternalTiltSensor     IOType = 0x0022
	IOMotionSensor           IOType = 0x0023
	IOVisionSensor           IOType = 0x0025
	IOExternalMotorWithTacho IOType = 0x0026
	IOInternalMotorWithTacho IOType = 0x0027
	IOInternalTilt           IOType = 0x0028
)

var ioTypeNames = map[IOType]string{
	IOMotor:                  "Motor",
	IOSystemTrainMotor:       "SystemTrainMotor",
	IOButton:                 "Button",
	IOLEDLight:               "LEDLight",
	IOVoltage:                "Voltage",
	IOCurrent:                "Current",
	IOPiezoTone:              "PiezoTone",
	IORGBLight:               "RGBLight",
	IOExternalTiltSensor:     "ExternalTiltSensor",
	IOMotionSensor:           "MotionSensor",
	IOVisionSensor:           "VisionSensor",
	IOExternalMotorWithTacho: "ExternalMotorWithTacho",
	IOInternalMotorWithTacho: "InternalMotorWithTacho",
	IOInternalTilt:           "InternalTilt",
}

func (t IOType) String() string {
	if s, ok := ioTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("IOType(0x%04X)", uint16(t))
}

// ParseIOType looks up an IO type by name.
func ParseIOType(name string) (IOType, bool) {
	for t, s := range ioTypeNames {
		if s == name {
			return t, true
		}
	}
	return 0, false
}

// UnmarshalText accepts a name known to ParseIOType or a number.
func (t *IOType) UnmarshalText(text []byte) error {
	if v, ok := ParseIOType(string(text)); ok {
		*t = v
		return nil
	}
	n, err := strconv.ParseUint(string(text), 0, 16)
	if err != nil {
		return fmt.Errorf("io type %q: %w", text, ErrOutOfRange)
	}
	*t = IOType(n)
	return nil
}

// IOEvent is the attach state reported for a port.
type IOEvent uint8

const (
	IODetached        IOEvent = 0x00
	IOAttached        IOEvent = 0x01
	IOAttachedVirtual IOEvent = 0x02
)

func (e IOEvent) String() string {
	switch e {
	case IODetached:
		return "DetachedIO"
	case IOAttached:
		return "AttachedIO"
	case IOAttachedVirtual:
		return "AttachedVirtualIO"
	default:
		return fmt.Sprintf("IOEvent(%d)", uint8(e))
	}
}

// HubAttachedIO reports a device attached to or removed from a port (0x04).
//
// Only the fields for Event are transmitted: IOType and the revisions for
// IOAttached, IOType and the two member ports for IOAttachedVirtual, and
// nothing beyond the port for IODetached.
type HubAttachedIO struct {
	Envelope
	PortID uint8
	Event  IOEvent

	IOType IOType

	// HardwareRevision and SoftwareRevision are packed versions as
	// defined by package version.
	HardwareRevision int32
	SoftwareRevision int32

	PortA uint8
	PortB uint8
}

func (m *HubAttachedIO) Type() MessageType { return TypeHubAttachedIO }

func (m *HubAttachedIO) Encode() ([]byte, error) {
	p := []byte{m.PortID, byte(m.Event)}
	switch m.Event {
	case IODetached:
	case IOAttached:
		p = binary.LittleEndian.AppendUint16(p, uint16(m.IOType))
		p = binary.LittleEndian.AppendUint32(p, uint32(m.HardwareRevision))
		p = binary.LittleEndian.AppendUint32(p, uint32(m.SoftwareRevision))
	case IOAttachedVirtual:
		p = binary.LittleEndian.AppendUint16(p, uint16(m.IOType))
		p = append(p, m.PortA, m.PortB)
	default:
		return nil, fmt.Errorf("%s: event %d: %w", m.Type(), m.Event, ErrUnknownVariantShape)
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *HubAttachedIO) String() string {
	switch m.Event {
	case IOAttached:
		return fmt.Sprintf("HubAttachedIO{port=0x%02X %s %s hw=0x%08X sw=0x%08X}",
			m.PortID, m.Event, m.IOType, uint32(m.HardwareRevision), uint32(m.SoftwareRevision))
	case IOAttachedVirtual:
		return fmt.Sprintf("HubAttachedIO{port=0x%02X %s %s a=0x%02X b=0x%02X}",
			m.PortID, m.Event, m.IOType, m.PortA, m.PortB)
	default:
		return fmt.Sprintf("HubAttachedIO{port=0x%02X %s}", m.PortID, m.Event)
	}
}

func decodeHubAttachedIO(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	p := f.payload
	m := &HubAttachedIO{
		Envelope: Envelope{HubID: f.HubID},
		PortID:   p[0],
		Event:    IOEvent(p[1]),
	}
	switch m.Event {
	case IODetached:
	case IOAttached:
		if err := f.need(12); err != nil {
			return nil, err
		}
		m.IOType = IOType(binary.LittleEndian.Uint16(p[2:]))
		m.HardwareRevision = int32(binary.LittleEndian.Uint32(p[4:]))
		m.SoftwareRevision = int32(binary.LittleEndian.Uint32(p[8:]))
	case IOAttachedVirtual:
		if err := f.need(6); err != nil {
			return nil, err
		}
		m.IOType = IOType(binary.LittleEndian.Uint16(p[2:]))
		m.PortA = p[4]
		m.PortB = p[5]
	default:
		return nil, unknownShape(f.Type, "event %d", p[1])
	}
	return m, nil
}
