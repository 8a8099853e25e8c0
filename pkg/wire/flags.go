package wire

import (
	"fmt"
	"strings"
)

type flagName struct {
	bit  uint8
	name string
}

// flagString joins the names of the set bits with "|". Unnamed bits are
// printed in hex.
func flagString(v uint8, names []flagName) string {
	if v == 0 {
		return "0"
	}
	var parts []string
	rest := v
	for _, n := range names {
		if v&n.bit != 0 {
			parts = append(parts, n.name)
			rest &^= n.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02X", rest))
	}
	return strings.Join(parts, "|")
}

// DeviceCapabilities is the capability byte of the advertising data.
type DeviceCapabilities uint8

const (
	CapCentral          DeviceCapabilities = 0x01
	CapPeripheral       DeviceCapabilities = 0x02
	CapLPF2             DeviceCapabilities = 0x04
	CapRemoteController DeviceCapabilities = 0x08
)

var capabilityNames = []flagName{
	{uint8(CapCentral), "Central"},
	{uint8(CapPeripheral), "Peripheral"},
	{uint8(CapLPF2), "LPF2"},
	{uint8(CapRemoteController), "RemoteController"},
}

// Has reports whether all bits of c are set.
func (d DeviceCapabilities) Has(c DeviceCapabilities) bool { return d&c == c }

func (d DeviceCapabilities) String() string { return flagString(uint8(d), capabilityNames) }

// Status is the status byte of the advertising data.
type Status uint8

const (
	StatusCanBePeripheral Status = 0x01
	StatusCanBeCentral    Status = 0x02
	StatusRequestWindow   Status = 0x20
	StatusRequestConnect  Status = 0x40
)

var statusNames = []flagName{
	{uint8(StatusCanBePeripheral), "CanBePeripheral"},
	{uint8(StatusCanBeCentral), "CanBeCentral"},
	{uint8(StatusRequestWindow), "RequestWindow"},
	{uint8(StatusRequestConnect), "RequestConnect"},
}

func (s Status) Has(f Status) bool { return s&f == f }

func (s Status) String() string { return flagString(uint8(s), statusNames) }

// EncodedBitField is the status set as carried in H/W network
// connection requests. It shares the Status bit layout.
type EncodedBitField = Status

// Mapping describes how a mode value maps onto a device function.
type Mapping uint8

const (
	MappingDiscrete     Mapping = 1 << 2
	MappingRelative     Mapping = 1 << 3
	MappingAbsolute     Mapping = 1 << 4
	MappingFunctional   Mapping = 1 << 6
	MappingSupportsNull Mapping = 1 << 7
)

var mappingNames = []flagName{
	{uint8(MappingSupportsNull), "SupportsNull"},
	{uint8(MappingFunctional), "Functional"},
	{uint8(MappingAbsolute), "Absolute"},
	{uint8(MappingRelative), "Relative"},
	{uint8(MappingDiscrete), "Discrete"},
}

func (m Mapping) Has(f Mapping) bool { return m&f == f }

func (m Mapping) String() string { return flagString(uint8(m), mappingNames) }

// Feedback is the buffer state of a port reported after output commands.
type Feedback uint8

const (
	FeedbackInProgress Feedback = 0x01
	FeedbackCompleted  Feedback = 0x02
	FeedbackDiscarded  Feedback = 0x04
	FeedbackIdle       Feedback = 0x08
	FeedbackBusyFull   Feedback = 0x10
)

var feedbackNames = []flagName{
	{uint8(FeedbackInProgress), "InProgress"},
	{uint8(FeedbackCompleted), "Completed"},
	{uint8(FeedbackDiscarded), "Discarded"},
	{uint8(FeedbackIdle), "Idle"},
	{uint8(FeedbackBusyFull), "BusyFull"},
}

// Has reports whether all bits of f are set.
func (fb Feedback) Has(f Feedback) bool { return fb&f == f }

func (fb Feedback) String() string { return flagString(uint8(fb), feedbackNames) }

// PortCapabilities is the capability byte of a mode info reply.
type PortCapabilities uint8

const (
	PortCapOutput                PortCapabilities = 0x01
	PortCapInput                 PortCapabilities = 0x02
	PortCapLogicalCombinable     PortCapabilities = 0x04
	PortCapLogicalSynchronizable PortCapabilities = 0x08
)

var portCapNames = []flagName{
	{uint8(PortCapOutput), "Output"},
	{uint8(PortCapInput), "Input"},
	{uint8(PortCapLogicalCombinable), "LogicalCombinable"},
	{uint8(PortCapLogicalSynchronizable), "LogicalSynchronizable"},
}

func (p PortCapabilities) Has(f PortCapabilities) bool { return p&f == f }

func (p PortCapabilities) String() string { return flagString(uint8(p), portCapNames) }

// BatteryType is reported by the BatteryType hub property.
type BatteryType uint8

const (
	BatteryNormal       BatteryType = 0x00
	BatteryRechargeable BatteryType = 0x01
)

func (b BatteryType) String() string {
	switch b {
	case BatteryNormal:
		return "Normal"
	case BatteryRechargeable:
		return "Rechargeable"
	default:
		return fmt.Sprintf("BatteryType(%d)", uint8(b))
	}
}
