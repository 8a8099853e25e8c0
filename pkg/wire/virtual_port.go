package wire

import "fmt"

// VirtualPortSubCommand selects between connecting and disconnecting a
// virtual port.
type VirtualPortSubCommand uint8

const (
	VirtualPortDisconnect VirtualPortSubCommand = 0x00
	VirtualPortConnect    VirtualPortSubCommand = 0x01
)

func (c VirtualPortSubCommand) String() string {
	switch c {
	case VirtualPortDisconnect:
		return "Disconnect"
	case VirtualPortConnect:
		return "Connect"
	default:
		return fmt.Sprintf("VirtualPortSubCommand(%d)", uint8(c))
	}
}

// VirtualPortSetup joins two ports into a virtual port or splits one
// (0x61). PortID is used by VirtualPortDisconnect, PortA and PortB by
// VirtualPortConnect.
type VirtualPortSetup struct {
	Envelope
	SubCommand VirtualPortSubCommand
	PortID     uint8
	PortA      uint8
	PortB      uint8
}

func (m *VirtualPortSetup) Type() MessageType { return TypeVirtualPortSetup }

func (m *VirtualPortSetup) Encode() ([]byte, error) {
	var p []byte
	switch m.SubCommand {
	case VirtualPortDisconnect:
		p = []byte{byte(m.SubCommand), m.PortID}
	case VirtualPortConnect:
		p = []byte{byte(m.SubCommand), m.PortA, m.PortB}
	default:
		return nil, fmt.Errorf("%s: sub-command %d: %w", m.Type(), m.SubCommand, ErrUnknownVariantShape)
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *VirtualPortSetup) String() string {
	if m.SubCommand == VirtualPortConnect {
		return fmt.Sprintf("VirtualPortSetup{%s a=0x%02X b=0x%02X}", m.SubCommand, m.PortA, m.PortB)
	}
	return fmt.Sprintf("VirtualPortSetup{%s port=0x%02X}", m.SubCommand, m.PortID)
}

func decodeVirtualPortSetup(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	p := f.payload
	m := &VirtualPortSetup{Envelope: Envelope{HubID: f.HubID}, SubCommand: VirtualPortSubCommand(p[0])}
	switch m.SubCommand {
	case VirtualPortDisconnect:
		m.PortID = p[1]
	case VirtualPortConnect:
		if err := f.need(3); err != nil {
			return nil, err
		}
		m.PortA, m.PortB = p[1], p[2]
	default:
		return nil, unknownShape(f.Type, "sub-command %d", p[0])
	}
	return m, nil
}
