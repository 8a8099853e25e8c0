package wire

import (
	"encoding/binary"
	"fmt"
)

// InputFormat is the single-mode input format of a port: which mode
// reports values, the change needed to trigger an update, and whether
// updates are sent at all.
type InputFormat struct {
	PortID       uint8
	Mode         uint8
	Delta        uint32
	Notification bool
}

func (f InputFormat) payload() []byte {
	p := []byte{f.PortID, f.Mode}
	p = binary.LittleEndian.AppendUint32(p, f.Delta)
	if f.Notification {
		return append(p, 1)
	}
	return append(p, 0)
}

func (f InputFormat) String() string {
	return fmt.Sprintf("port=0x%02X mode=%d delta=%d notify=%t", f.PortID, f.Mode, f.Delta, f.Notification)
}

func decodeInputFormat(f frame) (InputFormat, error) {
	if err := f.need(7); err != nil {
		return InputFormat{}, err
	}
	p := f.payload
	return InputFormat{
		PortID:       p[0],
		Mode:         p[1],
		Delta:        binary.LittleEndian.Uint32(p[2:]),
		Notification: p[6] != 0,
	}, nil
}

// PortInputFormatSetupSingle configures the input format of a port (0x41).
type PortInputFormatSetupSingle struct {
	Envelope
	InputFormat
}

func (m *PortInputFormatSetupSingle) Type() MessageType { return TypePortInputFormatSetupSingle }

func (m *PortInputFormatSetupSingle) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), m.payload())
}

func (m *PortInputFormatSetupSingle) String() string {
	return fmt.Sprintf("PortInputFormatSetupSingle{%s}", m.InputFormat)
}

func decodePortInputFormatSetupSingle(f frame) (Message, error) {
	in, err := decodeInputFormat(f)
	if err != nil {
		return nil, err
	}
	return &PortInputFormatSetupSingle{Envelope: Envelope{HubID: f.HubID}, InputFormat: in}, nil
}

// PortInputFormatSingle acknowledges the input format of a port (0x47).
type PortInputFormatSingle struct {
	Envelope
	InputFormat
}

func (m *PortInputFormatSingle) Type() MessageType { return TypePortInputFormatSingle }

func (m *PortInputFormatSingle) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), m.payload())
}

func (m *PortInputFormatSingle) String() string {
	return fmt.Sprintf("PortInputFormatSingle{%s}", m.InputFormat)
}

func decodePortInputFormatSingle(f frame) (Message, error) {
	in, err := decodeInputFormat(f)
	if err != nil {
		return nil, err
	}
	return &PortInputFormatSingle{Envelope: Envelope{HubID: f.HubID}, InputFormat: in}, nil
}

// SetupSubCommand is the sub-command of a combined mode setup.
type SetupSubCommand uint8

const (
	SetupSetModeAndDataSetCombinations SetupSubCommand = 0x01
	SetupLockDevice                    SetupSubCommand = 0x02
	SetupUnlockMultiUpdateEnabled      SetupSubCommand = 0x03
	SetupUnlockMultiUpdateDisabled     SetupSubCommand = 0x04
	SetupNotUsed                       SetupSubCommand = 0x05
	SetupResetSensor                   SetupSubCommand = 0x06
)

func (c SetupSubCommand) String() string {
	switch c {
	case SetupSetModeAndDataSetCombinations:
		return "SetModeAndDataSetCombinations"
	case SetupLockDevice:
		return "LockDeviceForSetup"
	case SetupUnlockMultiUpdateEnabled:
		return "UnlockAndStartMultiUpdateEnabled"
	case SetupUnlockMultiUpdateDisabled:
		return "UnlockAndStartMultiUpdateDisabled"
	case SetupNotUsed:
		return "NotUsed"
	case SetupResetSensor:
		return "ResetSensor"
	default:
		return fmt.Sprintf("SetupSubCommand(%d)", uint8(c))
	}
}

// ModeDataset packs a mode (high nibble) and dataset index (low nibble).
type ModeDataset uint8

// NewModeDataset packs mode and dataset. Both are truncated to 4 bits.
func NewModeDataset(mode, dataset uint8) ModeDataset {
	return ModeDataset(mode&0x0F<<4 | dataset&0x0F)
}

func (md ModeDataset) Mode() uint8    { return uint8(md) >> 4 }
func (md ModeDataset) Dataset() uint8 { return uint8(md) & 0x0F }

func (md ModeDataset) String() string {
	return fmt.Sprintf("%d.%d", md.Mode(), md.Dataset())
}

// PortInputFormatSetupCombined configures combined mode reporting (0x42).
// CombinationIndex and Combinations are only transmitted with
// SetupSetModeAndDataSetCombinations.
type PortInputFormatSetupCombined struct {
	Envelope
	PortID           uint8
	SubCommand       SetupSubCommand
	CombinationIndex uint8
	Combinations     []ModeDataset
}

func (m *PortInputFormatSetupCombined) Type() MessageType { return TypePortInputFormatSetupCombined }

func (m *PortInputFormatSetupCombined) Encode() ([]byte, error) {
	p := []byte{m.PortID, byte(m.SubCommand)}
	if m.SubCommand == SetupSetModeAndDataSetCombinations {
		if len(m.Combinations) == 0 {
			return nil, emptyPayload(m.Type(), "combination list")
		}
		p = append(p, m.CombinationIndex)
		for _, c := range m.Combinations {
			p = append(p, byte(c))
		}
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortInputFormatSetupCombined) String() string {
	if m.SubCommand == SetupSetModeAndDataSetCombinations {
		return fmt.Sprintf("PortInputFormatSetupCombined{port=0x%02X %s index=%d %v}",
			m.PortID, m.SubCommand, m.CombinationIndex, m.Combinations)
	}
	return fmt.Sprintf("PortInputFormatSetupCombined{port=0x%02X %s}", m.PortID, m.SubCommand)
}

func decodePortInputFormatSetupCombined(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	p := f.payload
	m := &PortInputFormatSetupCombined{
		Envelope:   Envelope{HubID: f.HubID},
		PortID:     p[0],
		SubCommand: SetupSubCommand(p[1]),
	}
	if m.SubCommand == SetupSetModeAndDataSetCombinations {
		if err := f.need(4); err != nil {
			return nil, err
		}
		m.CombinationIndex = p[2]
		m.Combinations = make([]ModeDataset, len(p)-3)
		for i, b := range p[3:] {
			m.Combinations[i] = ModeDataset(b)
		}
	}
	return m, nil
}

// PortInputFormatCombined reports the combined mode state of a port (0x48).
type PortInputFormatCombined struct {
	Envelope
	PortID uint8

	// Control holds the multi-update and locked flags.
	Control          uint8
	CombinationIndex uint8

	// BitPointer has one bit set per mode/dataset slot in the combination.
	BitPointer uint16
}

func (m *PortInputFormatCombined) Type() MessageType { return TypePortInputFormatCombined }

func (m *PortInputFormatCombined) Encode() ([]byte, error) {
	p := []byte{m.PortID, m.Control, m.CombinationIndex}
	p = binary.LittleEndian.AppendUint16(p, m.BitPointer)
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortInputFormatCombined) String() string {
	return fmt.Sprintf("PortInputFormatCombined{port=0x%02X control=0x%02X index=%d pointer=0x%04X}",
		m.PortID, m.Control, m.CombinationIndex, m.BitPointer)
}

func decodePortInputFormatCombined(f frame) (Message, error) {
	if err := f.need(5); err != nil {
		return nil, err
	}
	p := f.payload
	return &PortInputFormatCombined{
		Envelope:         Envelope{HubID: f.HubID},
		PortID:           p[0],
		Control:          p[1],
		CombinationIndex: p[2],
		BitPointer:       binary.LittleEndian.Uint16(p[3:]),
	}, nil
}
