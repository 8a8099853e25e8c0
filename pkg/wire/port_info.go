package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// InformationType selects the port information requested or reported.
type InformationType uint8

const (
	InfoPortValue                InformationType = 0x00
	InfoModeInfo                 InformationType = 0x01
	InfoPossibleModeCombinations InformationType = 0x02
)

func (t InformationType) String() string {
	switch t {
	case InfoPortValue:
		return "PortValue"
	case InfoModeInfo:
		return "ModeInfo"
	case InfoPossibleModeCombinations:
		return "PossibleModeCombinations"
	default:
		return fmt.Sprintf("InformationType(%d)", uint8(t))
	}
}

// ModeInfoType selects the mode property requested or reported.
type ModeInfoType uint8

const (
	ModeInfoName           ModeInfoType = 0x00
	ModeInfoRaw            ModeInfoType = 0x01
	ModeInfoPercent        ModeInfoType = 0x02
	ModeInfoSI             ModeInfoType = 0x03
	ModeInfoSymbol         ModeInfoType = 0x04
	ModeInfoMapping        ModeInfoType = 0x05
	ModeInfoInternalUse    ModeInfoType = 0x06
	ModeInfoMotorBias      ModeInfoType = 0x07
	ModeInfoCapabilityBits ModeInfoType = 0x08
	ModeInfoValueFormat    ModeInfoType = 0x80
)

func (t ModeInfoType) String() string {
	switch t {
	case ModeInfoName:
		return "Name"
	case ModeInfoRaw:
		return "Raw"
	case ModeInfoPercent:
		return "Percent"
	case ModeInfoSI:
		return "SI"
	case ModeInfoSymbol:
		return "Symbol"
	case ModeInfoMapping:
		return "Mapping"
	case ModeInfoInternalUse:
		return "InternalUse"
	case ModeInfoMotorBias:
		return "MotorBias"
	case ModeInfoCapabilityBits:
		return "CapabilityBits"
	case ModeInfoValueFormat:
		return "ValueFormat"
	default:
		return fmt.Sprintf("ModeInfoType(0x%02X)", uint8(t))
	}
}

// PortInformationRequest asks for information about a port (0x21).
type PortInformationRequest struct {
	Envelope
	PortID uint8
	Info   InformationType
}

func (m *PortInformationRequest) Type() MessageType { return TypePortInformationRequest }

func (m *PortInformationRequest) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), []byte{m.PortID, byte(m.Info)})
}

func (m *PortInformationRequest) String() string {
	return fmt.Sprintf("PortInformationRequest{port=0x%02X %s}", m.PortID, m.Info)
}

func decodePortInformationRequest(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	return &PortInformationRequest{
		Envelope: Envelope{HubID: f.HubID},
		PortID:   f.payload[0],
		Info:     InformationType(f.payload[1]),
	}, nil
}

// PortModeInformationRequest asks for one property of a port mode (0x22).
type PortModeInformationRequest struct {
	Envelope
	PortID uint8
	Mode   uint8
	Info   ModeInfoType
}

func (m *PortModeInformationRequest) Type() MessageType { return TypePortModeInformationRequest }

func (m *PortModeInformationRequest) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), []byte{m.PortID, m.Mode, byte(m.Info)})
}

func (m *PortModeInformationRequest) String() string {
	return fmt.Sprintf("PortModeInformationRequest{port=0x%02X mode=%d %s}", m.PortID, m.Mode, m.Info)
}

func decodePortModeInformationRequest(f frame) (Message, error) {
	if err := f.need(3); err != nil {
		return nil, err
	}
	return &PortModeInformationRequest{
		Envelope: Envelope{HubID: f.HubID},
		PortID:   f.payload[0],
		Mode:     f.payload[1],
		Info:     ModeInfoType(f.payload[2]),
	}, nil
}

// PortInformation reports the modes of a port (0x43).
//
// For InfoModeInfo the Capabilities, ModeCount, InputModes and OutputModes
// fields are transmitted. For InfoPossibleModeCombinations the
// Combinations list is transmitted, one mode bit mask per entry.
type PortInformation struct {
	Envelope
	PortID uint8
	Info   InformationType

	Capabilities PortCapabilities
	ModeCount    uint8
	InputModes   uint16
	OutputModes  uint16

	Combinations []uint16
}

func (m *PortInformation) Type() MessageType { return TypePortInformation }

func (m *PortInformation) Encode() ([]byte, error) {
	p := []byte{m.PortID, byte(m.Info)}
	switch m.Info {
	case InfoModeInfo:
		p = append(p, byte(m.Capabilities), m.ModeCount)
		p = binary.LittleEndian.AppendUint16(p, m.InputModes)
		p = binary.LittleEndian.AppendUint16(p, m.OutputModes)
	case InfoPossibleModeCombinations:
		for _, c := range m.Combinations {
			p = binary.LittleEndian.AppendUint16(p, c)
		}
	default:
		return nil, fmt.Errorf("%s: information type %s: %w", m.Type(), m.Info, ErrUnknownVariantShape)
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortInformation) String() string {
	if m.Info == InfoModeInfo {
		return fmt.Sprintf("PortInformation{port=0x%02X %s caps=%s modes=%d in=0x%04X out=0x%04X}",
			m.PortID, m.Info, m.Capabilities, m.ModeCount, m.InputModes, m.OutputModes)
	}
	return fmt.Sprintf("PortInformation{port=0x%02X %s %04X}", m.PortID, m.Info, m.Combinations)
}

func decodePortInformation(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	p := f.payload
	m := &PortInformation{
		Envelope: Envelope{HubID: f.HubID},
		PortID:   p[0],
		Info:     InformationType(p[1]),
	}
	switch m.Info {
	case InfoModeInfo:
		if err := f.need(8); err != nil {
			return nil, err
		}
		m.Capabilities = PortCapabilities(p[2])
		m.ModeCount = p[3]
		m.InputModes = binary.LittleEndian.Uint16(p[4:])
		m.OutputModes = binary.LittleEndian.Uint16(p[6:])
	case InfoPossibleModeCombinations:
		n := (len(p) - 2) / 2
		if n > 0 {
			m.Combinations = make([]uint16, n)
			for i := range m.Combinations {
				m.Combinations[i] = binary.LittleEndian.Uint16(p[2+2*i:])
			}
		}
	default:
		return nil, unknownShape(f.Type, "information type %d", p[1])
	}
	return m, nil
}

// ValueFormat describes how a mode reports its values.
type ValueFormat struct {
	Datasets uint8
	Kind     ValueKind
	Figures  uint8
	Decimals uint8
}

// PortModeInformation reports one property of a port mode (0x44).
// Which fields are transmitted depends on Info:
//
//	Name, Symbol           Text
//	Raw, Percent, SI       Min, Max
//	Mapping                InputMapping, OutputMapping
//	InternalUse            Data
//	MotorBias              MotorBias
//	CapabilityBits         CapabilityBits
//	ValueFormat            Format
type PortModeInformation struct {
	Envelope
	PortID uint8
	Mode   uint8
	Info   ModeInfoType

	Text string

	Min float32
	Max float32

	InputMapping  Mapping
	OutputMapping Mapping

	Data []byte

	MotorBias uint8

	CapabilityBits [6]byte

	Format ValueFormat
}

func (m *PortModeInformation) Type() MessageType { return TypePortModeInformation }

func (m *PortModeInformation) Encode() ([]byte, error) {
	p := []byte{m.PortID, m.Mode, byte(m.Info)}
	switch m.Info {
	case ModeInfoName, ModeInfoSymbol:
		if m.Text == "" {
			return nil, emptyPayload(m.Type(), m.Info.String())
		}
		p = append(p, m.Text...)
	case ModeInfoRaw, ModeInfoPercent, ModeInfoSI:
		p = binary.LittleEndian.AppendUint32(p, math.Float32bits(m.Min))
		p = binary.LittleEndian.AppendUint32(p, math.Float32bits(m.Max))
	case ModeInfoMapping:
		p = append(p, byte(m.InputMapping), byte(m.OutputMapping))
	case ModeInfoInternalUse:
		if len(m.Data) == 0 {
			return nil, emptyPayload(m.Type(), m.Info.String())
		}
		p = append(p, m.Data...)
	case ModeInfoMotorBias:
		p = append(p, m.MotorBias)
	case ModeInfoCapabilityBits:
		p = append(p, m.CapabilityBits[:]...)
	case ModeInfoValueFormat:
		p = append(p, m.Format.Datasets, byte(m.Format.Kind), m.Format.Figures, m.Format.Decimals)
	default:
		return nil, fmt.Errorf("%s: mode information type %s: %w", m.Type(), m.Info, ErrUnknownVariantShape)
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortModeInformation) String() string {
	var v string
	switch m.Info {
	case ModeInfoName, ModeInfoSymbol:
		v = fmt.Sprintf("%q", m.Text)
	case ModeInfoRaw, ModeInfoPercent, ModeInfoSI:
		v = fmt.Sprintf("min=%g max=%g", m.Min, m.Max)
	case ModeInfoMapping:
		v = fmt.Sprintf("in=%s out=%s", m.InputMapping, m.OutputMapping)
	case ModeInfoMotorBias:
		v = fmt.Sprintf("%d", m.MotorBias)
	case ModeInfoCapabilityBits:
		v = fmt.Sprintf("% X", m.CapabilityBits)
	case ModeInfoValueFormat:
		v = fmt.Sprintf("%+v", m.Format)
	default:
		v = fmt.Sprintf("% X", m.Data)
	}
	return fmt.Sprintf("PortModeInformation{port=0x%02X mode=%d %s %s}", m.PortID, m.Mode, m.Info, v)
}

func decodePortModeInformation(f frame) (Message, error) {
	if err := f.need(4); err != nil {
		return nil, err
	}
	p := f.payload
	m := &PortModeInformation{
		Envelope: Envelope{HubID: f.HubID},
		PortID:   p[0],
		Mode:     p[1],
		Info:     ModeInfoType(p[2]),
	}
	v := p[3:]
	switch m.Info {
	case ModeInfoName, ModeInfoSymbol:
		m.Text = string(bytes.TrimRight(v, "\x00"))
	case ModeInfoRaw, ModeInfoPercent, ModeInfoSI:
		if err := f.need(3 + 8); err != nil {
			return nil, err
		}
		m.Min = math.Float32frombits(binary.LittleEndian.Uint32(v))
		m.Max = math.Float32frombits(binary.LittleEndian.Uint32(v[4:]))
	case ModeInfoMapping:
		if err := f.need(3 + 2); err != nil {
			return nil, err
		}
		m.InputMapping = Mapping(v[0])
		m.OutputMapping = Mapping(v[1])
	case ModeInfoInternalUse:
		m.Data = append([]byte(nil), v...)
	case ModeInfoMotorBias:
		m.MotorBias = v[0]
	case ModeInfoCapabilityBits:
		if err := f.need(3 + 6); err != nil {
			return nil, err
		}
		copy(m.CapabilityBits[:], v)
	case ModeInfoValueFormat:
		if err := f.need(3 + 4); err != nil {
			return nil, err
		}
		m.Format = ValueFormat{Datasets: v[0], Kind: ValueKind(v[1]), Figures: v[2], Decimals: v[3]}
	default:
		return nil, unknownShape(f.Type, "mode information type 0x%02X", p[2])
	}
	return m, nil
}
