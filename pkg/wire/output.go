package wire

import (
	"fmt"
	"strings"
)

// StartupCompletion is the execution byte of a port output command. The
// high nibble selects startup handling, the low nibble completion
// handling.
type StartupCompletion uint8

const (
	StartupBufferIfNecessary  StartupCompletion = 0x00
	StartupExecuteImmediately StartupCompletion = 0x10
	CompletionNoAction        StartupCompletion = 0x00
	CompletionCommandFeedback StartupCompletion = 0x01
)

// Immediate reports whether the command bypasses the port buffer.
func (s StartupCompletion) Immediate() bool {
	return s&StartupExecuteImmediately != 0
}

// Feedback reports whether the sender asked for command feedback.
func (s StartupCompletion) Feedback() bool {
	return s&CompletionCommandFeedback != 0
}

func (s StartupCompletion) String() string {
	startup := "BufferIfNecessary"
	if s.Immediate() {
		startup = "ExecuteImmediately"
	}
	completion := "NoAction"
	if s.Feedback() {
		completion = "CommandFeedback"
	}
	return startup + "|" + completion
}

// OutputSubCommand selects the action of a port output command.
type OutputSubCommand uint8

// The single and dual forms of PresetEncoder share code 0x14; only one
// constant exists for it.
const (
	SubStartPower               OutputSubCommand = 0x00
	SubStartPowerDual           OutputSubCommand = 0x02
	SubSetAccTime               OutputSubCommand = 0x05
	SubSetDecTime               OutputSubCommand = 0x06
	SubStartSpeed               OutputSubCommand = 0x07
	SubStartSpeedDual           OutputSubCommand = 0x08
	SubStartSpeedForTime        OutputSubCommand = 0x09
	SubStartSpeedForTimeDual    OutputSubCommand = 0x0A
	SubStartSpeedForDegrees     OutputSubCommand = 0x0B
	SubStartSpeedForDegreesDual OutputSubCommand = 0x0C
	SubGotoAbsolutePosition     OutputSubCommand = 0x0D
	SubGotoAbsolutePositionDual OutputSubCommand = 0x0E
	SubPresetEncoder            OutputSubCommand = 0x14
	SubTiltImpactPreset         OutputSubCommand = 0x15
	SubTiltConfigOrientation    OutputSubCommand = 0x16
	SubTiltConfigImpact         OutputSubCommand = 0x17
	SubTiltFactoryCalibration   OutputSubCommand = 0x18
	SubHardwareReset            OutputSubCommand = 0x19
	SubSetRgbColorNo            OutputSubCommand = 0x1A
	SubSetRgbColors             OutputSubCommand = 0x1B
	SubWriteDirect              OutputSubCommand = 0x50
	SubWriteDirectModeData      OutputSubCommand = 0x51
)

var outputSubCommandNames = map[OutputSubCommand]string{
	SubStartPower:               "StartPower",
	SubStartPowerDual:           "StartPowerDual",
	SubSetAccTime:               "SetAccTime",
	SubSetDecTime:               "SetDecTime",
	SubStartSpeed:               "StartSpeed",
	SubStartSpeedDual:           "StartSpeedDual",
	SubStartSpeedForTime:        "StartSpeedForTime",
	SubStartSpeedForTimeDual:    "StartSpeedForTimeDual",
	SubStartSpeedForDegrees:     "StartSpeedForDegrees",
	SubStartSpeedForDegreesDual: "StartSpeedForDegreesDual",
	SubGotoAbsolutePosition:     "GotoAbsolutePosition",
	SubGotoAbsolutePositionDual: "GotoAbsolutePositionDual",
	SubPresetEncoder:            "PresetEncoder",
	SubTiltImpactPreset:         "TiltImpactPreset",
	SubTiltConfigOrientation:    "TiltConfigOrientation",
	SubTiltConfigImpact:         "TiltConfigImpact",
	SubTiltFactoryCalibration:   "TiltFactoryCalibration",
	SubHardwareReset:            "HardwareReset",
	SubSetRgbColorNo:            "SetRgbColorNo",
	SubSetRgbColors:             "SetRgbColors",
	SubWriteDirect:              "WriteDirect",
	SubWriteDirectModeData:      "WriteDirectModeData",
}

func (c OutputSubCommand) String() string {
	if s, ok := outputSubCommandNames[c]; ok {
		return s
	}
	return fmt.Sprintf("OutputSubCommand(0x%02X)", uint8(c))
}

// PortOutputCommand sends an output sub-command to a port (0x81).
// Payload holds the sub-command parameters.
type PortOutputCommand struct {
	Envelope
	PortID     uint8
	Startup    StartupCompletion
	SubCommand OutputSubCommand
	Payload    []byte
}

func (m *PortOutputCommand) Type() MessageType { return TypePortOutputCommand }

func (m *PortOutputCommand) Encode() ([]byte, error) {
	p := make([]byte, 0, 3+len(m.Payload))
	p = append(p, m.PortID, byte(m.Startup), byte(m.SubCommand))
	p = append(p, m.Payload...)
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortOutputCommand) String() string {
	return fmt.Sprintf("PortOutputCommand{port=0x%02X %s %s payload=% X}", m.PortID, m.Startup, m.SubCommand, m.Payload)
}

func decodePortOutputCommand(f frame) (Message, error) {
	if err := f.need(3); err != nil {
		return nil, err
	}
	p := f.payload
	m := &PortOutputCommand{
		Envelope:   Envelope{HubID: f.HubID},
		PortID:     p[0],
		Startup:    StartupCompletion(p[1]),
		SubCommand: OutputSubCommand(p[2]),
	}
	if len(p) > 3 {
		m.Payload = append([]byte(nil), p[3:]...)
	}
	return m, nil
}

// PortFeedback is one entry of a PortOutputCommandFeedback message.
type PortFeedback struct {
	PortID   uint8
	Feedback Feedback
}

// PortOutputCommandFeedback reports port buffer states (0x82).
type PortOutputCommandFeedback struct {
	Envelope
	Feedbacks []PortFeedback
}

func (m *PortOutputCommandFeedback) Type() MessageType { return TypePortOutputCommandFeedback }

func (m *PortOutputCommandFeedback) Encode() ([]byte, error) {
	if len(m.Feedbacks) == 0 {
		return nil, emptyPayload(m.Type(), "feedback list")
	}
	p := make([]byte, 0, 2*len(m.Feedbacks))
	for _, fb := range m.Feedbacks {
		p = append(p, fb.PortID, byte(fb.Feedback))
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *PortOutputCommandFeedback) String() string {
	parts := make([]string, len(m.Feedbacks))
	for i, fb := range m.Feedbacks {
		parts[i] = fmt.Sprintf("0x%02X=%s", fb.PortID, fb.Feedback)
	}
	return fmt.Sprintf("PortOutputCommandFeedback{%s}", strings.Join(parts, " "))
}

func decodePortOutputCommandFeedback(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	p := f.payload
	if len(p)%2 != 0 {
		return nil, tooShort(f.Type, f.size(len(p)+1), f.size(len(p)))
	}
	m := &PortOutputCommandFeedback{Envelope: Envelope{HubID: f.HubID}}
	m.Feedbacks = make([]PortFeedback, 0, len(p)/2)
	for i := 0; i < len(p); i += 2 {
		m.Feedbacks = append(m.Feedbacks, PortFeedback{PortID: p[i], Feedback: Feedback(p[i+1])})
	}
	return m, nil
}
