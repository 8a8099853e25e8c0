package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		in   []byte
		want byte
	}{
		{nil, 0xFF},
		{[]byte{0xFF}, 0x00},
		{[]byte{0x01, 0x02}, 0xFC},
		{[]byte{0x10, 0x10}, 0xFF},
	}
	for _, tt := range tests {
		if got := Checksum(tt.in); got != tt.want {
			t.Errorf("Checksum(% X) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
		}
	}
}

func TestWriteDirect(t *testing.T) {
	p, err := WriteDirect([]byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("WriteDirect: %v", err)
	}
	if p.SubCommand != wire.SubWriteDirect {
		t.Errorf("SubCommand = %s", p.SubCommand)
	}
	if want := []byte{0x01, 0x02, 0xFC}; !bytes.Equal(p.Data, want) {
		t.Errorf("Data = % X, want % X", p.Data, want)
	}

	if _, err := WriteDirect(nil); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("WriteDirect(nil) err = %v, want ErrEmptyPayload", err)
	}
}

func TestWriteDirectModeData(t *testing.T) {
	p, err := WriteDirectModeData(0x05, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("WriteDirectModeData: %v", err)
	}
	if p.SubCommand != wire.SubWriteDirectModeData {
		t.Errorf("SubCommand = %s", p.SubCommand)
	}
	// The mode byte stays out of the checksum.
	if want := []byte{0x05, 0x01, 0x02, 0xFC}; !bytes.Equal(p.Data, want) {
		t.Errorf("Data = % X, want % X", p.Data, want)
	}

	if _, err := WriteDirectModeData(0x05, []byte{}); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("empty payload err = %v, want ErrEmptyPayload", err)
	}
}

func TestPayloads(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
		sub  wire.OutputSubCommand
		data []byte
	}{
		{"StartPower", StartPower(-100), wire.SubStartPower, []byte{0x9C}},
		{"StartPowerDual", StartPowerDual(10, -10), wire.SubStartPowerDual, []byte{0x0A, 0xF6}},
		{"SetAccTime", SetAccTime(1000, 1), wire.SubSetAccTime, []byte{0xE8, 0x03, 0x01}},
		{"SetDecTime", SetDecTime(0x0102, 2), wire.SubSetDecTime, []byte{0x02, 0x01, 0x02}},
		{"StartSpeed", StartSpeed(50, 100, ProfileBoth), wire.SubStartSpeed, []byte{0x32, 0x64, 0x03}},
		{"StartSpeedDual", StartSpeedDual(50, -50, 100, ProfileNone), wire.SubStartSpeedDual, []byte{0x32, 0xCE, 0x64, 0x00}},
		{
			"StartSpeedForTime",
			StartSpeedForTime(1000, 50, 100, EndBrake, ProfileBoth),
			wire.SubStartSpeedForTime,
			[]byte{0xE8, 0x03, 0x32, 0x64, 0x7F, 0x03},
		},
		{
			"StartSpeedForTimeDual",
			StartSpeedForTimeDual(1000, 50, 40, 100, EndHold, ProfileAcc),
			wire.SubStartSpeedForTimeDual,
			[]byte{0xE8, 0x03, 0x32, 0x28, 0x64, 0x7E, 0x01},
		},
		{
			"StartSpeedForDegrees",
			StartSpeedForDegrees(360, 50, 100, EndFloat, ProfileDec),
			wire.SubStartSpeedForDegrees,
			[]byte{0x68, 0x01, 0x00, 0x00, 0x32, 0x64, 0x00, 0x02},
		},
		{
			"StartSpeedForDegreesDual",
			StartSpeedForDegreesDual(360, 50, 50, 100, EndFloat, ProfileNone),
			wire.SubStartSpeedForDegreesDual,
			[]byte{0x68, 0x01, 0x00, 0x00, 0x32, 0x32, 0x64, 0x00, 0x00},
		},
		{
			"GotoAbsolutePosition",
			GotoAbsolutePosition(-1, 20, 100, EndHold, ProfileNone),
			wire.SubGotoAbsolutePosition,
			[]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x14, 0x64, 0x7E, 0x00},
		},
		{
			"GotoAbsolutePositionDual",
			GotoAbsolutePositionDual(1, 2, 20, 100, EndHold, ProfileNone),
			wire.SubGotoAbsolutePositionDual,
			[]byte{0x01, 0, 0, 0, 0x02, 0, 0, 0, 0x14, 0x64, 0x7E, 0x00},
		},
		{"PresetEncoder", PresetEncoder(0x0100), wire.SubPresetEncoder, []byte{0x00, 0x01, 0x00, 0x00}},
		{"PresetEncoderDual", PresetEncoderDual(1, -1), wire.SubPresetEncoder, []byte{0x01, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"TiltImpactPreset", TiltImpactPreset(3), wire.SubTiltImpactPreset, []byte{0x03, 0, 0, 0}},
		{"TiltConfigOrientation", TiltConfigOrientation(2), wire.SubTiltConfigOrientation, []byte{0x02}},
		{"TiltConfigImpact", TiltConfigImpact(10, 20), wire.SubTiltConfigImpact, []byte{0x0A, 0x14}},
		{
			"TiltFactoryCalibration",
			TiltFactoryCalibration(1),
			wire.SubTiltFactoryCalibration,
			append([]byte{0x01}, "Calib-Sensor"...),
		},
		{"HardwareReset", HardwareReset(), wire.SubHardwareReset, nil},
		{"SetRgbColorNo", SetRgbColorNo(9), wire.SubSetRgbColorNo, []byte{0x09}},
		{"SetRgbColors", SetRgbColors(1, 2, 3), wire.SubSetRgbColors, []byte{0x01, 0x02, 0x03}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.p.SubCommand != tt.sub {
				t.Errorf("SubCommand = %s, want %s", tt.p.SubCommand, tt.sub)
			}
			if !bytes.Equal(tt.p.Data, tt.data) {
				t.Errorf("Data = % X, want % X", tt.p.Data, tt.data)
			}
		})
	}
}

func TestPayloadCommand(t *testing.T) {
	p := StartSpeedForTime(1000, 50, 100, EndBrake, ProfileBoth)
	cmd := p.Command(0x00, wire.StartupExecuteImmediately|wire.CompletionCommandFeedback)

	got, err := cmd.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x0C, 0x00, 0x81, 0x00, 0x11, 0x09, 0xE8, 0x03, 0x32, 0x64, 0x7F, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % X, want % X", got, want)
	}

	// The command owns its payload.
	cmd.Payload[0] = 0
	if p.Data[0] != 0xE8 {
		t.Error("Command shares the payload slice")
	}
}

func TestDuration(t *testing.T) {
	cmd := StartSpeedForTime(1500, 50, 100, EndBrake, ProfileNone).Command(0, 0)
	d, ok := Duration(cmd)
	if !ok || d != 1500*time.Millisecond {
		t.Errorf("Duration = %v, %v; want 1.5s, true", d, ok)
	}

	dual := StartSpeedForTimeDual(250, 50, 50, 100, EndBrake, ProfileNone).Command(0, 0)
	if d, ok := Duration(dual); !ok || d != 250*time.Millisecond {
		t.Errorf("dual Duration = %v, %v", d, ok)
	}

	if _, ok := Duration(StartSpeed(1, 1, 0).Command(0, 0)); ok {
		t.Error("StartSpeed reported a duration")
	}
	short := &wire.PortOutputCommand{SubCommand: wire.SubStartSpeedForTime, Payload: []byte{0x01}}
	if _, ok := Duration(short); ok {
		t.Error("short payload reported a duration")
	}
}

func TestEndStateString(t *testing.T) {
	if EndBrake.String() != "Brake" || EndHold.String() != "Hold" || EndFloat.String() != "Float" {
		t.Error("unexpected end state names")
	}
	if got := EndState(5).String(); got != "EndState(5)" {
		t.Errorf("EndState(5) = %q", got)
	}
}
