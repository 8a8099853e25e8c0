package output

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// EndState is what a motor does after a timed or positioned command.
type EndState uint8

const (
	EndFloat EndState = 0
	EndHold  EndState = 126
	EndBrake EndState = 127
)

func (e EndState) String() string {
	switch e {
	case EndFloat:
		return "Float"
	case EndHold:
		return "Hold"
	case EndBrake:
		return "Brake"
	}
	return fmt.Sprintf("EndState(%d)", uint8(e))
}

// Profile selects the acceleration and deceleration profiles a speed
// command uses.
type Profile uint8

const (
	ProfileNone Profile = 0
	ProfileAcc  Profile = 0x01
	ProfileDec  Profile = 0x02
	ProfileBoth         = ProfileAcc | ProfileDec
)

// CalibrationPasscode must accompany a tilt factory calibration.
const CalibrationPasscode = "Calib-Sensor"

// Payload is the sub-command code plus its parameter bytes.
type Payload struct {
	SubCommand wire.OutputSubCommand
	Data       []byte
}

// Command wraps the payload into a port output command.
func (p Payload) Command(port uint8, startup wire.StartupCompletion) *wire.PortOutputCommand {
	return &wire.PortOutputCommand{
		PortID:     port,
		Startup:    startup,
		SubCommand: p.SubCommand,
		Payload:    append([]byte(nil), p.Data...),
	}
}

func (p Payload) String() string {
	return fmt.Sprintf("%s(% X)", p.SubCommand, p.Data)
}

func u16(b []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(b, v) }
func i32(b []byte, v int32) []byte  { return binary.LittleEndian.AppendUint32(b, uint32(v)) }

func StartPower(power int8) Payload {
	return Payload{SubCommand: wire.SubStartPower, Data: []byte{byte(power)}}
}

func StartPowerDual(powerL, powerR int8) Payload {
	return Payload{SubCommand: wire.SubStartPowerDual, Data: []byte{byte(powerL), byte(powerR)}}
}

// SetAccTime sets the time in milliseconds from 0 to 100% speed for
// the given profile number.
func SetAccTime(ms uint16, profile uint8) Payload {
	return Payload{SubCommand: wire.SubSetAccTime, Data: append(u16(nil, ms), profile)}
}

// SetDecTime sets the time in milliseconds from 100% to 0 speed.
func SetDecTime(ms uint16, profile uint8) Payload {
	return Payload{SubCommand: wire.SubSetDecTime, Data: append(u16(nil, ms), profile)}
}

func StartSpeed(speed int8, maxPower uint8, profile Profile) Payload {
	return Payload{SubCommand: wire.SubStartSpeed, Data: []byte{byte(speed), maxPower, byte(profile)}}
}

func StartSpeedDual(speedL, speedR int8, maxPower uint8, profile Profile) Payload {
	return Payload{
		SubCommand: wire.SubStartSpeedDual,
		Data:       []byte{byte(speedL), byte(speedR), maxPower, byte(profile)},
	}
}

func StartSpeedForTime(ms uint16, speed int8, maxPower uint8, end EndState, profile Profile) Payload {
	b := u16(make([]byte, 0, 6), ms)
	b = append(b, byte(speed), maxPower, byte(end), byte(profile))
	return Payload{SubCommand: wire.SubStartSpeedForTime, Data: b}
}

func StartSpeedForTimeDual(ms uint16, speedL, speedR int8, maxPower uint8, end EndState, profile Profile) Payload {
	b := u16(make([]byte, 0, 7), ms)
	b = append(b, byte(speedL), byte(speedR), maxPower, byte(end), byte(profile))
	return Payload{SubCommand: wire.SubStartSpeedForTimeDual, Data: b}
}

func StartSpeedForDegrees(degrees int32, speed int8, maxPower uint8, end EndState, profile Profile) Payload {
	b := i32(make([]byte, 0, 8), degrees)
	b = append(b, byte(speed), maxPower, byte(end), byte(profile))
	return Payload{SubCommand: wire.SubStartSpeedForDegrees, Data: b}
}

func StartSpeedForDegreesDual(degrees int32, speedL, speedR int8, maxPower uint8, end EndState, profile Profile) Payload {
	b := i32(make([]byte, 0, 9), degrees)
	b = append(b, byte(speedL), byte(speedR), maxPower, byte(end), byte(profile))
	return Payload{SubCommand: wire.SubStartSpeedForDegreesDual, Data: b}
}

func GotoAbsolutePosition(position int32, speed int8, maxPower uint8, end EndState, profile Profile) Payload {
	b := i32(make([]byte, 0, 8), position)
	b = append(b, byte(speed), maxPower, byte(end), byte(profile))
	return Payload{SubCommand: wire.SubGotoAbsolutePosition, Data: b}
}

func GotoAbsolutePositionDual(positionL, positionR int32, speed int8, maxPower uint8, end EndState, profile Profile) Payload {
	b := i32(make([]byte, 0, 12), positionL)
	b = i32(b, positionR)
	b = append(b, byte(speed), maxPower, byte(end), byte(profile))
	return Payload{SubCommand: wire.SubGotoAbsolutePositionDual, Data: b}
}

// PresetEncoder sets the encoder of a single motor. The dual form uses
// the same sub-command code and is told apart by its payload length.
func PresetEncoder(position int32) Payload {
	return Payload{SubCommand: wire.SubPresetEncoder, Data: i32(nil, position)}
}

func PresetEncoderDual(positionL, positionR int32) Payload {
	return Payload{SubCommand: wire.SubPresetEncoder, Data: i32(i32(nil, positionL), positionR)}
}

func TiltImpactPreset(count int32) Payload {
	return Payload{SubCommand: wire.SubTiltImpactPreset, Data: i32(nil, count)}
}

func TiltConfigOrientation(orientation uint8) Payload {
	return Payload{SubCommand: wire.SubTiltConfigOrientation, Data: []byte{orientation}}
}

func TiltConfigImpact(threshold, holdoff int8) Payload {
	return Payload{SubCommand: wire.SubTiltConfigImpact, Data: []byte{byte(threshold), byte(holdoff)}}
}

func TiltFactoryCalibration(orientation uint8) Payload {
	b := append([]byte{orientation}, CalibrationPasscode...)
	return Payload{SubCommand: wire.SubTiltFactoryCalibration, Data: b}
}

func HardwareReset() Payload {
	return Payload{SubCommand: wire.SubHardwareReset}
}

func SetRgbColorNo(color uint8) Payload {
	return Payload{SubCommand: wire.SubSetRgbColorNo, Data: []byte{color}}
}

func SetRgbColors(r, g, b uint8) Payload {
	return Payload{SubCommand: wire.SubSetRgbColors, Data: []byte{r, g, b}}
}

// Duration returns how long a timed speed command runs. ok is false for
// every other sub-command or when the payload is too short to carry a
// time.
func Duration(cmd *wire.PortOutputCommand) (d time.Duration, ok bool) {
	switch cmd.SubCommand {
	case wire.SubStartSpeedForTime, wire.SubStartSpeedForTimeDual:
	default:
		return 0, false
	}
	if len(cmd.Payload) < 2 {
		return 0, false
	}
	ms := binary.LittleEndian.Uint16(cmd.Payload)
	return time.Duration(ms) * time.Millisecond, true
}
