// Package output builds payloads for port output sub-commands.
//
// Each builder returns a Payload holding the sub-command code and its
// parameter bytes. Payload.Command wraps it into a wire.PortOutputCommand
// for a given port and execution byte:
//
//	cmd := output.StartSpeed(50, 100, output.ProfileNone).Command(0x00, wire.StartupExecuteImmediately|wire.CompletionCommandFeedback)
//	frame, err := cmd.Encode()
//
// Multi-byte parameters are little-endian. Speeds and powers are signed
// percentages in the range -100..100.
//
// The checksum used by the direct write sub-commands is applied by
// WriteDirect and WriteDirectModeData only. Encoding a PortOutputCommand
// never adds one.
package output
