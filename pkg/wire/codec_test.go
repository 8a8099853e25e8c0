package wire

import (
	"errors"
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"hub property", &HubProperty{Property: PropFWVersion, Operation: PropOpUpdate, Payload: []byte{0x17, 0x00, 0x00, 0x20}}},
		{"hub property no payload", &HubProperty{Property: PropButton, Operation: PropOpEnableUpdates}},
		{"hub property hub id", &HubProperty{Envelope: Envelope{HubID: 7}, Property: PropRSSI, Operation: PropOpRequestUpdate}},
		{"hub action", &HubAction{Action: ActionHubWillDisconnect}},
		{"hub alert request", &HubAlert{Alert: AlertOverPower, Operation: AlertOpRequestUpdate}},
		{"hub alert update", &HubAlert{Alert: AlertLowSignal, Operation: AlertOpUpdate, Payload: AlertActive}},
		{"attached", &HubAttachedIO{PortID: 0x32, Event: IOAttached, IOType: IORGBLight, HardwareRevision: 0x01000000, SoftwareRevision: 0x20000006}},
		{"attached virtual", &HubAttachedIO{PortID: 0x10, Event: IOAttachedVirtual, IOType: IOInternalMotorWithTacho, PortA: 0, PortB: 1}},
		{"detached", &HubAttachedIO{PortID: 0x02, Event: IODetached}},
		{"generic error", &GenericError{CommandType: TypePortOutputCommand, Code: ErrCodeBufferOverflow}},
		{"network", &HWNetworkCommand{Command: NetFamilySet, Payload: uint8(FamilyTeal)}},
		{"boot mode", &GoIntoBootMode{}},
		{"port info request", &PortInformationRequest{PortID: 1, Info: InfoPossibleModeCombinations}},
		{"port mode info request", &PortModeInformationRequest{PortID: 1, Mode: 2, Info: ModeInfoValueFormat}},
		{"input setup single", &PortInputFormatSetupSingle{InputFormat: InputFormat{PortID: 1, Mode: 2, Delta: 0x01020304, Notification: true}}},
		{"input single", &PortInputFormatSingle{InputFormat: InputFormat{PortID: 3, Mode: 0, Delta: 5}}},
		{"setup combined set", &PortInputFormatSetupCombined{PortID: 1, SubCommand: SetupSetModeAndDataSetCombinations, CombinationIndex: 1, Combinations: []ModeDataset{NewModeDataset(1, 0), NewModeDataset(2, 1)}}},
		{"setup combined single entry", &PortInputFormatSetupCombined{PortID: 1, SubCommand: SetupSetModeAndDataSetCombinations, Combinations: []ModeDataset{NewModeDataset(0, 0)}}},
		{"setup combined unlock", &PortInputFormatSetupCombined{PortID: 1, SubCommand: SetupUnlockMultiUpdateEnabled}},
		{"port info mode info", &PortInformation{PortID: 0, Info: InfoModeInfo, Capabilities: PortCapOutput | PortCapInput, ModeCount: 4, InputModes: 0x0E, OutputModes: 0x01}},
		{"port info combinations", &PortInformation{PortID: 0, Info: InfoPossibleModeCombinations, Combinations: []uint16{0x0006, 0x000E}}},
		{"mode name", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoName, Text: "SPEED"}},
		{"mode symbol", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoSymbol, Text: "DEG"}},
		{"mode name one byte", &PortModeInformation{PortID: 0, Mode: 0, Info: ModeInfoName, Text: "A"}},
		{"mode percent", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoPercent, Min: -100, Max: 100}},
		{"mode si", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoSI, Min: -360, Max: 360}},
		{"mode mapping", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoMapping, InputMapping: MappingRelative, OutputMapping: MappingAbsolute | MappingSupportsNull}},
		{"mode internal use", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoInternalUse, Data: []byte{1, 2, 3}}},
		{"mode motor bias", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoMotorBias, MotorBias: 30}},
		{"mode capability bits", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoCapabilityBits, CapabilityBits: [6]byte{1, 2, 3, 4, 5, 6}}},
		{"mode value format", &PortModeInformation{PortID: 0, Mode: 1, Info: ModeInfoValueFormat, Format: ValueFormat{Datasets: 1, Kind: KindU32, Figures: 4, Decimals: 0}}},
		{"value single", &PortValueSingle{Values: []PortValue{{PortID: 1, Value: U8(5)}, {PortID: 2, Value: U16(1000)}, {PortID: 3, Value: U32(70000)}, {PortID: 4, Value: F32(-1.5)}}}},
		{"value combined", &PortValueCombined{PortID: 1, BitPointer: 2, Values: []Value{U32(1), F32(2.5), U8(3), U16(4)}}},
		{"input combined", &PortInputFormatCombined{PortID: 1, Control: 0x80, CombinationIndex: 2, BitPointer: 0x0003}},
		{"virtual connect", &VirtualPortSetup{SubCommand: VirtualPortConnect, PortA: 0, PortB: 1}},
		{"virtual disconnect", &VirtualPortSetup{SubCommand: VirtualPortDisconnect, PortID: 0x10}},
		{"output command", &PortOutputCommand{PortID: 0, Startup: StartupExecuteImmediately | CompletionCommandFeedback, SubCommand: SubStartSpeedForDegrees, Payload: []byte{0x68, 0x01, 0x00, 0x00, 0x32, 0x64, 0x7F, 0x00}}},
		{"output command no payload", &PortOutputCommand{PortID: 0x10, SubCommand: SubHardwareReset}},
		{"feedback single", &PortOutputCommandFeedback{Feedbacks: []PortFeedback{{0x10, FeedbackInProgress | FeedbackBusyFull}}}},
		{"value single one entry", &PortValueSingle{Values: []PortValue{{PortID: 0x3B, Value: U8(0)}}}},
		{"feedback", &PortOutputCommandFeedback{Feedbacks: []PortFeedback{{0, FeedbackInProgress}, {1, FeedbackCompleted | FeedbackIdle}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got, want := int(data[0]), len(data); got != want {
				t.Errorf("length byte = %d, want %d", got, want)
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(decoded, tt.msg) {
				t.Errorf("round trip mismatch:\n got %v\nwant %v", decoded, tt.msg)
			}
			if decoded.Type() != tt.msg.Type() {
				t.Errorf("Type = %s, want %s", decoded.Type(), tt.msg.Type())
			}
			if decoded.Hub() != tt.msg.Hub() {
				t.Errorf("Hub = %d, want %d", decoded.Hub(), tt.msg.Hub())
			}
		})
	}
}

func TestEncodeRejectsUnknownShapes(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"attached event", &HubAttachedIO{PortID: 1, Event: 9}},
		{"port information type", &PortInformation{Info: InfoPortValue}},
		{"mode information type", &PortModeInformation{Info: 0x42}},
		{"virtual sub-command", &VirtualPortSetup{SubCommand: 5}},
		{"combined value kind", &PortValueCombined{BitPointer: 0, Values: []Value{U16(1)}}},
		{"single value kind", &PortValueSingle{Values: []PortValue{{PortID: 1, Value: Value{kind: 7}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.msg.Encode()
			if !errors.Is(err, ErrUnknownVariantShape) {
				t.Errorf("error = %v, want ErrUnknownVariantShape", err)
			}
		})
	}
}

func TestEncodeRejectsUndecodableEmptyPayloads(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{"feedback", &PortOutputCommandFeedback{}},
		{"value single", &PortValueSingle{}},
		{"mode name", &PortModeInformation{Info: ModeInfoName}},
		{"mode symbol", &PortModeInformation{Info: ModeInfoSymbol}},
		{"mode internal use", &PortModeInformation{Info: ModeInfoInternalUse}},
		{"setup combined set", &PortInputFormatSetupCombined{SubCommand: SetupSetModeAndDataSetCombinations}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.msg)
			if !errors.Is(err, ErrTooShort) {
				t.Errorf("Encode = % X, %v, want ErrTooShort", data, err)
			}
		})
	}
}

func TestEncodeNil(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Error("expected error for nil message")
	}
}

func TestDecodePortValueSingleFirstEntry(t *testing.T) {
	msg, err := Decode([]byte{0x06, 0x00, 0x45, 0x32, 0x01, 0x00})
	if err == nil {
		t.Fatalf("expected error for truncated u16, got %v", msg)
	}
	if !errors.Is(err, ErrTooShort) {
		t.Errorf("error = %v, want ErrTooShort", err)
	}

	msg, err = Decode([]byte{0x07, 0x00, 0x45, 0x32, 0x01, 0x00, 0x01})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	pv := msg.(*PortValueSingle)
	if len(pv.Values) != 1 {
		t.Fatalf("got %d entries, want 1", len(pv.Values))
	}
	if pv.Values[0].PortID != 0x32 {
		t.Errorf("PortID = 0x%02X, want 0x32", pv.Values[0].PortID)
	}
	if pv.Values[0].Value != U16(0x0100) {
		t.Errorf("Value = %v, want U16(256)", pv.Values[0].Value)
	}
}

func TestDecodeDetachedZeroFields(t *testing.T) {
	msg, err := Decode([]byte{0x05, 0x00, 0x04, 0x01, 0x00})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	io := msg.(*HubAttachedIO)
	want := &HubAttachedIO{PortID: 1, Event: IODetached}
	if !reflect.DeepEqual(io, want) {
		t.Errorf("got %v, want %v", io, want)
	}
}

func TestRawKeepsFrame(t *testing.T) {
	in := []byte{0x06, 0x00, 0x13, 0x01, 0x02, 0x03, 0xFF}
	msg, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	raw, ok := msg.(*Raw)
	if !ok {
		t.Fatalf("got %T, want *Raw", msg)
	}
	if raw.Type() != TypeFWLockStatus {
		t.Errorf("Type = %s, want FWLockStatus", raw.Type())
	}
	if len(raw.Frame) != 6 {
		t.Errorf("frame length = %d, want 6", len(raw.Frame))
	}

	in[3] = 0xEE
	if raw.Frame[3] != 0x01 {
		t.Error("Raw frame aliases the input buffer")
	}

	if _, err := (&Raw{}).Encode(); !errors.Is(err, ErrTooShort) {
		t.Errorf("empty Raw encode error = %v, want ErrTooShort", err)
	}
}

func TestMessageTypeKnown(t *testing.T) {
	if !TypePortValueSingle.Known() {
		t.Error("PortValueSingle should be known")
	}
	if TypeFWUpdateLockMemory.Known() {
		t.Error("FWUpdateLockMemory is passed through as Raw")
	}
	if got := MessageType(0x7F).String(); got != "MessageType(0x7F)" {
		t.Errorf("String() = %q", got)
	}
}
