package wire

import "fmt"

// NetworkCommand is a H/W network sub-command.
type NetworkCommand uint8

const (
	NetConnectionRequest    NetworkCommand = 0x02
	NetFamilyRequest        NetworkCommand = 0x03
	NetFamilySet            NetworkCommand = 0x04
	NetJoinDenied           NetworkCommand = 0x05
	NetGetFamily            NetworkCommand = 0x06
	NetFamily               NetworkCommand = 0x07
	NetGetSubFamily         NetworkCommand = 0x08
	NetSubFamily            NetworkCommand = 0x09
	NetSubFamilySet         NetworkCommand = 0x0A
	NetGetExtendedFamily    NetworkCommand = 0x0B
	NetExtendedFamily       NetworkCommand = 0x0C
	NetExtendedFamilySet    NetworkCommand = 0x0D
	NetResetLongPressTiming NetworkCommand = 0x0E
)

var networkCommandNames = [...]string{
	"ConnectionRequest",
	"FamilyRequest",
	"FamilySet",
	"JoinDenied",
	"GetFamily",
	"Family",
	"GetSubFamily",
	"SubFamily",
	"SubFamilySet",
	"GetExtendedFamily",
	"ExtendedFamily",
	"ExtendedFamilySet",
	"ResetLongPressTiming",
}

func (c NetworkCommand) String() string {
	if c >= NetConnectionRequest && c <= NetResetLongPressTiming {
		return networkCommandNames[c-NetConnectionRequest]
	}
	return fmt.Sprintf("NetworkCommand(0x%02X)", uint8(c))
}

// NetworkFamily is the colour of a H/W network family.
type NetworkFamily uint8

const (
	FamilyWhite NetworkFamily = iota
	FamilyGreen
	FamilyYellow
	FamilyRed
	FamilyBlue
	FamilyPurple
	FamilyLightBlue
	FamilyTeal
	FamilyPink
)

var familyNames = [...]string{"White", "Green", "Yellow", "Red", "Blue", "Purple", "LightBlue", "Teal", "Pink"}

func (f NetworkFamily) String() string {
	if int(f) < len(familyNames) {
		return familyNames[f]
	}
	return fmt.Sprintf("NetworkFamily(%d)", uint8(f))
}

// NetworkSubFamily is the number of flashes identifying a sub-family.
type NetworkSubFamily uint8

const (
	SubFamilyOneFlash     NetworkSubFamily = 0x01
	SubFamilyTwoFlashes   NetworkSubFamily = 0x02
	SubFamilyThreeFlashes NetworkSubFamily = 0x03
	SubFamilyFourFlashes  NetworkSubFamily = 0x04
	SubFamilyFiveFlashes  NetworkSubFamily = 0x05
	SubFamilySixFlashes   NetworkSubFamily = 0x06
	SubFamilySevenFlashes NetworkSubFamily = 0x07
)

func (s NetworkSubFamily) String() string {
	if s >= SubFamilyOneFlash && s <= SubFamilySevenFlashes {
		return fmt.Sprintf("%dFlash", uint8(s))
	}
	return fmt.Sprintf("NetworkSubFamily(%d)", uint8(s))
}

// NetworkID is the last H/W network identifier. Values 1 to 250 name
// previous connections.
type NetworkID uint8

const (
	NetworkIDNone             NetworkID = 0
	NetworkIDLocked           NetworkID = 251
	NetworkIDNotLocked        NetworkID = 252
	NetworkIDRSSIDependent    NetworkID = 253
	NetworkIDDisableHWNetwork NetworkID = 254
	NetworkIDDontCare         NetworkID = 255
)

func (id NetworkID) String() string {
	switch id {
	case NetworkIDNone:
		return "None"
	case NetworkIDLocked:
		return "Locked"
	case NetworkIDNotLocked:
		return "NotLocked"
	case NetworkIDRSSIDependent:
		return "RSSIDependent"
	case NetworkIDDisableHWNetwork:
		return "DisableHWNetwork"
	case NetworkIDDontCare:
		return "DontCare"
	default:
		return fmt.Sprintf("LastConnection%d", uint8(id))
	}
}

// HWNetworkCommand carries a H/W network command (0x08). Payload holds the
// single command argument, for example a NetworkFamily for NetFamilySet.
type HWNetworkCommand struct {
	Envelope
	Command NetworkCommand
	Payload uint8
}

func (m *HWNetworkCommand) Type() MessageType { return TypeHWNetworkCommands }

func (m *HWNetworkCommand) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), []byte{byte(m.Command), m.Payload})
}

func (m *HWNetworkCommand) String() string {
	return fmt.Sprintf("HWNetworkCommand{%s payload=0x%02X}", m.Command, m.Payload)
}

func decodeHWNetworkCommand(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	return &HWNetworkCommand{
		Envelope: Envelope{HubID: f.HubID},
		Command:  NetworkCommand(f.payload[0]),
		Payload:  f.payload[1],
	}, nil
}
