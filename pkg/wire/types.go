package wire

import "fmt"

// MessageType identifies the payload layout of a message.
type MessageType uint8

const (
	// Hub related messages.
	TypeHubProperties     MessageType = 0x01
	TypeHubActions        MessageType = 0x02
	TypeHubAlerts         MessageType = 0x03
	TypeHubAttachedIO     MessageType = 0x04
	TypeGenericError      MessageType = 0x05
	TypeHWNetworkCommands MessageType = 0x08

	// Firmware update messages. The lock messages are forwarded as Raw.
	TypeFWUpdateGoIntoBootMode MessageType = 0x10
	TypeFWUpdateLockMemory     MessageType = 0x11
	TypeFWUpdateLockStatusReq  MessageType = 0x12
	TypeFWLockStatus           MessageType = 0x13

	// Port information requests.
	TypePortInformationRequest     MessageType = 0x21
	TypePortModeInformationRequest MessageType = 0x22

	// Port input format setup.
	TypePortInputFormatSetupSingle   MessageType = 0x41
	TypePortInputFormatSetupCombined MessageType = 0x42

	// Port information replies and values.
	TypePortInformation         MessageType = 0x43
	TypePortModeInformation     MessageType = 0x44
	TypePortValueSingle         MessageType = 0x45
	TypePortValueCombined       MessageType = 0x46
	TypePortInputFormatSingle   MessageType = 0x47
	TypePortInputFormatCombined MessageType = 0x48

	TypeVirtualPortSetup MessageType = 0x61

	// Output.
	TypePortOutputCommand         MessageType = 0x81
	TypePortOutputCommandFeedback MessageType = 0x82
)

var messageTypeNames = map[MessageType]string{
	TypeHubProperties:                "HubProperties",
	TypeHubActions:                   "HubActions",
	TypeHubAlerts:                    "HubAlerts",
	TypeHubAttachedIO:                "HubAttachedIO",
	TypeGenericError:                 "GenericError",
	TypeHWNetworkCommands:            "HWNetworkCommands",
	TypeFWUpdateGoIntoBootMode:       "FWUpdateGoIntoBootMode",
	TypeFWUpdateLockMemory:           "FWUpdateLockMemory",
	TypeFWUpdateLockStatusReq:        "FWUpdateLockStatusRequest",
	TypeFWLockStatus:                 "FWLockStatus",
	TypePortInformationRequest:       "PortInformationRequest",
	TypePortModeInformationRequest:   "PortModeInformationRequest",
	TypePortInputFormatSetupSingle:   "PortInputFormatSetupSingle",
	TypePortInputFormatSetupCombined: "PortInputFormatSetupCombinedMode",
	TypePortInformation:              "PortInformation",
	TypePortModeInformation:          "PortModeInformation",
	TypePortValueSingle:              "PortValueSingle",
	TypePortValueCombined:            "PortValueCombinedMode",
	TypePortInputFormatSingle:        "PortInputFormatSingle",
	TypePortInputFormatCombined:      "PortInputFormatCombinedMode",
	TypeVirtualPortSetup:             "VirtualPortSetup",
	TypePortOutputCommand:            "PortOutputCommand",
	TypePortOutputCommandFeedback:    "PortOutputCommandFeedback",
}

// String returns the message type name.
func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(0x%02X)", uint8(t))
}

// Known reports whether Decode has a typed decoder for t.
func (t MessageType) Known() bool {
	_, ok := decoders[t]
	return ok
}
