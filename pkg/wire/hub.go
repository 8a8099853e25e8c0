package wire

import "fmt"

// Property identifies a hub property.
type Property uint8

const (
	PropAdvertisingName      Property = 0x01
	PropButton               Property = 0x02
	PropFWVersion            Property = 0x03
	PropHWVersion            Property = 0x04
	PropRSSI                 Property = 0x05
	PropBatteryVoltage       Property = 0x06
	PropBatteryType          Property = 0x07
	PropManufacturerName     Property = 0x08
	PropRadioFirmwareVersion Property = 0x09
	PropLWPVersion           Property = 0x0A
	PropSystemTypeID         Property = 0x0B
	PropHWNetworkID          Property = 0x0C
	PropPrimaryMAC           Property = 0x0D
	PropSecondaryMAC         Property = 0x0E
	PropHWNetworkFamily      Property = 0x0F
)

var propertyNames = map[Property]string{
	PropAdvertisingName:      "AdvertisingName",
	PropButton:               "Button",
	PropFWVersion:            "FWVersion",
	PropHWVersion:            "HWVersion",
	PropRSSI:                 "RSSI",
	PropBatteryVoltage:       "BatteryVoltage",
	PropBatteryType:          "BatteryType",
	PropManufacturerName:     "ManufacturerName",
	PropRadioFirmwareVersion: "RadioFirmwareVersion",
	PropLWPVersion:           "LWPVersion",
	PropSystemTypeID:         "SystemTypeID",
	PropHWNetworkID:          "HWNetworkID",
	PropPrimaryMAC:           "PrimaryMAC",
	PropSecondaryMAC:         "SecondaryMAC",
	PropHWNetworkFamily:      "HWNetworkFamily",
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Property(0x%02X)", uint8(p))
}

// Properties lists every defined hub property in code order.
func Properties() []Property {
	out := make([]Property, 0, len(propertyNames))
	for p := PropAdvertisingName; p <= PropHWNetworkFamily; p++ {
		out = append(out, p)
	}
	return out
}

// PropertyOperation is the operation applied to a hub property.
type PropertyOperation uint8

const (
	PropOpSet            PropertyOperation = 0x01
	PropOpEnableUpdates  PropertyOperation = 0x02
	PropOpDisableUpdates PropertyOperation = 0x03
	PropOpReset          PropertyOperation = 0x04
	PropOpRequestUpdate  PropertyOperation = 0x05
	PropOpUpdate         PropertyOperation = 0x06
)

func (o PropertyOperation) String() string {
	switch o {
	case PropOpSet:
		return "Set"
	case PropOpEnableUpdates:
		return "EnableUpdates"
	case PropOpDisableUpdates:
		return "DisableUpdates"
	case PropOpReset:
		return "Reset"
	case PropOpRequestUpdate:
		return "RequestUpdate"
	case PropOpUpdate:
		return "Update"
	default:
		return fmt.Sprintf("PropertyOperation(%d)", uint8(o))
	}
}

// HubProperty sets, requests or reports a hub property (0x01).
type HubProperty struct {
	Envelope
	Property  Property
	Operation PropertyOperation

	// Payload is the property value. Its layout depends on Property.
	Payload []byte
}

func (m *HubProperty) Type() MessageType { return TypeHubProperties }

func (m *HubProperty) Encode() ([]byte, error) {
	p := make([]byte, 0, 2+len(m.Payload))
	p = append(p, byte(m.Property), byte(m.Operation))
	p = append(p, m.Payload...)
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *HubProperty) String() string {
	return fmt.Sprintf("HubProperty{%s %s payload=% X}", m.Property, m.Operation, m.Payload)
}

func decodeHubProperty(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	m := &HubProperty{
		Envelope:  Envelope{HubID: f.HubID},
		Property:  Property(f.payload[0]),
		Operation: PropertyOperation(f.payload[1]),
	}
	if len(f.payload) > 2 {
		m.Payload = append([]byte(nil), f.payload[2:]...)
	}
	return m, nil
}

// ActionType is a hub action. Values from 0x30 are sent by the hub.
type ActionType uint8

const (
	ActionSwitchOffHub          ActionType = 0x01
	ActionDisconnect            ActionType = 0x02
	ActionVCCPortControlOn      ActionType = 0x03
	ActionVCCPortControlOff     ActionType = 0x04
	ActionActivateBusyIndicator ActionType = 0x05
	ActionResetBusyIndicator    ActionType = 0x06
	ActionShutdown              ActionType = 0x2F
	ActionHubWillSwitchOff      ActionType = 0x30
	ActionHubWillDisconnect     ActionType = 0x31
	ActionHubWillGoIntoBootMode ActionType = 0x32
)

func (a ActionType) String() string {
	switch a {
	case ActionSwitchOffHub:
		return "SwitchOffHub"
	case ActionDisconnect:
		return "Disconnect"
	case ActionVCCPortControlOn:
		return "VCCPortControlOn"
	case ActionVCCPortControlOff:
		return "VCCPortControlOff"
	case ActionActivateBusyIndicator:
		return "ActivateBusyIndicator"
	case ActionResetBusyIndicator:
		return "ResetBusyIndicator"
	case ActionShutdown:
		return "Shutdown"
	case ActionHubWillSwitchOff:
		return "HubWillSwitchOff"
	case ActionHubWillDisconnect:
		return "HubWillDisconnect"
	case ActionHubWillGoIntoBootMode:
		return "HubWillGoIntoBootMode"
	default:
		return fmt.Sprintf("ActionType(0x%02X)", uint8(a))
	}
}

// HubAction requests or announces a hub action (0x02).
type HubAction struct {
	Envelope
	Action ActionType
}

func (m *HubAction) Type() MessageType { return TypeHubActions }

func (m *HubAction) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), []byte{byte(m.Action)})
}

func (m *HubAction) String() string {
	return fmt.Sprintf("HubAction{%s}", m.Action)
}

func decodeHubAction(f frame) (Message, error) {
	if err := f.need(1); err != nil {
		return nil, err
	}
	return &HubAction{Envelope: Envelope{HubID: f.HubID}, Action: ActionType(f.payload[0])}, nil
}

// AlertType identifies a hub alert.
type AlertType uint8

const (
	AlertLowVoltage  AlertType = 0x01
	AlertHighCurrent AlertType = 0x02
	AlertLowSignal   AlertType = 0x03
	AlertOverPower   AlertType = 0x04
)

func (a AlertType) String() string {
	switch a {
	case AlertLowVoltage:
		return "LowVoltage"
	case AlertHighCurrent:
		return "HighCurrent"
	case AlertLowSignal:
		return "LowSignalStrength"
	case AlertOverPower:
		return "OverPowerCondition"
	default:
		return fmt.Sprintf("AlertType(%d)", uint8(a))
	}
}

// AlertOperation is the operation applied to a hub alert.
type AlertOperation uint8

const (
	AlertOpEnableUpdates  AlertOperation = 0x01
	AlertOpDisableUpdates AlertOperation = 0x02
	AlertOpRequestUpdate  AlertOperation = 0x03
	AlertOpUpdate         AlertOperation = 0x04
)

func (o AlertOperation) String() string {
	switch o {
	case AlertOpEnableUpdates:
		return "EnableUpdates"
	case AlertOpDisableUpdates:
		return "DisableUpdates"
	case AlertOpRequestUpdate:
		return "RequestUpdate"
	case AlertOpUpdate:
		return "Update"
	default:
		return fmt.Sprintf("AlertOperation(%d)", uint8(o))
	}
}

// AlertPayload is the alert status carried by updates.
type AlertPayload uint8

const (
	AlertStatusOK AlertPayload = 0x00
	AlertActive   AlertPayload = 0xFF
)

func (p AlertPayload) String() string {
	switch p {
	case AlertStatusOK:
		return "StatusOK"
	case AlertActive:
		return "Alert"
	default:
		return fmt.Sprintf("AlertPayload(0x%02X)", uint8(p))
	}
}

// HubAlert configures or reports a hub alert (0x03). Payload is only
// transmitted with AlertOpUpdate.
type HubAlert struct {
	Envelope
	Alert     AlertType
	Operation AlertOperation
	Payload   AlertPayload
}

func (m *HubAlert) Type() MessageType { return TypeHubAlerts }

func (m *HubAlert) Encode() ([]byte, error) {
	p := []byte{byte(m.Alert), byte(m.Operation)}
	if m.Operation == AlertOpUpdate {
		p = append(p, byte(m.Payload))
	}
	return encodeFrame(m.HubID, m.Type(), p)
}

func (m *HubAlert) String() string {
	if m.Operation == AlertOpUpdate {
		return fmt.Sprintf("HubAlert{%s %s %s}", m.Alert, m.Operation, m.Payload)
	}
	return fmt.Sprintf("HubAlert{%s %s}", m.Alert, m.Operation)
}

func decodeHubAlert(f frame) (Message, error) {
	if err := f.need(2); err != nil {
		return nil, err
	}
	m := &HubAlert{
		Envelope:  Envelope{HubID: f.HubID},
		Alert:     AlertType(f.payload[0]),
		Operation: AlertOperation(f.payload[1]),
	}
	if len(f.payload) > 2 {
		m.Payload = AlertPayload(f.payload[2])
	}
	return m, nil
}
