package wire

import (
	"fmt"

	"github.com/google/uuid"
)

// GATT identifiers of the LWP hub.
var (
	HubServiceUUID        = uuid.MustParse("00001623-1212-EFDE-1623-785FEABCD123")
	HubCharacteristicUUID = uuid.MustParse("00001624-1212-EFDE-1623-785FEABCD123")
)

// ManufacturerID is the company identifier used in advertising data.
const ManufacturerID uint16 = 0x0397

// AdvertisingDataLen is the size of the manufacturer specific data.
const AdvertisingDataLen = 6

// AdvertisingData is the manufacturer specific part of a hub's
// advertisement.
type AdvertisingData struct {
	Button       bool
	SystemDevice SystemDevice
	Capabilities DeviceCapabilities
	LastNetwork  NetworkID
	Status       Status
	Option       uint8
}

// Bytes returns the 6-byte manufacturer data.
func (a AdvertisingData) Bytes() []byte {
	var button byte
	if a.Button {
		button = 1
	}
	return []byte{button, byte(a.SystemDevice), byte(a.Capabilities), byte(a.LastNetwork), byte(a.Status), a.Option}
}

// ParseAdvertisingData reads manufacturer data produced by Bytes.
func ParseAdvertisingData(b []byte) (AdvertisingData, error) {
	if len(b) < AdvertisingDataLen {
		return AdvertisingData{}, fmt.Errorf("advertising data: need %d bytes, got %d: %w", AdvertisingDataLen, len(b), ErrTooShort)
	}
	return AdvertisingData{
		Button:       b[0] != 0,
		SystemDevice: SystemDevice(b[1]),
		Capabilities: DeviceCapabilities(b[2]),
		LastNetwork:  NetworkID(b[3]),
		Status:       Status(b[4]),
		Option:       b[5],
	}, nil
}

func (a AdvertisingData) String() string {
	return fmt.Sprintf("button=%t %s caps=%s network=%s status=%s option=%d",
		a.Button, a.SystemDevice, a.Capabilities, a.LastNetwork, a.Status, a.Option)
}
