package discovery

import (
	"errors"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/version"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

const (
	// ServiceType is the DNS-SD service type of hub emulators.
	ServiceType = "_lwp._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// BrowseTimeout is the default timeout of FindHub.
	BrowseTimeout = 5 * time.Second

	// DefaultTTL is the record TTL used when none is configured.
	DefaultTTL = 120 * time.Second
)

// TXT record keys.
const (
	TXTKeyName         = "name"
	TXTKeySystemDevice = "sd"
	TXTKeyCapabilities = "cap"
	TXTKeyLWP          = "lwp"
	TXTKeyFirmware     = "fw"
	TXTKeyMAC          = "mac"
)

var (
	ErrMissingRequired = errors.New("missing required TXT record")
	ErrInvalidTXT      = errors.New("invalid TXT record value")
	ErrEmptyName       = errors.New("empty hub name")
	ErrNotAdvertising  = errors.New("not advertising")
	ErrNotFound        = errors.New("hub not found")
)

// HubInfo describes an advertised hub.
type HubInfo struct {
	Name         string
	SystemDevice wire.SystemDevice
	Capabilities wire.DeviceCapabilities
	Protocol     version.ProtocolVersion

	// Firmware is omitted from the records when zero.
	Firmware version.Version

	// MAC is the primary MAC address in 00:16:53:AE:EE:AB form.
	MAC string

	// Port is the TCP port of the emulator.
	Port uint16
}

// HubService is a hub found while browsing.
type HubService struct {
	HubInfo
	InstanceName string
	Host         string
	Addresses    []string
}
