package hub

import (
	"embed"
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/lego-wireless/lwp-go/pkg/version"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

//go:embed profiles/*.yaml
var profileFS embed.FS

// DefaultProfile is the profile used when none is named.
const DefaultProfile = "move_hub"

// MaxNameLen is the longest advertising name a hub accepts, in bytes.
const MaxNameLen = 14

// MaxModes is the number of modes a port can describe in its mode masks.
const MaxModes = 16

// ErrInvalidProfile is returned for profiles that fail validation.
var ErrInvalidProfile = errors.New("invalid hub profile")

// Profile describes an emulated hub: its identity, the values of its hub
// properties and the I/O attached at power up.
type Profile struct {
	// ID is the file name the profile was loaded from, without extension.
	ID string `yaml:"-"`

	Name          string                  `yaml:"name"`
	SystemDevice  wire.SystemDevice       `yaml:"system_device"`
	Firmware      version.Version         `yaml:"firmware"`
	Hardware      version.Version         `yaml:"hardware"`
	Protocol      version.ProtocolVersion `yaml:"protocol"`
	Battery       uint8                   `yaml:"battery"`
	BatteryType   wire.BatteryType        `yaml:"battery_type"`
	RSSI          int8                    `yaml:"rssi"`
	Manufacturer  string                  `yaml:"manufacturer"`
	RadioFirmware string                  `yaml:"radio_firmware"`
	NetworkID     wire.NetworkID          `yaml:"network_id"`
	NetworkFamily wire.NetworkFamily      `yaml:"network_family"`
	PrimaryMAC    string                  `yaml:"primary_mac"`
	SecondaryMAC  string                  `yaml:"secondary_mac"`

	// Capabilities and Status are the advertising data bytes.
	Capabilities wire.DeviceCapabilities `yaml:"capabilities"`
	Status       wire.Status             `yaml:"status"`

	Ports   []PortDef    `yaml:"ports"`
	Virtual []VirtualDef `yaml:"virtual"`
}

// PortDef is an I/O device attached to a hub port.
type PortDef struct {
	ID       uint8           `yaml:"id"`
	IOType   wire.IOType     `yaml:"io_type"`
	Hardware version.Version `yaml:"hardware"`
	Software version.Version `yaml:"software"`

	Capabilities wire.PortCapabilities `yaml:"capabilities"`

	// Combinations lists the mode masks that can be combined.
	Combinations []uint16 `yaml:"combinations"`

	Modes []ModeDef `yaml:"modes"`
}

// ModeDef describes one mode of a port.
type ModeDef struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Input  bool   `yaml:"input"`
	Output bool   `yaml:"output"`

	Raw     Range `yaml:"raw"`
	Percent Range `yaml:"percent"`
	SI      Range `yaml:"si"`

	InputMapping  wire.Mapping `yaml:"input_mapping"`
	OutputMapping wire.Mapping `yaml:"output_mapping"`

	// MotorBias and CapabilityBits are only reported when set.
	MotorBias      *uint8 `yaml:"motor_bias"`
	CapabilityBits []byte `yaml:"capability_bits"`

	Format wire.ValueFormat `yaml:"format"`
}

// Range is the value range of a mode.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// VirtualDef is a virtual port formed from two ports at power up.
type VirtualDef struct {
	ID uint8 `yaml:"id"`
	A  uint8 `yaml:"a"`
	B  uint8 `yaml:"b"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

var (
	cacheMu sync.RWMutex
	cache   = make(map[string]*Profile)
)

// LoadProfile loads an embedded profile by name (e.g. "move_hub").
// The returned profile is shared and must not be modified.
func LoadProfile(name string) (*Profile, error) {
	cacheMu.RLock()
	if p, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return p, nil
	}
	cacheMu.RUnlock()

	data, err := profileFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("hub profile %q not found: %w", name, err)
	}

	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %q: %w", name, err)
	}
	p.ID = name

	cacheMu.Lock()
	cache[name] = p
	cacheMu.Unlock()

	return p, nil
}

// LoadProfileFile loads a profile from a YAML file on disk.
func LoadProfileFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	base := path[strings.LastIndexAny(path, `/\`)+1:]
	p.ID = strings.TrimSuffix(base, ".yaml")
	return p, nil
}

// ResolveProfile loads name as an embedded profile, or as a file when it
// ends in ".yaml".
func ResolveProfile(name string) (*Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	if strings.HasSuffix(name, ".yaml") {
		return LoadProfileFile(name)
	}
	return LoadProfile(name)
}

// AvailableProfiles returns the names of all embedded profiles.
func AvailableProfiles() ([]string, error) {
	entries, err := profileFS.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading profiles directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ParseProfile decodes and validates a YAML profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Validate checks the profile for values that cannot be put on the wire.
func (p *Profile) Validate() error {
	if p.Name == "" || len(p.Name) > MaxNameLen {
		return fmt.Errorf("%w: name %q must be 1 to %d bytes", ErrInvalidProfile, p.Name, MaxNameLen)
	}
	if p.Battery > 100 {
		return fmt.Errorf("%w: battery %d > 100", ErrInvalidProfile, p.Battery)
	}
	for _, v := range []version.Version{p.Firmware, p.Hardware} {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
	}
	if _, err := p.Protocol.Encode(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	for _, mac := range []string{p.PrimaryMAC, p.SecondaryMAC} {
		if _, err := parseMAC(mac); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
	}

	seen := make(map[uint8]bool)
	for _, port := range p.Ports {
		if seen[port.ID] {
			return fmt.Errorf("%w: duplicate port 0x%02X", ErrInvalidProfile, port.ID)
		}
		seen[port.ID] = true
		if err := port.validate(); err != nil {
			return fmt.Errorf("%w: port 0x%02X: %v", ErrInvalidProfile, port.ID, err)
		}
	}
	for _, v := range p.Virtual {
		if seen[v.ID] {
			return fmt.Errorf("%w: virtual port 0x%02X reuses a port id", ErrInvalidProfile, v.ID)
		}
		if !seen[v.A] || !seen[v.B] || v.A == v.B {
			return fmt.Errorf("%w: virtual port 0x%02X needs two distinct attached ports", ErrInvalidProfile, v.ID)
		}
		seen[v.ID] = true
	}
	return nil
}

func (d *PortDef) validate() error {
	if len(d.Modes) > MaxModes {
		return fmt.Errorf("%d modes > %d", len(d.Modes), MaxModes)
	}
	for _, v := range []version.Version{d.Hardware, d.Software} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	for i, m := range d.Modes {
		if m.Name == "" {
			return fmt.Errorf("mode %d has no name", i)
		}
		if m.Format.Kind.Size() == 0 {
			return fmt.Errorf("mode %s: %s", m.Name, m.Format.Kind)
		}
		if len(m.CapabilityBits) != 0 && len(m.CapabilityBits) != 6 {
			return fmt.Errorf("mode %s: capability bits need 6 bytes", m.Name)
		}
	}
	return nil
}

func parseMAC(s string) ([]byte, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil, err
	}
	if len(mac) != 6 {
		return nil, fmt.Errorf("mac %q: need 6 bytes", s)
	}
	return mac, nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Port returns the port with the given id.
func (p *Profile) Port(id uint8) (*PortDef, bool) {
	for i := range p.Ports {
		if p.Ports[i].ID == id {
			return &p.Ports[i], true
		}
	}
	return nil, false
}

// AdvertisingData returns the manufacturer data the hub advertises with
// its button released.
func (p *Profile) AdvertisingData() wire.AdvertisingData {
	return wire.AdvertisingData{
		SystemDevice: p.SystemDevice,
		Capabilities: p.Capabilities,
		LastNetwork:  p.NetworkID,
		Status:       p.Status,
	}
}

// ModeMasks returns the capability byte, mode count and input and output
// mode masks reported for InfoModeInfo.
func (d *PortDef) ModeMasks() (caps wire.PortCapabilities, count uint8, in, out uint16) {
	for i, m := range d.Modes {
		if m.Input {
			in |= 1 << i
		}
		if m.Output {
			out |= 1 << i
		}
	}
	return d.Capabilities, uint8(len(d.Modes)), in, out
}

// Attached returns the attach event announcing d.
func (d *PortDef) Attached() (*wire.HubAttachedIO, error) {
	hw, err := d.Hardware.Encode()
	if err != nil {
		return nil, err
	}
	sw, err := d.Software.Encode()
	if err != nil {
		return nil, err
	}
	return &wire.HubAttachedIO{
		PortID:           d.ID,
		Event:            wire.IOAttached,
		IOType:           d.IOType,
		HardwareRevision: int32(hw),
		SoftwareRevision: int32(sw),
	}, nil
}
