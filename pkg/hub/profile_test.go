package hub

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lego-wireless/lwp-go/pkg/version"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

const minimalProfile = `
name: Test Hub
system_device: TwoPortHub
firmware: 1.1.00.0004
hardware: 0.0.00.0001
protocol: "3.0"
battery: 80
primary_mac: "00:00:00:00:00:01"
secondary_mac: "00:00:00:00:00:02"
ports:
  - id: 0x00
    io_type: 0x0002
    hardware: 0.0.00.0001
    software: 0.0.00.0001
    modes:
      - name: LPF2-TRAIN
        output: true
        format: {datasets: 1, kind: 0, figures: 4}
`

func TestAvailableProfiles(t *testing.T) {
	names, err := AvailableProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"move_hub", "two_port_hub"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			p, err := LoadProfile(name)
			require.NoError(t, err)
			assert.Equal(t, name, p.ID)
			assert.NoError(t, p.Validate())
		})
	}
}

func TestLoadProfileCached(t *testing.T) {
	a, err := LoadProfile(DefaultProfile)
	require.NoError(t, err)
	b, err := LoadProfile(DefaultProfile)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = LoadProfile("no_such_hub")
	assert.Error(t, err)
}

func TestMoveHubProfile(t *testing.T) {
	p, err := LoadProfile("move_hub")
	require.NoError(t, err)

	assert.Equal(t, "Move Hub", p.Name)
	assert.Equal(t, wire.BoostHub, p.SystemDevice)
	assert.Equal(t, version.MustParse("2.0.00.0017"), p.Firmware)
	assert.Equal(t, version.ProtocolVersion{Major: 3, Minor: 0}, p.Protocol)
	assert.Equal(t, int8(-80), p.RSSI)

	motor, ok := p.Port(0x01)
	require.True(t, ok)
	require.Len(t, motor.Modes, 3)
	assert.Equal(t, "SPEED", motor.Modes[1].Name)

	// Both motors share the mode table through a YAML anchor.
	other, _ := p.Port(0x00)
	assert.Equal(t, other.Modes, motor.Modes)

	_, ok = p.Port(0x10)
	assert.False(t, ok, "virtual ports are not in Ports")
	require.Len(t, p.Virtual, 1)
	assert.Equal(t, VirtualDef{ID: 0x10, A: 0x00, B: 0x01}, p.Virtual[0])
}

func TestResolveProfile(t *testing.T) {
	p, err := ResolveProfile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, p.ID)

	path := filepath.Join(t.TempDir(), "train.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalProfile), 0o644))

	p, err = ResolveProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "train", p.ID)
	assert.Equal(t, "Test Hub", p.Name)
	assert.Equal(t, wire.IOSystemTrainMotor, p.Ports[0].IOType)
}

func TestParseProfileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		replace [2]string
	}{
		{"long name", [2]string{"name: Test Hub", "name: A Very Long Hub Name"}},
		{"battery", [2]string{"battery: 80", "battery: 101"}},
		{"firmware", [2]string{"firmware: 1.1.00.0004", "firmware: 8.0.00.0000"}},
		{"protocol", [2]string{`protocol: "3.0"`, `protocol: "300.0"`}},
		{"mac", [2]string{`primary_mac: "00:00:00:00:00:01"`, `primary_mac: "nope"`}},
		{"value kind", [2]string{"kind: 0", "kind: 7"}},
		{"mode name", [2]string{"name: LPF2-TRAIN", "name: \"\""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := strings.Replace(minimalProfile, tt.replace[0], tt.replace[1], 1)
			require.NotEqual(t, minimalProfile, data)
			_, err := ParseProfile([]byte(data))
			assert.Error(t, err)
		})
	}

	t.Run("duplicate port", func(t *testing.T) {
		data := minimalProfile + `
  - id: 0x00
    io_type: 0x0002
`
		_, err := ParseProfile([]byte(data))
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})

	t.Run("virtual port needs two ports", func(t *testing.T) {
		data := minimalProfile + `
virtual:
  - id: 0x10
    a: 0x00
    b: 0x01
`
		_, err := ParseProfile([]byte(data))
		assert.ErrorIs(t, err, ErrInvalidProfile)
	})
}

func TestPortDefModeMasks(t *testing.T) {
	p, err := LoadProfile("move_hub")
	require.NoError(t, err)

	motor, _ := p.Port(0x00)
	caps, count, in, out := motor.ModeMasks()
	assert.Equal(t, wire.PortCapabilities(0x0F), caps)
	assert.Equal(t, uint8(3), count)
	assert.Equal(t, uint16(0b110), in)
	assert.Equal(t, uint16(0b111), out)
}

func TestPortDefAttached(t *testing.T) {
	p, err := LoadProfile("move_hub")
	require.NoError(t, err)

	light, _ := p.Port(0x32)
	io, err := light.Attached()
	require.NoError(t, err)
	assert.Equal(t, wire.IOAttached, io.Event)
	assert.Equal(t, wire.IORGBLight, io.IOType)
	assert.Equal(t, int32(0x01000000), io.HardwareRevision)
	assert.Equal(t, int32(0x20000006), io.SoftwareRevision)
}

func TestProfileAdvertisingData(t *testing.T) {
	p, err := LoadProfile("move_hub")
	require.NoError(t, err)

	ad := p.AdvertisingData()
	assert.False(t, ad.Button)
	assert.Equal(t, wire.BoostHub, ad.SystemDevice)
	assert.Equal(t, wire.DeviceCapabilities(0x06), ad.Capabilities)
	assert.Equal(t, wire.Status(0x43), ad.Status)
}
