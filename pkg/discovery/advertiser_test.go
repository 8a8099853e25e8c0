package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvertiserIdle(t *testing.T) {
	a := NewAdvertiser(AdvertiserConfig{})
	assert.Equal(t, DefaultTTL, a.config.TTL)
	assert.False(t, a.Advertising())
	assert.ErrorIs(t, a.Update(moveHubInfo()), ErrNotAdvertising)
	a.Stop()
}

func TestAdvertiserRejectsEmptyName(t *testing.T) {
	a := NewAdvertiser(AdvertiserConfig{})
	assert.ErrorIs(t, a.Advertise(HubInfo{}), ErrEmptyName)
	assert.False(t, a.Advertising())
}

// TestAdvertiseAndBrowse uses the host's multicast interfaces.
func TestAdvertiseAndBrowse(t *testing.T) {
	if testing.Short() {
		t.Skip("needs multicast networking")
	}

	a := NewAdvertiser(AdvertiserConfig{})
	info := moveHubInfo()
	info.Name = "lwp-go test hub"
	if err := a.Advertise(info); err != nil {
		t.Skipf("mDNS unavailable: %v", err)
	}
	defer a.Stop()
	require.True(t, a.Advertising())

	info.Firmware.Build = 1
	require.NoError(t, a.Update(info))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	svc, err := NewBrowser(BrowserConfig{}).FindHub(ctx, info.Name)
	if err != nil {
		t.Skipf("hub not visible on this host: %v", err)
	}
	assert.Equal(t, info.SystemDevice, svc.SystemDevice)
	assert.Equal(t, uint16(4343), svc.Port)
}
