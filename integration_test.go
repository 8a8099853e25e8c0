package lwp_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lego-wireless/lwp-go/pkg/discovery"
	"github.com/lego-wireless/lwp-go/pkg/hub"
	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/output"
	"github.com/lego-wireless/lwp-go/pkg/transport"
	"github.com/lego-wireless/lwp-go/pkg/version"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// host is the test side of a TCP link to the emulator. Its helpers take
// the *testing.T of the (sub)test they run in.
type host struct {
	link *transport.StreamLink
	msgs chan wire.Message
}

func dialHost(t *testing.T, address string) *host {
	t.Helper()
	link, err := transport.Dial(context.Background(), address, transport.StreamConfig{})
	require.NoError(t, err)

	h := &host{link: link, msgs: make(chan wire.Message, 64)}
	link.OnIncoming(func(frame []byte) {
		msg, err := wire.Decode(frame)
		if assert.NoError(t, err) {
			h.msgs <- msg
		}
	})
	link.Start()
	t.Cleanup(func() { link.Close() })
	return h
}

func (h *host) send(t *testing.T, msg wire.Message) {
	t.Helper()
	frame, err := wire.Encode(msg)
	require.NoError(t, err)
	require.NoError(t, h.link.Notify(frame))
}

func (h *host) sendRaw(t *testing.T, frame []byte) {
	t.Helper()
	require.NoError(t, h.link.Notify(frame))
}

func (h *host) next(t *testing.T) wire.Message {
	t.Helper()
	select {
	case msg := <-h.msgs:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message from the hub")
		return nil
	}
}

func (h *host) feedback(t *testing.T) wire.Feedback {
	t.Helper()
	msg, ok := h.next(t).(*wire.PortOutputCommandFeedback)
	require.True(t, ok, "expected feedback")
	require.Len(t, msg.Feedbacks, 1)
	return msg.Feedbacks[0].Feedback
}

// TestE2E_HubOverTCP runs a host against the emulator and checks the
// protocol capture written along the way.
func TestE2E_HubOverTCP(t *testing.T) {
	capture := filepath.Join(t.TempDir(), "session"+log.FileExt)
	fl, err := log.NewFileLogger(capture)
	require.NoError(t, err)

	profile, err := hub.ResolveProfile("move_hub")
	require.NoError(t, err)

	srv := transport.NewServer(transport.ServerConfig{Address: "127.0.0.1:0", Logger: fl})
	emu, err := hub.New(srv, hub.Config{
		Profile:         profile,
		CommandDuration: time.Minute,
		ProtocolLogger:  fl,
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))

	h := dialHost(t, srv.Addr().String())

	// The hub announces every profile port, virtual ones included, on
	// connect.
	attached := map[uint8]wire.IOEvent{}
	for range len(profile.Ports) + len(profile.Virtual) {
		msg, ok := h.next(t).(*wire.HubAttachedIO)
		require.True(t, ok)
		attached[msg.PortID] = msg.Event
	}
	assert.Len(t, attached, len(profile.Ports)+len(profile.Virtual))
	assert.Equal(t, wire.IOAttached, attached[0x00])
	assert.Equal(t, wire.IOAttachedVirtual, attached[0x10])

	t.Run("property request", func(t *testing.T) {
		want, err := profile.Protocol.Bytes()
		require.NoError(t, err)

		h.send(t, &wire.HubProperty{Property: wire.PropLWPVersion, Operation: wire.PropOpRequestUpdate})
		reply, ok := h.next(t).(*wire.HubProperty)
		require.True(t, ok)
		assert.Equal(t, wire.PropOpUpdate, reply.Operation)
		assert.Equal(t, want, reply.Payload)
	})

	t.Run("timed command completes", func(t *testing.T) {
		cmd := output.StartSpeedForTime(30, 50, 100, output.EndBrake, output.ProfileNone).
			Command(0x00, wire.StartupBufferIfNecessary|wire.CompletionCommandFeedback)
		h.send(t, cmd)
		assert.Equal(t, wire.FeedbackInProgress, h.feedback(t))
		assert.Equal(t, wire.FeedbackIdle|wire.FeedbackCompleted, h.feedback(t))
	})

	t.Run("unknown message type", func(t *testing.T) {
		h.sendRaw(t, []byte{0x04, 0x00, 0x7F, 0x00})
		ge, ok := h.next(t).(*wire.GenericError)
		require.True(t, ok)
		assert.Equal(t, wire.MessageType(0x7F), ge.CommandType)
		assert.Equal(t, wire.ErrCodeCommandNotRecognized, ge.Code)
	})

	h.link.Close()
	assert.Eventually(t, func() bool { return !srv.Connected() }, 2*time.Second, 10*time.Millisecond)
	emu.Stop()
	require.NoError(t, srv.Stop())
	require.NoError(t, fl.Close())
	assert.Zero(t, fl.Dropped())

	reader, err := log.NewReader(capture)
	require.NoError(t, err)
	defer reader.Close()

	var frames, messages int
	var peer, buffer []string
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch {
		case ev.Frame != nil:
			frames++
		case ev.Message != nil:
			messages++
		case ev.StateChange != nil && ev.StateChange.Entity == log.StateEntityPeer:
			peer = append(peer, ev.StateChange.NewState)
		case ev.StateChange != nil && ev.StateChange.Entity == log.StateEntityPortBuffer:
			buffer = append(buffer, ev.StateChange.OldState+">"+ev.StateChange.NewState)
		}
	}

	assert.Greater(t, frames, len(profile.Ports))
	assert.Greater(t, messages, len(profile.Ports))
	assert.Equal(t, []string{"CONNECTED", "DISCONNECTED"}, peer)
	assert.Equal(t, []string{"IDLE>BUSY_EMPTY", "BUSY_EMPTY>IDLE"}, buffer)
}

// TestE2E_Discovery advertises an emulator via mDNS and finds it again.
func TestE2E_Discovery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adv := discovery.NewAdvertiser(discovery.AdvertiserConfig{})
	info := discovery.HubInfo{
		Name:         "E2E Hub",
		SystemDevice: wire.BoostHub,
		Capabilities: wire.CapCentral | wire.CapPeripheral,
		Protocol:     version.CurrentProtocol(),
		Firmware:     version.MustParse("1.0.00.0224"),
		MAC:          "00:16:53:A1:B2:C3",
		Port:         4343,
	}
	if err := adv.Advertise(info); err != nil {
		t.Skipf("mDNS not available: %v", err)
	}
	defer adv.Stop()

	found, err := discovery.NewBrowser(discovery.BrowserConfig{}).FindHub(ctx, info.Name)
	require.NoError(t, err)
	assert.Equal(t, info.Name, found.Name)
	assert.Equal(t, info.SystemDevice, found.SystemDevice)
	assert.Equal(t, info.Protocol, found.Protocol)
	assert.Equal(t, uint16(4343), found.Port)
}
