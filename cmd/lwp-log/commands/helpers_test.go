package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExt)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func port(id uint8) *uint8 { return &id }

// sessionEvents is a short hub session: a host sends two buffered motor
// commands to port 0x00 and the second one overflows the buffer.
func sessionEvents() []log.Event {
	base := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	at := func(ms int) time.Time { return base.Add(time.Duration(ms) * time.Millisecond) }
	code := int(wire.ErrCodeBufferOverflow)

	return []log.Event{
		{
			Timestamp: at(0), ConnectionID: "c0ffee01-aaaa", Direction: log.DirectionIn,
			Layer: log.LayerTransport, Category: log.CategoryMessage, RemoteAddr: "10.0.0.7:50100", HubName: "Move Hub",
			Frame: &log.FrameEvent{Size: 8, Data: []byte{0x08, 0x00, 0x81, 0x00, 0x00, 0x01, 0x32, 0x00}},
		},
		{
			Timestamp: at(1), ConnectionID: "c0ffee01-aaaa", Direction: log.DirectionIn,
			Layer: log.LayerWire, Category: log.CategoryMessage, HubName: "Move Hub",
			Message: &log.MessageEvent{Type: wire.TypePortOutputCommand, PortID: port(0x00), Summary: "StartPower 50"},
		},
		{
			Timestamp: at(2), ConnectionID: "c0ffee01-aaaa", Direction: log.DirectionOut,
			Layer: log.LayerService, Category: log.CategoryState, HubName: "Move Hub",
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityPortBuffer, PortID: port(0x00), OldState: "IDLE", NewState: "BUSY_EMPTY", Reason: "buffering"},
		},
		{
			Timestamp: at(3), ConnectionID: "c0ffee01-aaaa", Direction: log.DirectionOut,
			Layer: log.LayerWire, Category: log.CategoryMessage, HubName: "Move Hub",
			Message: &log.MessageEvent{Type: wire.TypePortOutputCommandFeedback, PortID: port(0x00), Summary: "0x00=InProgress"},
		},
		{
			Timestamp: at(10), ConnectionID: "c0ffee01-aaaa", Direction: log.DirectionOut,
			Layer: log.LayerService, Category: log.CategoryState, HubName: "Move Hub",
			StateChange: &log.StateChangeEvent{Entity: log.StateEntityPortBuffer, PortID: port(0x00), OldState: "BUSY_EMPTY", NewState: "BUSY_FULL", Reason: "buffering"},
		},
		{
			Timestamp: at(20), ConnectionID: "c0ffee01-aaaa", Direction: log.DirectionOut,
			Layer: log.LayerService, Category: log.CategoryError, HubName: "Move Hub",
			Error: &log.ErrorEventData{Layer: log.LayerService, Message: "BUFFER_OVERFLOW", Code: &code, Context: "PortOutputCommand"},
		},
		{
			Timestamp: at(1500), ConnectionID: "beef0002-bbbb", Direction: log.DirectionIn,
			Layer: log.LayerWire, Category: log.CategoryMessage,
			Message: &log.MessageEvent{Type: wire.TypeHubProperties, Summary: "AdvertisingName Request"},
		},
	}
}
