package log

import (
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

func writeCapture(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture"+FileExt)
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, path string, f Filter) []Event {
	t.Helper()
	r, err := NewFilteredReader(path, f)
	if err != nil {
		t.Fatalf("NewFilteredReader: %v", err)
	}
	defer r.Close()

	var out []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, ev)
	}
}

func sampleEvents(base time.Time) []Event {
	port := uint8(0x00)
	other := uint8(0x01)
	return []Event{
		{Timestamp: base, ConnectionID: "c1", Direction: DirectionIn, Layer: LayerTransport, Category: CategoryMessage,
			Frame: &FrameEvent{Size: 5}},
		{Timestamp: base.Add(time.Second), ConnectionID: "c1", Direction: DirectionIn, Layer: LayerWire, Category: CategoryMessage,
			Message: &MessageEvent{Type: wire.TypePortOutputCommand, PortID: &port}},
		{Timestamp: base.Add(2 * time.Second), ConnectionID: "c1", Direction: DirectionOut, Layer: LayerWire, Category: CategoryMessage,
			Message: &MessageEvent{Type: wire.TypePortOutputCommandFeedback, PortID: &port}},
		{Timestamp: base.Add(3 * time.Second), ConnectionID: "c2", Direction: DirectionOut, Layer: LayerWire, Category: CategoryMessage,
			Message: &MessageEvent{Type: wire.TypeHubAttachedIO, PortID: &other}},
		{Timestamp: base.Add(4 * time.Second), ConnectionID: "c2", Layer: LayerService, Category: CategoryState,
			StateChange: &StateChangeEvent{Entity: StateEntityPeer, NewState: "CONNECTED"}},
		{Timestamp: base.Add(5 * time.Second), ConnectionID: "c2", Layer: LayerWire, Category: CategoryError,
			Error: &ErrorEventData{Layer: LayerWire, Message: "bad frame"}},
	}
}

func TestReaderReadsAll(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	path := writeCapture(t, sampleEvents(base))

	got := readAll(t, path, Filter{})
	if len(got) != 6 {
		t.Fatalf("got %d events, want 6", len(got))
	}
	if got[4].StateChange == nil || got[4].StateChange.NewState != "CONNECTED" {
		t.Errorf("event 4 = %+v", got[4])
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	path := writeCapture(t, sampleEvents(base))

	out := DirectionOut
	wireLayer := LayerWire
	errs := CategoryError
	feedback := wire.TypePortOutputCommandFeedback
	port0 := uint8(0x00)
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"connection", Filter{ConnectionID: "c2"}, 3},
		{"direction", Filter{Direction: &out}, 2},
		{"layer", Filter{Layer: &wireLayer}, 4},
		{"category", Filter{Category: &errs}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"message type", Filter{MessageType: &feedback}, 1},
		{"port", Filter{PortID: &port0}, 2},
		{"combined", Filter{ConnectionID: "c1", Direction: &out, PortID: &port0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := readAll(t, path, tt.filter); len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "none"+FileExt)); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReaderEmptyFile(t *testing.T) {
	path := writeCapture(t, nil)
	r, err := NewReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next on empty file = %v, want io.EOF", err)
	}
}

func TestReaderPortFilterMatchesBufferStates(t *testing.T) {
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	port := uint8(0x32)
	events := append(sampleEvents(base), Event{
		Timestamp: base.Add(6 * time.Second), ConnectionID: "c1", Layer: LayerService, Category: CategoryState,
		StateChange: &StateChangeEvent{Entity: StateEntityPortBuffer, PortID: &port, OldState: "IDLE", NewState: "BUSY_EMPTY"},
	})
	path := writeCapture(t, events)

	got := readAll(t, path, Filter{PortID: &port})
	if len(got) != 1 || got[0].StateChange == nil {
		t.Fatalf("got %+v, want the buffer state change", got)
	}
}
