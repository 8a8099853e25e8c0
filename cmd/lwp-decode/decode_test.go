package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{"05 00 01 05 05", []byte{0x05, 0x00, 0x01, 0x05, 0x05}, false},
		{"0500010505", []byte{0x05, 0x00, 0x01, 0x05, 0x05}, false},
		{"05:00:01", []byte{0x05, 0x00, 0x01}, false},
		{"0x05, 0x00, 0x01", []byte{0x05, 0x00, 0x01}, false},
		{"0 5", []byte{0x05}, false},
		{"zz", nil, true},
		{"050", nil, true},
	}

	for _, tt := range tests {
		got, err := parseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("parseHex(%q) = % X, want % X", tt.in, got, tt.want)
		}
	}
}

func TestSplitFrames(t *testing.T) {
	data := []byte{
		0x05, 0x00, 0x01, 0x05, 0x05, // HubProperties
		0x07, 0x00, 0x82, 0x00, 0x0A, 0x01, 0x01, // feedback
	}
	frames, err := splitFrames(data)
	if err != nil {
		t.Fatalf("splitFrames: %v", err)
	}
	if len(frames) != 2 || len(frames[0]) != 5 || len(frames[1]) != 7 {
		t.Fatalf("got %d frames: % X", len(frames), frames)
	}

	frames, err = splitFrames(append(data, 0x09, 0x00, 0x81))
	if !errors.Is(err, wire.ErrTooShort) {
		t.Errorf("expected ErrTooShort for truncated tail, got %v", err)
	}
	if len(frames) != 2 {
		t.Errorf("expected the complete frames before the tail, got %d", len(frames))
	}

	if _, err := splitFrames([]byte{0x02, 0x00}); err == nil {
		t.Error("expected error for a length below the header size")
	}
}

func TestDecodeLine(t *testing.T) {
	results := decodeLine("09 00 81 10 11 07 32 64 00 05 00 81 00 10")
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	ok := results[0]
	if ok.Error != "" {
		t.Fatalf("unexpected error: %s", ok.Error)
	}
	if ok.Code != uint8(wire.TypePortOutputCommand) || ok.Length != 9 {
		t.Errorf("unexpected header fields: %+v", ok)
	}
	cmd, isCmd := ok.Message.(*wire.PortOutputCommand)
	if !isCmd || cmd.PortID != 0x10 {
		t.Errorf("unexpected message: %#v", ok.Message)
	}

	short := results[1]
	if short.Type != wire.TypePortOutputCommand.String() || !strings.Contains(short.Error, "too short") {
		t.Errorf("expected a too short decode error, got %+v", short)
	}
}

func TestRunText(t *testing.T) {
	input := strings.NewReader("# comment\n\n05 00 01 05 05\nnot hex\n")
	var buf bytes.Buffer
	out, err := newPrinter(&buf, "text", true)
	if err != nil {
		t.Fatal(err)
	}

	failed, err := run(input, out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if lines[0] != "05 00 01 05 05" {
		t.Errorf("raw line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "error: invalid hex") {
		t.Errorf("error line = %q", lines[2])
	}
}

func TestRunJSON(t *testing.T) {
	var buf bytes.Buffer
	out, err := newPrinter(&buf, "json", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := run(strings.NewReader("07 00 82 00 0A 01 01"), out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if got["type"] != wire.TypePortOutputCommandFeedback.String() {
		t.Errorf("type = %v", got["type"])
	}
	if _, ok := got["hex"]; ok {
		t.Error("hex should be omitted without -raw")
	}
	if _, ok := got["message"].(map[string]any); !ok {
		t.Errorf("message = %v", got["message"])
	}
}

func TestRunYAML(t *testing.T) {
	var buf bytes.Buffer
	out, err := newPrinter(&buf, "yaml", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := run(strings.NewReader("05 00 01 05 05\n05 00 01 06 05"), out); err != nil {
		t.Fatalf("run: %v", err)
	}

	output := buf.String()
	if strings.Count(output, "code: 1") != 2 {
		t.Errorf("expected two documents:\n%s", output)
	}
	if !strings.Contains(output, "hex: \"0500010505\"") && !strings.Contains(output, "hex: 0500010505") {
		t.Errorf("expected hex field:\n%s", output)
	}
}

func TestNewPrinterUnknownFormat(t *testing.T) {
	if _, err := newPrinter(&bytes.Buffer{}, "xml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}
