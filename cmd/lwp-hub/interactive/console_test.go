package interactive

import (
	"testing"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in, kind string
		want     wire.Value
		wantErr  bool
	}{
		{"10", "u8", wire.U8(10), false},
		{"255", "u8", wire.U8(255), false},
		{"-1", "u8", wire.U8(0xFF), false},
		{"-128", "u8", wire.U8(0x80), false},
		{"256", "u8", wire.Value{}, true},
		{"-129", "u8", wire.Value{}, true},
		{"0x1234", "u16", wire.U16(0x1234), false},
		{"-90", "u32", wire.U32(0xFFFFFFA6), false},
		{"1.5", "f32", wire.F32(1.5), false},
		{"1", "u64", wire.Value{}, true},
		{"abc", "u16", wire.Value{}, true},
	}

	for _, tt := range tests {
		got, err := parseValue(tt.in, tt.kind)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseValue(%q, %s) = %v, want error", tt.in, tt.kind, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseValue(%q, %s): %v", tt.in, tt.kind, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseValue(%q, %s) = %v, want %v", tt.in, tt.kind, got, tt.want)
		}
	}
}

func TestParseAlert(t *testing.T) {
	tests := []struct {
		in      string
		want    wire.AlertType
		wantErr bool
	}{
		{"LowVoltage", wire.AlertLowVoltage, false},
		{"overpower", wire.AlertOverPower, false},
		{"2", wire.AlertHighCurrent, false},
		{"0", 0, true},
		{"5", 0, true},
		{"hot", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAlert(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAlert(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAlert(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParsePort(t *testing.T) {
	if p, err := parsePort("0x3A"); err != nil || p != 0x3A {
		t.Errorf("parsePort(0x3A) = %d, %v", p, err)
	}
	if p, err := parsePort("16"); err != nil || p != 16 {
		t.Errorf("parsePort(16) = %d, %v", p, err)
	}
	if _, err := parsePort("256"); err == nil {
		t.Error("parsePort(256) should fail")
	}
}

func TestExecutorCapturesOutput(t *testing.T) {
	exec := Executor(nil)

	out, quit := exec("frobnicate now")
	if quit || out != "Unknown command: frobnicate (type 'help' for commands)" {
		t.Errorf("unknown command = %q, %v", out, quit)
	}

	// Output of the previous command is not repeated.
	out, _ = exec("button")
	if out != "Error: usage: button press|release|click" {
		t.Errorf("button without action = %q", out)
	}

	if out, quit = exec("   "); out != "" || quit {
		t.Errorf("blank line = %q, %v", out, quit)
	}
	if _, quit = exec("quit"); !quit {
		t.Error("quit should ask to quit")
	}
}
