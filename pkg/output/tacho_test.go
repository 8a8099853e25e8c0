package output

import (
	"errors"
	"testing"
)

func TestCalculateTacho(t *testing.T) {
	tests := []struct {
		name           string
		degrees        int32
		speedL, speedR int32
		wantL, wantR   int32
	}{
		// Anything with more than one unit of speed collapses to zero.
		{"equal speeds", 90, 50, 50, 0, 0},
		{"single unit", 90, 1, 0, 1, 0},
		{"single unit reverse", 90, -1, 0, -1, 0},
		{"single unit right", 90, 0, -1, 0, -1},
		{"zero degrees keeps sign positive", 0, -1, 0, 1, 0},
		{"max degrees", MaxTachoDegrees, 0, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r, err := CalculateTacho(tt.degrees, tt.speedL, tt.speedR)
			if err != nil {
				t.Fatalf("CalculateTacho: %v", err)
			}
			if l != tt.wantL || r != tt.wantR {
				t.Errorf("CalculateTacho(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.degrees, tt.speedL, tt.speedR, l, r, tt.wantL, tt.wantR)
			}
		})
	}
}

func TestCalculateTachoErrors(t *testing.T) {
	if _, _, err := CalculateTacho(-1, 10, 10); err == nil {
		t.Error("negative degrees accepted")
	}
	if _, _, err := CalculateTacho(MaxTachoDegrees+1, 10, 10); err == nil {
		t.Error("degrees above maximum accepted")
	}
	if _, _, err := CalculateTacho(90, 0, 0); !errors.Is(err, ErrNoSpeed) {
		t.Errorf("zero speeds err = %v, want ErrNoSpeed", err)
	}
}
