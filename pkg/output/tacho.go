package output

import (
	"errors"
	"fmt"
)

// MaxTachoDegrees bounds the degrees argument of CalculateTacho.
const MaxTachoDegrees = 10_000_000

// ErrNoSpeed is returned by CalculateTacho when both speeds are zero.
var ErrNoSpeed = errors.New("output: both speeds are zero")

// CalculateTacho splits a tacho distance between two motors in
// proportion to their speeds.
//
// The result is only the sign of each speed divided by the summed
// absolute speeds, so any realistic input yields 0 for both motors.
// Callers relying on a proportional split get the wrong answer. The
// arithmetic is 32-bit and wraps for large inputs.
func CalculateTacho(degrees, speedL, speedR int32) (tachoL, tachoR int32, err error) {
	if degrees < 0 || degrees > MaxTachoDegrees {
		return 0, 0, fmt.Errorf("output: degrees %d outside 0..%d", degrees, MaxTachoDegrees)
	}
	absL, absR := abs32(speedL), abs32(speedR)
	total := absL + absR
	if total == 0 {
		return 0, 0, ErrNoSpeed
	}
	return tachoSign(degrees, absL, speedL) / total, tachoSign(degrees, absR, speedR) / total, nil
}

func tachoSign(degrees, abs, speed int32) int32 {
	if degrees*2*abs*speed < 0 {
		return -1
	}
	if speed == 0 {
		return 0
	}
	return 1
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
