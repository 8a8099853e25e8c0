package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffSequence(t *testing.T) {
	b := NewBackoff(BackoffConfig{Initial: 100 * time.Millisecond, Max: time.Second})

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, b.Next(), "attempt %d", i)
	}
	assert.Equal(t, len(want), b.Attempts())

	b.Reset()
	assert.Equal(t, 0, b.Attempts())
	assert.Equal(t, 100*time.Millisecond, b.Current())
}

func TestBackoffJitterBounds(t *testing.T) {
	b := NewBackoff(BackoffConfig{Initial: time.Second, Jitter: 0.5, Multiplier: 1.5})
	for i := 0; i < 20; i++ {
		b.Reset()
		d := b.Next()
		assert.GreaterOrEqual(t, d, time.Second)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
	assert.Equal(t, 1500*time.Millisecond, b.Current())
}

func TestBackoffDefaults(t *testing.T) {
	b := NewBackoff(BackoffConfig{Multiplier: 0.5, Jitter: -1})
	assert.Equal(t, InitialBackoff, b.Current())
	assert.Equal(t, InitialBackoff, b.Next())
	assert.Equal(t, time.Duration(float64(InitialBackoff)*BackoffMultiplier), b.Current())
}

func TestDefaultBackoffConfig(t *testing.T) {
	cfg := DefaultBackoffConfig()
	assert.Equal(t, JitterFactor, cfg.Jitter)

	s := NewSerialLink(SerialConfig{Device: "x"})
	assert.Equal(t, cfg, s.config.Backoff)
}
