package duration

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// Duration timer errors.
var (
	ErrTimerNotFound   = errors.New("timer not found")
	ErrInvalidDuration = errors.New("invalid duration")
)

// MaxDuration is the longest run time accepted for one command.
const MaxDuration = time.Hour

// Timer represents a running command.
type Timer struct {
	// Port is the port the command runs on.
	Port uint8

	// StartTime is when the command started.
	StartTime time.Time

	// Duration is the command run time.
	Duration time.Duration

	// Value is the command, handed back on expiry.
	Value any

	seq   uint64
	timer *time.Timer
}

// ExpiresAt returns when the timer will expire.
func (t *Timer) ExpiresAt() time.Time {
	return t.StartTime.Add(t.Duration)
}

// RemainingTime returns time until expiry.
func (t *Timer) RemainingTime() time.Duration {
	remaining := t.Duration - time.Since(t.StartTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired returns true if the timer has expired.
func (t *Timer) IsExpired() bool {
	return time.Since(t.StartTime) >= t.Duration
}

func (t *Timer) snapshot() *Timer {
	return &Timer{
		Port:      t.Port,
		StartTime: t.StartTime,
		Duration:  t.Duration,
		Value:     t.Value,
	}
}

// Manager manages command timers, one per port.
type Manager struct {
	mu sync.RWMutex

	timers map[uint8]*Timer
	seq    uint64

	onExpiry func(port uint8, value any)
}

// NewManager creates a new timer manager.
func NewManager() *Manager {
	return &Manager{
		timers: make(map[uint8]*Timer),
	}
}

// SetTimer starts or replaces the timer for port.
func (m *Manager) SetTimer(port uint8, d time.Duration, value any) error {
	if d <= 0 || d > MaxDuration {
		return ErrInvalidDuration
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.timers[port]; ok {
		existing.timer.Stop()
	}

	m.seq++
	seq := m.seq
	t := &Timer{
		Port:      port,
		StartTime: time.Now(),
		Duration:  d,
		Value:     value,
		seq:       seq,
	}
	t.timer = time.AfterFunc(d, func() {
		m.expireTimer(port, seq)
	})
	m.timers[port] = t
	return nil
}

// CancelTimer stops the timer for port without invoking the expiry
// callback.
func (m *Manager) CancelTimer(port uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.timers[port]
	if !ok {
		return ErrTimerNotFound
	}
	t.timer.Stop()
	delete(m.timers, port)
	return nil
}

// CancelAll stops every timer.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for port, t := range m.timers {
		t.timer.Stop()
		delete(m.timers, port)
	}
}

// GetTimer returns a copy of the timer for port, or nil if none runs.
func (m *Manager) GetTimer(port uint8) *Timer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if t, ok := m.timers[port]; ok {
		return t.snapshot()
	}
	return nil
}

// Timers returns copies of all running timers ordered by port.
func (m *Manager) Timers() []*Timer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Timer, 0, len(m.timers))
	for _, t := range m.timers {
		result = append(result, t.snapshot())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Port < result[j].Port })
	return result
}

// Count returns the number of running timers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.timers)
}

// OnExpiry sets the callback for timer expiry. It runs on the timer's
// goroutine, outside the manager lock.
func (m *Manager) OnExpiry(fn func(port uint8, value any)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpiry = fn
}

func (m *Manager) expireTimer(port uint8, seq uint64) {
	m.mu.Lock()

	t, ok := m.timers[port]
	if !ok || t.seq != seq {
		m.mu.Unlock()
		return
	}

	value := t.Value
	delete(m.timers, port)
	callback := m.onExpiry

	m.mu.Unlock()

	if callback != nil {
		callback(port, value)
	}
}
