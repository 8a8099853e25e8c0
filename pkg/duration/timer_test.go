package duration

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestTimerBasic(t *testing.T) {
	timer := &Timer{
		Port:      1,
		StartTime: time.Now(),
		Duration:  60 * time.Second,
		Value:     "StartSpeed",
	}

	if timer.IsExpired() {
		t.Error("Timer should not be expired immediately")
	}

	remaining := timer.RemainingTime()
	if remaining < 59*time.Second || remaining > 60*time.Second {
		t.Errorf("RemainingTime() = %v, expected ~60s", remaining)
	}

	if timer.ExpiresAt() != timer.StartTime.Add(timer.Duration) {
		t.Errorf("ExpiresAt() = %v, want %v", timer.ExpiresAt(), timer.StartTime.Add(timer.Duration))
	}
}

func TestTimerExpired(t *testing.T) {
	timer := &Timer{
		Port:      1,
		StartTime: time.Now().Add(-2 * time.Second),
		Duration:  1 * time.Second,
	}

	if !timer.IsExpired() {
		t.Error("Timer should be expired")
	}
	if timer.RemainingTime() != 0 {
		t.Errorf("RemainingTime() = %v, want 0 for expired timer", timer.RemainingTime())
	}
}

func TestManagerSetTimer(t *testing.T) {
	m := NewManager()
	defer m.CancelAll()

	if err := m.SetTimer(1, 5*time.Second, "cmd"); err != nil {
		t.Fatalf("SetTimer() error = %v", err)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}

	timer := m.GetTimer(1)
	if timer == nil {
		t.Fatal("GetTimer() returned nil")
	}
	if timer.Port != 1 || timer.Duration != 5*time.Second || timer.Value != "cmd" {
		t.Errorf("GetTimer() = %+v", timer)
	}
}

func TestManagerInvalidDuration(t *testing.T) {
	m := NewManager()

	for _, d := range []time.Duration{0, -time.Second, MaxDuration + time.Second} {
		if err := m.SetTimer(1, d, nil); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("SetTimer(%v) error = %v, want ErrInvalidDuration", d, err)
		}
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestManagerTimerReplacement(t *testing.T) {
	m := NewManager()
	defer m.CancelAll()

	_ = m.SetTimer(1, 5*time.Second, "first")
	_ = m.SetTimer(1, 10*time.Second, "second")

	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	timer := m.GetTimer(1)
	if timer.Value != "second" || timer.Duration != 10*time.Second {
		t.Errorf("GetTimer() = %+v, want the replacement", timer)
	}
}

func TestManagerCancelTimer(t *testing.T) {
	m := NewManager()

	_ = m.SetTimer(1, 5*time.Second, nil)
	if err := m.CancelTimer(1); err != nil {
		t.Fatalf("CancelTimer() error = %v", err)
	}
	if m.GetTimer(1) != nil {
		t.Error("timer still present after cancel")
	}
	if err := m.CancelTimer(1); !errors.Is(err, ErrTimerNotFound) {
		t.Errorf("CancelTimer() error = %v, want ErrTimerNotFound", err)
	}
}

func TestManagerCancelAll(t *testing.T) {
	m := NewManager()

	var fired bool
	var mu sync.Mutex
	m.OnExpiry(func(uint8, any) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	_ = m.SetTimer(0, 20*time.Millisecond, nil)
	_ = m.SetTimer(1, 20*time.Millisecond, nil)
	m.CancelAll()

	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Error("cancelled timer fired")
	}
}

func TestManagerTimerExpiry(t *testing.T) {
	m := NewManager()

	done := make(chan struct{})
	var gotPort uint8
	var gotValue any
	m.OnExpiry(func(port uint8, value any) {
		gotPort = port
		gotValue = value
		close(done)
	})

	if err := m.SetTimer(3, 20*time.Millisecond, "GotoAbsolutePosition"); err != nil {
		t.Fatalf("SetTimer() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry callback was not called")
	}

	if gotPort != 3 {
		t.Errorf("expired port = %d, want 3", gotPort)
	}
	if gotValue != "GotoAbsolutePosition" {
		t.Errorf("expired value = %v", gotValue)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after expiry, want 0", m.Count())
	}
}

func TestManagerPortsIndependent(t *testing.T) {
	m := NewManager()

	var mu sync.Mutex
	var order []uint8
	m.OnExpiry(func(port uint8, _ any) {
		mu.Lock()
		order = append(order, port)
		mu.Unlock()
	})

	_ = m.SetTimer(1, 20*time.Millisecond, nil)
	_ = m.SetTimer(2, 80*time.Millisecond, nil)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	if len(order) != 1 || order[0] != 1 {
		t.Errorf("expired after 50ms = %v, want [1]", order)
	}
	mu.Unlock()
	if m.GetTimer(2) == nil {
		t.Error("port 2 timer should still run")
	}

	time.Sleep(80 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[1] != 2 {
		t.Errorf("expired = %v, want [1 2]", order)
	}
}

func TestManagerTimers(t *testing.T) {
	m := NewManager()
	defer m.CancelAll()

	_ = m.SetTimer(5, time.Second, nil)
	_ = m.SetTimer(1, time.Second, nil)
	_ = m.SetTimer(3, time.Second, nil)

	timers := m.Timers()
	if len(timers) != 3 {
		t.Fatalf("Timers() len = %d, want 3", len(timers))
	}
	for i, want := range []uint8{1, 3, 5} {
		if timers[i].Port != want {
			t.Errorf("Timers()[%d].Port = %d, want %d", i, timers[i].Port, want)
		}
	}
}

func TestTimerReplacementCancelsCallback(t *testing.T) {
	m := NewManager()

	var mu sync.Mutex
	var values []string
	m.OnExpiry(func(_ uint8, value any) {
		mu.Lock()
		values = append(values, value.(string))
		mu.Unlock()
	})

	_ = m.SetTimer(1, 60*time.Millisecond, "first")
	time.Sleep(30 * time.Millisecond)
	_ = m.SetTimer(1, 60*time.Millisecond, "second")

	// Past the first timer's expiry.
	time.Sleep(45 * time.Millisecond)
	mu.Lock()
	if len(values) != 0 {
		t.Errorf("replaced timer fired: %v", values)
	}
	mu.Unlock()

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(values) != 1 || values[0] != "second" {
		t.Errorf("expirations = %v, want [second]", values)
	}
}

func TestStaleExpiryIgnored(t *testing.T) {
	m := NewManager()
	defer m.CancelAll()

	called := false
	m.OnExpiry(func(uint8, any) { called = true })

	_ = m.SetTimer(1, time.Minute, "current")
	m.expireTimer(1, 0)

	if called {
		t.Error("expiry with a stale sequence invoked the callback")
	}
	if m.GetTimer(1) == nil {
		t.Error("stale expiry removed the current timer")
	}
}
