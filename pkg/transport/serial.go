package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tarm/serial"

	"github.com/lego-wireless/lwp-go/pkg/log"
)

// DefaultBaud is used when SerialConfig.Baud is zero.
const DefaultBaud = 115200

// SerialConfig configures a SerialLink.
type SerialConfig struct {
	// Device is the port path, e.g. /dev/ttyUSB0 or COM3.
	Device string
	Baud   int

	// Backoff controls reopen delays after the device fails. The zero
	// value selects DefaultBackoffConfig.
	Backoff BackoffConfig

	Logger log.Logger
	Slog   *slog.Logger
}

// SerialLink is a Link over a serial port. The port counts as a connected
// peer while it is open. Run keeps reopening it until ctx ends.
type SerialLink struct {
	config  SerialConfig
	backoff *Backoff
	open    func(*serial.Config) (io.ReadWriteCloser, error)

	mu         sync.Mutex
	link       *StreamLink
	onIncoming func([]byte)
	onPeer     func(bool)
}

func NewSerialLink(config SerialConfig) *SerialLink {
	if config.Baud == 0 {
		config.Baud = DefaultBaud
	}
	if config.Slog == nil {
		config.Slog = slog.Default()
	}
	if config.Backoff == (BackoffConfig{}) {
		config.Backoff = DefaultBackoffConfig()
	}
	return &SerialLink{
		config:  config,
		backoff: NewBackoff(config.Backoff),
		open:    openSerial,
	}
}

func openSerial(c *serial.Config) (io.ReadWriteCloser, error) {
	return serial.OpenPort(c)
}

func (s *SerialLink) OnIncoming(fn func([]byte)) {
	s.mu.Lock()
	s.onIncoming = fn
	s.mu.Unlock()
}

func (s *SerialLink) OnPeerStateChanged(fn func(bool)) {
	s.mu.Lock()
	s.onPeer = fn
	s.mu.Unlock()
}

// Notify writes frame to the open port.
func (s *SerialLink) Notify(frame []byte) error {
	s.mu.Lock()
	link := s.link
	s.mu.Unlock()
	if link == nil {
		return ErrNotConnected
	}
	return link.Notify(frame)
}

// Run opens the port and serves it until ctx is done, reopening with
// backoff whenever opening fails or the port goes away.
func (s *SerialLink) Run(ctx context.Context) error {
	for {
		rwc, err := s.open(&serial.Config{
			Name:   s.config.Device,
			Baud:   s.config.Baud,
			Size:   8,
			Parity: serial.ParityNone,
		})
		if err != nil {
			delay := s.backoff.Next()
			s.config.Slog.Warn("open serial port failed",
				"device", s.config.Device, "error", err, "retry_in", delay)
			if !sleep(ctx, delay) {
				return ctx.Err()
			}
			continue
		}

		s.backoff.Reset()
		link := s.serve(rwc)
		select {
		case <-ctx.Done():
			link.Close()
			<-link.Done()
			return ctx.Err()
		case <-link.Done():
		}
		if err := link.Err(); err != nil {
			s.config.Slog.Warn("serial port lost", "device", s.config.Device, "error", err)
		}
		if !sleep(ctx, s.backoff.Next()) {
			return ctx.Err()
		}
	}
}

func (s *SerialLink) serve(rwc io.ReadWriteCloser) *StreamLink {
	link := NewStreamLink(rwc, StreamConfig{
		Logger:     s.config.Logger,
		Slog:       s.config.Slog,
		Role:       log.RoleHub,
		RemoteAddr: fmt.Sprintf("serial:%s", s.config.Device),
	})
	link.OnIncoming(func(frame []byte) {
		s.mu.Lock()
		fn := s.onIncoming
		s.mu.Unlock()
		if fn != nil {
			fn(frame)
		}
	})
	link.OnPeerStateChanged(func(connected bool) {
		s.mu.Lock()
		if !connected && s.link == link {
			s.link = nil
		}
		fn := s.onPeer
		s.mu.Unlock()
		if fn != nil {
			fn(connected)
		}
	})

	s.mu.Lock()
	s.link = link
	s.mu.Unlock()
	link.Start()
	return link
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
