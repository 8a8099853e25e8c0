package transport

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lego-wireless/lwp-go/pkg/log"
)

// Link errors.
var (
	ErrNotConnected = errors.New("no peer connected")
	ErrLinkClosed   = errors.New("link closed")
)

// StreamConfig configures a StreamLink.
type StreamConfig struct {
	// Logger receives frame and peer state events (optional).
	Logger log.Logger

	// Slog receives operational messages. Defaults to slog.Default().
	Slog *slog.Logger

	// Role is recorded in protocol events.
	Role log.Role

	// RemoteAddr is recorded in protocol events.
	RemoteAddr string
}

// StreamLink is a Link over a byte stream such as a TCP connection or a
// serial port. Register callbacks before calling Start.
type StreamLink struct {
	rwc    io.ReadWriteCloser
	framer *Framer
	config StreamConfig
	connID string

	mu         sync.RWMutex
	onIncoming func([]byte)
	onPeer     func(bool)

	startOnce sync.Once
	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
	err       error
}

// NewStreamLink wraps rwc. The link owns rwc and closes it when the
// read loop ends.
func NewStreamLink(rwc io.ReadWriteCloser, config StreamConfig) *StreamLink {
	if config.Slog == nil {
		config.Slog = slog.Default()
	}
	l := &StreamLink{
		rwc:     rwc,
		framer:  NewFramer(rwc),
		config:  config,
		connID:  uuid.NewString(),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	if config.Logger != nil {
		l.framer.SetLogger(config.Logger, l.connID)
		l.framer.setRemote(config.RemoteAddr)
	}
	return l
}

// ConnID returns the identifier used in protocol events.
func (l *StreamLink) ConnID() string { return l.connID }

func (l *StreamLink) OnIncoming(fn func([]byte)) {
	l.mu.Lock()
	l.onIncoming = fn
	l.mu.Unlock()
}

func (l *StreamLink) OnPeerStateChanged(fn func(bool)) {
	l.mu.Lock()
	l.onPeer = fn
	l.mu.Unlock()
}

// Start begins reading. The peer state callback fires with true before
// the first frame is delivered and with false when the stream ends.
func (l *StreamLink) Start() {
	l.startOnce.Do(func() {
		go l.readLoop()
	})
}

// Notify writes one frame to the peer.
func (l *StreamLink) Notify(frame []byte) error {
	select {
	case <-l.closeCh:
		return ErrLinkClosed
	default:
	}
	return l.framer.WriteFrame(frame)
}

// Close closes the stream. The read loop ends and reports the peer gone.
func (l *StreamLink) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.closeCh)
		err = l.rwc.Close()
	})
	return err
}

// Done is closed once the read loop has finished.
func (l *StreamLink) Done() <-chan struct{} { return l.done }

// Err returns the error that ended the read loop, or nil if the stream
// ended cleanly or was closed locally. Valid after Done is closed.
func (l *StreamLink) Err() error {
	<-l.done
	return l.err
}

func (l *StreamLink) readLoop() {
	defer close(l.done)

	l.peerState(true, "")
	reason := ""
	for {
		frame, err := l.framer.ReadFrame()
		if err != nil {
			select {
			case <-l.closeCh:
				reason = "closed"
			default:
				if !errors.Is(err, io.EOF) {
					l.err = err
					reason = err.Error()
					l.config.Slog.Warn("link read failed", "conn_id", l.connID, "error", err)
				} else {
					reason = "eof"
				}
			}
			break
		}

		l.mu.RLock()
		fn := l.onIncoming
		l.mu.RUnlock()
		if fn != nil {
			fn(frame)
		}
	}

	l.Close()
	l.peerState(false, reason)
}

func (l *StreamLink) peerState(connected bool, reason string) {
	if l.config.Logger != nil {
		old, state := "DISCONNECTED", "CONNECTED"
		if !connected {
			old, state = state, old
		}
		l.config.Logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: l.connID,
			Layer:        log.LayerTransport,
			Category:     log.CategoryState,
			LocalRole:    l.config.Role,
			RemoteAddr:   l.config.RemoteAddr,
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityPeer,
				OldState: old,
				NewState: state,
				Reason:   reason,
			},
		})
	}

	l.mu.RLock()
	fn := l.onPeer
	l.mu.RUnlock()
	if fn != nil {
		fn(connected)
	}
}
