package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/lego-wireless/lwp-go/pkg/log"
)

// DefaultAddress is the listen address of the hub emulator.
const DefaultAddress = ":4343"

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address to listen on, e.g. ":4343" or "127.0.0.1:0".
	Address string

	// Logger receives frame and peer state events (optional).
	Logger log.Logger

	// Slog receives operational messages. Defaults to slog.Default().
	Slog *slog.Logger
}

// Server accepts TCP connections from hosts and exposes the current one
// as a Link. A hub talks to one host at a time, so a second connection
// is refused while a peer is attached.
type Server struct {
	config   ServerConfig
	listener net.Listener

	mu         sync.Mutex
	peer       *StreamLink
	onIncoming func([]byte)
	onPeer     func(bool)

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server. Call Start to listen.
func NewServer(config ServerConfig) *Server {
	if config.Address == "" {
		config.Address = DefaultAddress
	}
	if config.Slog == nil {
		config.Slog = slog.Default()
	}
	return &Server{config: config}
}

// Start listens and begins accepting connections. Cancelling ctx stops
// the server.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return errors.New("server already running")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}
	s.listener = listener
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(2)
	go s.acceptLoop()
	go func() {
		defer s.wg.Done()
		<-s.ctx.Done()
		s.shutdown()
	}()

	s.config.Slog.Info("listening", "addr", listener.Addr().String())
	return nil
}

// Stop closes the listener and the current peer and waits for the
// server goroutines to finish.
func (s *Server) Stop() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	s.wg.Wait()
	return nil
}

func (s *Server) shutdown() {
	s.running.Store(false)
	s.listener.Close()

	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()
	if peer != nil {
		peer.Close()
		<-peer.Done()
	}
}

// Addr returns the listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Connected reports whether a peer is attached.
func (s *Server) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peer != nil
}

// Notify sends frame to the attached peer.
func (s *Server) Notify(frame []byte) error {
	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()
	if peer == nil {
		return ErrNotConnected
	}
	return peer.Notify(frame)
}

func (s *Server) OnIncoming(fn func([]byte)) {
	s.mu.Lock()
	s.onIncoming = fn
	s.mu.Unlock()
}

func (s *Server) OnPeerStateChanged(fn func(bool)) {
	s.mu.Lock()
	s.onPeer = fn
	s.mu.Unlock()
}

// Disconnect closes the current peer connection, if any.
func (s *Server) Disconnect() {
	s.mu.Lock()
	peer := s.peer
	s.mu.Unlock()
	if peer != nil {
		peer.Close()
	}
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.config.Slog.Warn("accept failed", "error", err)
			continue
		}

		s.mu.Lock()
		busy := s.peer != nil
		s.mu.Unlock()
		if busy {
			s.config.Slog.Warn("refusing second peer", "remote", conn.RemoteAddr().String())
			conn.Close()
			continue
		}
		s.attach(conn)
	}
}

func (s *Server) attach(conn net.Conn) {
	link := NewStreamLink(conn, StreamConfig{
		Logger:     s.config.Logger,
		Slog:       s.config.Slog,
		Role:       log.RoleHub,
		RemoteAddr: conn.RemoteAddr().String(),
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
		if !connected && s.peer == link {
			s.peer = nil
		}
		fn := s.onPeer
		s.mu.Unlock()

		s.config.Slog.Info("peer state changed",
			"conn_id", link.ConnID(), "remote", conn.RemoteAddr().String(), "connected", connected)
		if fn != nil {
			fn(connected)
		}
	})

	s.mu.Lock()
	s.peer = link
	s.mu.Unlock()
	link.Start()
}
