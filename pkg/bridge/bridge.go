package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lego-wireless/lwp-go/pkg/hub"
	"github.com/lego-wireless/lwp-go/pkg/log"
)

// DefaultPrefix is the key prefix used when Config.Prefix is empty.
const DefaultPrefix = "lwp:hub"

// Store is the part of Redis the bridge uses. *Client implements it.
type Store interface {
	WriteAndPublish(ctx context.Context, key string, fields map[string]string) error
	Publish(ctx context.Context, channel, message string) error
	PopCommand(ctx context.Context, key string, timeout time.Duration) (string, error)
}

// Executor runs one operator command line. It returns the command output
// and whether the operator asked the emulator to quit.
type Executor func(line string) (reply string, quit bool)

// Config configures a Bridge.
type Config struct {
	// Store is the Redis connection. Required.
	Store Store

	// Status returns the hub state to mirror. Required.
	Status func() hub.Status

	// Exec runs commands popped from the command list. When nil the
	// command list is not read.
	Exec Executor

	// OnQuit is called when a command asked to quit.
	OnQuit func()

	// Prefix of all keys. Defaults to DefaultPrefix.
	Prefix string

	// Refresh is the interval of unconditional mirror passes, catching
	// changes no protocol event announces. Defaults to 5s.
	Refresh time.Duration

	// PopTimeout bounds one wait on the command list. Defaults to 1s.
	PopTimeout time.Duration

	// Logger receives operational messages. Defaults to slog.Default().
	Logger *slog.Logger
}

// Bridge mirrors hub state into Redis hashes and runs operator commands
// queued on a Redis list.
//
// Keys, with the default prefix:
//
//	lwp:hub           hash: name, state, button, battery, alerts
//	lwp:hub:ports     hash: port id ("0x00") -> buffer state or DETACHED
//	lwp:hub:commands  list: console command lines, consumed with BRPOP
//	lwp:hub:replies   channel: command output
//
// Every changed hash field is also published as "field:value" on the
// channel named like its hash.
type Bridge struct {
	config Config
	logger *slog.Logger
	dirty  chan struct{}

	mu   sync.Mutex
	last map[string]map[string]string // last written fields per key
}

// New creates a bridge. Register it as a protocol logger of the hub so
// state changes are mirrored as they happen.
func New(config Config) (*Bridge, error) {
	if config.Store == nil || config.Status == nil {
		return nil, errors.New("bridge: store and status are required")
	}
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	if config.Refresh <= 0 {
		config.Refresh = 5 * time.Second
	}
	if config.PopTimeout <= 0 {
		config.PopTimeout = time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Bridge{
		config: config,
		logger: config.Logger,
		dirty:  make(chan struct{}, 1),
		last:   make(map[string]map[string]string),
	}, nil
}

// HubKey returns the key of the hub hash.
func (b *Bridge) HubKey() string { return b.config.Prefix }

// PortsKey returns the key of the port buffer hash.
func (b *Bridge) PortsKey() string { return b.config.Prefix + ":ports" }

// CommandKey returns the key of the command list.
func (b *Bridge) CommandKey() string { return b.config.Prefix + ":commands" }

// ReplyChannel returns the channel command output is published on.
func (b *Bridge) ReplyChannel() string { return b.config.Prefix + ":replies" }

// Log marks the mirror stale on state changes and outgoing messages. It
// is called with hub locks held, so it never reads the hub itself.
func (b *Bridge) Log(event log.Event) {
	if event.StateChange == nil && (event.Message == nil || event.Direction != log.DirectionOut) {
		return
	}
	b.markDirty()
}

func (b *Bridge) markDirty() {
	select {
	case b.dirty <- struct{}{}:
	default:
	}
}

// Run mirrors state and serves the command list until ctx ends.
func (b *Bridge) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.mirrorLoop(ctx) })
	if b.config.Exec != nil {
		g.Go(func() error { return b.commandLoop(ctx) })
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Bridge) mirrorLoop(ctx context.Context) error {
	ticker := time.NewTicker(b.config.Refresh)
	defer ticker.Stop()

	for {
		if err := b.Sync(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Warn("mirroring hub state failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.dirty:
		case <-ticker.C:
		}
	}
}

// Sync writes the hub fields that changed since the last call.
func (b *Bridge) Sync(ctx context.Context) error {
	st := b.config.Status()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.write(ctx, b.HubKey(), hubFields(st)); err != nil {
		return err
	}

	ports := portFields(st)
	for id := range b.last[b.PortsKey()] {
		if _, ok := ports[id]; !ok {
			ports[id] = "DETACHED"
		}
	}
	return b.write(ctx, b.PortsKey(), ports)
}

func (b *Bridge) write(ctx context.Context, key string, fields map[string]string) error {
	prev := b.last[key]
	changed := make(map[string]string)
	for f, v := range fields {
		if old, ok := prev[f]; !ok || old != v {
			changed[f] = v
		}
	}
	if len(changed) == 0 {
		return nil
	}
	if err := b.config.Store.WriteAndPublish(ctx, key, changed); err != nil {
		// Write everything again once the store is back.
		delete(b.last, key)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	b.last[key] = fields
	return nil
}

func (b *Bridge) commandLoop(ctx context.Context) error {
	b.logger.Info("watching command list", "key", b.CommandKey())
	for {
		line, err := b.config.Store.PopCommand(ctx, b.CommandKey(), b.config.PopTimeout)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, ErrNoCommand):
			continue
		case err != nil:
			b.logger.Warn("reading command list failed", "key", b.CommandKey(), "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		b.logger.Info("command from Redis", "command", line)
		reply, quit := b.config.Exec(line)
		if reply != "" {
			if err := b.config.Store.Publish(ctx, b.ReplyChannel(), reply); err != nil {
				b.logger.Warn("publishing reply failed", "error", err)
			}
		}
		b.markDirty()
		if quit {
			if b.config.OnQuit != nil {
				b.config.OnQuit()
			}
			return nil
		}
	}
}

func hubFields(st hub.Status) map[string]string {
	state := "advertising"
	if st.Connected {
		state = "connected"
	}
	button := "released"
	if st.Button {
		button = "pressed"
	}
	alerts := make([]string, len(st.Alerts))
	for i, a := range st.Alerts {
		alerts[i] = a.String()
	}
	return map[string]string{
		"name":    st.Name,
		"state":   state,
		"button":  button,
		"battery": strconv.Itoa(int(st.Battery)),
		"alerts":  strings.Join(alerts, ","),
	}
}

func portFields(st hub.Status) map[string]string {
	fields := make(map[string]string, len(st.Ports))
	for _, p := range st.Ports {
		fields[fmt.Sprintf("0x%02X", p.ID)] = p.Buffer.String()
	}
	return fields
}

var _ log.Logger = (*Bridge)(nil)
