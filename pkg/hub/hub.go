package hub

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lego-wireless/lwp-go/pkg/buffering"
	"github.com/lego-wireless/lwp-go/pkg/duration"
	"github.com/lego-wireless/lwp-go/pkg/log"
	"github.com/lego-wireless/lwp-go/pkg/persistence"
	"github.com/lego-wireless/lwp-go/pkg/transport"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// Hub errors.
var (
	ErrNoProfile    = errors.New("hub profile required")
	ErrUnknownPort  = errors.New("no device attached to port")
	ErrPortInUse    = errors.New("port already in use")
	ErrInvalidValue = errors.New("invalid value")
)

// Config configures a Hub.
type Config struct {
	// Profile describes the emulated hub. Required.
	Profile *Profile

	// CommandDuration is how long an output command runs when its run
	// time is not part of the command. Zero completes commands at once.
	CommandDuration time.Duration

	// Logger receives operational messages. Defaults to slog.Default().
	Logger *slog.Logger

	// ProtocolLogger receives message, state and error events (optional).
	ProtocolLogger log.Logger

	// StateStore persists settings changed by the host (optional).
	StateStore *persistence.HubStateStore

	// OnAction is called after the hub announced one of the
	// HubWill* actions, or received a Shutdown. The emulator should
	// drop the peer or exit.
	OnAction func(action wire.ActionType)
}

// Hub emulates a LWP hub on a transport.Link. It answers host requests
// from its Profile and tracks the buffer state of every port.
type Hub struct {
	link    transport.Link
	profile *Profile
	config  Config
	logger  *slog.Logger
	plog    log.Logger

	mu        sync.Mutex
	connected bool
	connID    string

	name      string
	button    bool
	battery   uint8
	rssi      int8
	networkID wire.NetworkID
	family    wire.NetworkFamily
	busy      bool
	vcc       bool

	subscriptions map[wire.Property]bool
	alerts        map[wire.AlertType]bool
	activeAlerts  map[wire.AlertType]bool

	ports   map[uint8]*port
	buffers *buffering.Ports
	timers  *duration.Manager
}

// port is the runtime state of an attached port.
type port struct {
	id     uint8
	ioType wire.IOType
	def    *PortDef

	virtual bool
	a, b    uint8

	format   *wire.InputFormat
	value    wire.Value
	hasValue bool
	lastSent wire.Value
	reported bool

	running *command
	pending *command
}

// command is an accepted port output command.
type command struct {
	msg      *wire.PortOutputCommand
	duration time.Duration
}

// New creates a hub on link and registers its callbacks.
func New(link transport.Link, config Config) (*Hub, error) {
	if config.Profile == nil {
		return nil, ErrNoProfile
	}
	if err := config.Profile.Validate(); err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	p := config.Profile
	h := &Hub{
		link:          link,
		profile:       p,
		config:        config,
		logger:        config.Logger,
		plog:          log.OrNoop(config.ProtocolLogger),
		name:          p.Name,
		battery:       p.Battery,
		rssi:          p.RSSI,
		networkID:     p.NetworkID,
		family:        p.NetworkFamily,
		subscriptions: make(map[wire.Property]bool),
		alerts:        make(map[wire.AlertType]bool),
		activeAlerts:  make(map[wire.AlertType]bool),
		ports:         make(map[uint8]*port),
		buffers:       buffering.NewPorts(),
		timers:        duration.NewManager(),
	}

	for i := range p.Ports {
		def := &p.Ports[i]
		h.ports[def.ID] = &port{id: def.ID, ioType: def.IOType, def: def}
	}
	for _, v := range p.Virtual {
		h.ports[v.ID] = &port{
			id:      v.ID,
			ioType:  h.ports[v.A].ioType,
			def:     h.ports[v.A].def,
			virtual: true,
			a:       v.A,
			b:       v.B,
		}
	}

	if err := h.loadState(); err != nil {
		h.logger.Warn("hub state not loaded", "error", err)
	}

	h.buffers.OnStateChange(h.logBufferState)
	h.timers.OnExpiry(func(portID uint8, value any) {
		h.commandExpired(portID, value.(*command))
	})

	link.OnIncoming(h.HandleFrame)
	link.OnPeerStateChanged(h.peerStateChanged)
	return h, nil
}

// Profile returns the profile the hub was created with.
func (h *Hub) Profile() *Profile { return h.profile }

// Stop cancels all running commands.
func (h *Hub) Stop() {
	h.timers.CancelAll()
}

// HandleFrame processes one frame received from the host.
func (h *Hub) HandleFrame(frame []byte) {
	msg, err := wire.Decode(frame)
	if err != nil {
		var cmdType wire.MessageType
		if hdr, _, herr := wire.DecodeHeader(frame); herr == nil {
			cmdType = hdr.Type
		}
		h.logger.Debug("undecodable frame", "type", cmdType, "error", err)
		h.logError(log.LayerWire, err.Error(), nil, "decode")
		h.mu.Lock()
		out := h.genericError(cmdType, wire.ErrCodeInvalidUse)
		h.mu.Unlock()
		h.flush(out...)
		return
	}

	h.logMessage(log.DirectionIn, msg)

	h.mu.Lock()
	out, action := h.handle(msg)
	h.mu.Unlock()

	h.flush(out...)
	if action != 0 && h.config.OnAction != nil {
		h.config.OnAction(action)
	}
}

func (h *Hub) handle(msg wire.Message) ([]wire.Message, wire.ActionType) {
	switch m := msg.(type) {
	case *wire.HubProperty:
		return h.handleProperty(m), 0
	case *wire.HubAction:
		return h.handleAction(m)
	case *wire.HubAlert:
		return h.handleAlert(m), 0
	case *wire.GoIntoBootMode:
		return []wire.Message{&wire.HubAction{Action: wire.ActionHubWillGoIntoBootMode}}, wire.ActionHubWillGoIntoBootMode
	case *wire.PortInformationRequest:
		return h.handlePortInformation(m), 0
	case *wire.PortModeInformationRequest:
		return h.handlePortModeInformation(m), 0
	case *wire.PortInputFormatSetupSingle:
		return h.handleInputFormat(m), 0
	case *wire.VirtualPortSetup:
		return h.handleVirtualPort(m), 0
	case *wire.PortOutputCommand:
		return h.handleOutput(m), 0
	default:
		return h.genericError(msg.Type(), wire.ErrCodeCommandNotRecognized), 0
	}
}

// genericError runs with mu held.
func (h *Hub) genericError(t wire.MessageType, code wire.ErrorCode) []wire.Message {
	c := int(code)
	ev := h.eventLocked(log.DirectionOut, log.LayerService, log.CategoryError)
	ev.Error = &log.ErrorEventData{Layer: log.LayerService, Message: code.String(), Code: &c, Context: t.String()}
	h.plog.Log(ev)
	return []wire.Message{&wire.GenericError{CommandType: t, Code: code}}
}

// flush sends msgs to the peer in order. It must not be called with mu
// held.
func (h *Hub) flush(msgs ...wire.Message) {
	for _, msg := range msgs {
		if err := h.send(msg); err != nil {
			if !errors.Is(err, transport.ErrNotConnected) {
				h.logger.Warn("send failed", "msg", msg.Type(), "error", err)
			}
			return
		}
	}
}

func (h *Hub) send(msg wire.Message) error {
	frame, err := wire.Encode(msg)
	if err != nil {
		return err
	}
	h.logMessage(log.DirectionOut, msg)
	return h.link.Notify(frame)
}

// ---------------------------------------------------------------------------
// Peer lifecycle
// ---------------------------------------------------------------------------

func (h *Hub) peerStateChanged(connected bool) {
	if connected {
		h.mu.Lock()
		h.connected = true
		h.connID = uuid.NewString()
		out := h.announce()
		h.mu.Unlock()

		h.logState(log.StateEntityHub, nil, "ADVERTISING", "CONNECTED", "")
		h.logger.Info("host connected", "hub", h.Name())
		h.flush(out...)
		return
	}

	h.mu.Lock()
	h.connected = false
	h.resetSession()
	h.mu.Unlock()

	h.logState(log.StateEntityHub, nil, "CONNECTED", "ADVERTISING", "peer gone")
	h.logger.Info("host disconnected", "hub", h.Name())
}

// announce reports every attached port in id order.
func (h *Hub) announce() []wire.Message {
	var out []wire.Message
	for _, id := range h.portIDs() {
		msg, err := h.attachedIO(h.ports[id])
		if err != nil {
			h.logger.Warn("port not announced", "port", id, "error", err)
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (h *Hub) attachedIO(p *port) (wire.Message, error) {
	if p.virtual {
		return &wire.HubAttachedIO{
			PortID: p.id,
			Event:  wire.IOAttachedVirtual,
			IOType: p.ioType,
			PortA:  p.a,
			PortB:  p.b,
		}, nil
	}
	return p.def.Attached()
}

func (h *Hub) portIDs() []uint8 {
	ids := make([]uint8, 0, len(h.ports))
	for id := range h.ports {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// resetSession drops everything a host set up during its connection.
func (h *Hub) resetSession() {
	clear(h.subscriptions)
	clear(h.alerts)
	h.timers.CancelAll()
	h.buffers.Reset()
	for _, p := range h.ports {
		p.running, p.pending = nil, nil
		p.format = nil
		p.reported = false
	}
}

// ---------------------------------------------------------------------------
// Protocol logging
// ---------------------------------------------------------------------------

func (h *Hub) event(dir log.Direction, layer log.Layer, cat log.Category) log.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eventLocked(dir, layer, cat)
}

func (h *Hub) eventLocked(dir log.Direction, layer log.Layer, cat log.Category) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: h.connID,
		Direction:    dir,
		Layer:        layer,
		Category:     cat,
		LocalRole:    log.RoleHub,
		HubName:      h.name,
	}
}

func (h *Hub) logMessage(dir log.Direction, msg wire.Message) {
	ev := h.event(dir, log.LayerWire, log.CategoryMessage)
	ev.Message = log.NewMessageEvent(msg)
	h.plog.Log(ev)
}

func (h *Hub) logError(layer log.Layer, msg string, code *int, context string) {
	ev := h.event(log.DirectionOut, layer, log.CategoryError)
	ev.Error = &log.ErrorEventData{Layer: layer, Message: msg, Code: code, Context: context}
	h.plog.Log(ev)
}

func (h *Hub) logState(entity log.StateEntity, portID *uint8, oldState, newState, reason string) {
	ev := h.event(log.DirectionOut, log.LayerService, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		Entity:   entity,
		PortID:   portID,
		OldState: oldState,
		NewState: newState,
		Reason:   reason,
	}
	h.plog.Log(ev)
}

// logBufferState runs with mu held.
func (h *Hub) logBufferState(portID uint8, oldState, newState buffering.State) {
	ev := h.eventLocked(log.DirectionOut, log.LayerService, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityPortBuffer,
		PortID:   &portID,
		OldState: oldState.String(),
		NewState: newState.String(),
	}
	h.plog.Log(ev)
}
