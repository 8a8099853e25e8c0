package hub

import (
	"time"

	"github.com/lego-wireless/lwp-go/pkg/buffering"
	"github.com/lego-wireless/lwp-go/pkg/output"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// The handlers in this file run with mu held.

// firstVirtualPort is where virtual port ids are allocated from.
const firstVirtualPort = 0x10

func (h *Hub) handlePortInformation(m *wire.PortInformationRequest) []wire.Message {
	p, ok := h.ports[m.PortID]
	if !ok {
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}

	switch m.Info {
	case wire.InfoModeInfo:
		caps, count, in, out := p.def.ModeMasks()
		return []wire.Message{&wire.PortInformation{
			PortID:       p.id,
			Info:         wire.InfoModeInfo,
			Capabilities: caps,
			ModeCount:    count,
			InputModes:   in,
			OutputModes:  out,
		}}
	case wire.InfoPossibleModeCombinations:
		if !p.def.Capabilities.Has(wire.PortCapLogicalCombinable) {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		return []wire.Message{&wire.PortInformation{
			PortID:       p.id,
			Info:         wire.InfoPossibleModeCombinations,
			Combinations: append([]uint16(nil), p.def.Combinations...),
		}}
	case wire.InfoPortValue:
		return []wire.Message{&wire.PortValueSingle{
			Values: []wire.PortValue{{PortID: p.id, Value: p.currentValue()}},
		}}
	default:
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
}

func (h *Hub) handlePortModeInformation(m *wire.PortModeInformationRequest) []wire.Message {
	p, ok := h.ports[m.PortID]
	if !ok || int(m.Mode) >= len(p.def.Modes) {
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
	mode := &p.def.Modes[m.Mode]

	reply := &wire.PortModeInformation{PortID: p.id, Mode: m.Mode, Info: m.Info}
	switch m.Info {
	case wire.ModeInfoName:
		reply.Text = mode.Name
	case wire.ModeInfoSymbol:
		if mode.Symbol == "" {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		reply.Text = mode.Symbol
	case wire.ModeInfoRaw:
		reply.Min, reply.Max = mode.Raw.Min, mode.Raw.Max
	case wire.ModeInfoPercent:
		reply.Min, reply.Max = mode.Percent.Min, mode.Percent.Max
	case wire.ModeInfoSI:
		reply.Min, reply.Max = mode.SI.Min, mode.SI.Max
	case wire.ModeInfoMapping:
		reply.InputMapping, reply.OutputMapping = mode.InputMapping, mode.OutputMapping
	case wire.ModeInfoMotorBias:
		if mode.MotorBias == nil {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		reply.MotorBias = *mode.MotorBias
	case wire.ModeInfoCapabilityBits:
		if len(mode.CapabilityBits) == 0 {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		copy(reply.CapabilityBits[:], mode.CapabilityBits)
	case wire.ModeInfoValueFormat:
		reply.Format = mode.Format
	default:
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
	return []wire.Message{reply}
}

func (h *Hub) handleInputFormat(m *wire.PortInputFormatSetupSingle) []wire.Message {
	p, ok := h.ports[m.PortID]
	if !ok || int(m.Mode) >= len(p.def.Modes) {
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
	format := m.InputFormat
	p.format = &format
	p.reported = false
	return []wire.Message{&wire.PortInputFormatSingle{InputFormat: format}}
}

func (h *Hub) handleVirtualPort(m *wire.VirtualPortSetup) []wire.Message {
	switch m.SubCommand {
	case wire.VirtualPortConnect:
		a, okA := h.ports[m.PortA]
		b, okB := h.ports[m.PortB]
		if !okA || !okB || a.virtual || b.virtual || m.PortA == m.PortB {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		for _, p := range h.ports {
			if p.virtual && p.a == m.PortA && p.b == m.PortB {
				msg, _ := h.attachedIO(p)
				return []wire.Message{msg}
			}
		}
		id, ok := h.freeVirtualPort()
		if !ok {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		p := &port{id: id, ioType: a.ioType, def: a.def, virtual: true, a: m.PortA, b: m.PortB}
		h.ports[id] = p
		h.logger.Info("virtual port attached", "port", id, "a", m.PortA, "b", m.PortB)
		msg, _ := h.attachedIO(p)
		return []wire.Message{msg}

	case wire.VirtualPortDisconnect:
		p, ok := h.ports[m.PortID]
		if !ok || !p.virtual {
			return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
		}
		out := h.detach(p)
		h.logger.Info("virtual port detached", "port", p.id)
		return out

	default:
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
}

func (h *Hub) freeVirtualPort() (uint8, bool) {
	for id := firstVirtualPort; id <= 0xFF; id++ {
		if _, used := h.ports[uint8(id)]; !used {
			return uint8(id), true
		}
	}
	return 0, false
}

// detach removes p, discarding its commands.
func (h *Hub) detach(p *port) []wire.Message {
	out := h.interrupt(p)
	delete(h.ports, p.id)
	return append(out, &wire.HubAttachedIO{PortID: p.id, Event: wire.IODetached})
}

// ---------------------------------------------------------------------------
// Output commands
// ---------------------------------------------------------------------------

func (h *Hub) handleOutput(m *wire.PortOutputCommand) []wire.Message {
	p, ok := h.ports[m.PortID]
	if !ok {
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}

	ev := buffering.EventFor(m.Startup)
	busy := h.isBusy(p)
	fb := h.buffers.Handle(p.id, ev)
	if fb.Feedback == 0 {
		return h.genericError(m.Type(), wire.ErrCodeBufferOverflow)
	}

	var out []wire.Message
	if m.Startup.Feedback() {
		out = append(out, feedback(fb))
	}

	cmd := &command{msg: m, duration: h.runTime(m)}
	if busy && ev == buffering.EventBuffering {
		p.pending = cmd
		return out
	}

	p.pending = nil
	p.running = cmd
	return h.start(p, cmd, out)
}

func (h *Hub) runTime(m *wire.PortOutputCommand) time.Duration {
	if d, ok := output.Duration(m); ok {
		return d
	}
	return h.config.CommandDuration
}

// start runs cmd on p, completing it at once when it has no run time.
func (h *Hub) start(p *port, cmd *command, out []wire.Message) []wire.Message {
	h.logger.Debug("command started", "port", p.id, "cmd", cmd.msg.SubCommand, "duration", cmd.duration)
	if cmd.duration <= 0 {
		_ = h.timers.CancelTimer(p.id)
		return h.complete(p, out)
	}
	if err := h.timers.SetTimer(p.id, cmd.duration, cmd); err != nil {
		h.logger.Warn("command run time rejected", "port", p.id, "duration", cmd.duration, "error", err)
		return h.complete(p, out)
	}
	return out
}

// complete finishes the running command of p and starts the buffered
// one, if any.
func (h *Hub) complete(p *port, out []wire.Message) []wire.Message {
	done := p.running
	if done == nil {
		return out
	}
	fb := h.buffers.Handle(p.id, buffering.EventCompleted)
	p.running = nil
	if done.msg.Startup.Feedback() {
		out = append(out, feedback(fb))
	}

	if next := p.pending; next != nil {
		p.pending = nil
		p.running = next
		return h.start(p, next, out)
	}
	return out
}

// interrupt discards the running and buffered commands of p.
func (h *Hub) interrupt(p *port) []wire.Message {
	running := p.running
	_ = h.timers.CancelTimer(p.id)
	fb := h.buffers.Handle(p.id, buffering.EventInterrupt)
	p.running, p.pending = nil, nil
	if running != nil && fb.Feedback != 0 && running.msg.Startup.Feedback() {
		return []wire.Message{feedback(fb)}
	}
	return nil
}

func (h *Hub) commandExpired(portID uint8, cmd *command) {
	h.mu.Lock()
	p, ok := h.ports[portID]
	if !ok || p.running != cmd {
		h.mu.Unlock()
		return
	}
	out := h.complete(p, nil)
	connected := h.connected
	h.mu.Unlock()

	if connected {
		h.flush(out...)
	}
}

func feedback(fb wire.PortFeedback) *wire.PortOutputCommandFeedback {
	return &wire.PortOutputCommandFeedback{Feedbacks: []wire.PortFeedback{fb}}
}

// ---------------------------------------------------------------------------
// Values
// ---------------------------------------------------------------------------

// currentValue returns the last value of p, or zero in the format of its
// input mode.
func (p *port) currentValue() wire.Value {
	if p.hasValue {
		return p.value
	}
	var mode uint8
	if p.format != nil {
		mode = p.format.Mode
	}
	kind := wire.KindU8
	if int(mode) < len(p.def.Modes) {
		kind = p.def.Modes[mode].Format.Kind
	}
	switch kind {
	case wire.KindU16:
		return wire.U16(0)
	case wire.KindU32:
		return wire.U32(0)
	case wire.KindF32:
		return wire.F32(0)
	default:
		return wire.U8(0)
	}
}

// shouldReport reports whether v is to be sent under the port's input
// format: notifications on, and the change since the last report at
// least the format's delta.
func (p *port) shouldReport(v wire.Value) bool {
	if p.format == nil || !p.format.Notification {
		return false
	}
	if !p.reported || p.format.Delta == 0 {
		return true
	}
	diff := signed(v) - signed(p.lastSent)
	if diff < 0 {
		diff = -diff
	}
	return diff >= float64(p.format.Delta)
}

// signed interprets a value as the signed quantity sensors report.
func signed(v wire.Value) float64 {
	switch v.Kind() {
	case wire.KindU8:
		return float64(int8(v.Uint()))
	case wire.KindU16:
		return float64(int16(v.Uint()))
	case wire.KindU32:
		return float64(int32(v.Uint()))
	default:
		return float64(v.Float())
	}
}

// isBusy reports whether a command runs on p.
func (h *Hub) isBusy(p *port) bool {
	return h.buffers.State(p.id) != buffering.StateIdle
}
