package buffering

import (
	"sort"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// Ports keeps one machine per port id, created on first use.
type Ports struct {
	machines map[uint8]*Machine

	onStateChange func(port uint8, oldState, newState State)
}

// NewPorts returns an empty registry.
func NewPorts() *Ports {
	return &Ports{machines: make(map[uint8]*Machine)}
}

// OnStateChange sets a callback invoked after any port changes state.
// It applies to machines created before and after the call.
func (p *Ports) OnStateChange(fn func(port uint8, oldState, newState State)) {
	p.onStateChange = fn
}

// Machine returns the machine for port, creating an idle one if needed.
func (p *Ports) Machine(port uint8) *Machine {
	m, ok := p.machines[port]
	if !ok {
		m = NewMachine()
		m.OnStateChange(func(oldState, newState State) {
			if p.onStateChange != nil {
				p.onStateChange(port, oldState, newState)
			}
		})
		p.machines[port] = m
	}
	return m
}

// Handle applies ev to port and returns the feedback entry to report.
func (p *Ports) Handle(port uint8, ev Event) wire.PortFeedback {
	return wire.PortFeedback{PortID: port, Feedback: p.Machine(port).Handle(ev)}
}

// State returns the state of port. Unknown ports are idle.
func (p *Ports) State(port uint8) State {
	if m, ok := p.machines[port]; ok {
		return m.State()
	}
	return StateIdle
}

// Busy returns the ids of ports that are running a command, in order.
func (p *Ports) Busy() []uint8 {
	var out []uint8
	for id, m := range p.machines {
		if m.Busy() {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset returns every port to idle.
func (p *Ports) Reset() {
	for _, m := range p.machines {
		m.Reset()
	}
}
