package buffering

import "github.com/lego-wireless/lwp-go/pkg/wire"

// State is the buffer state of a port.
type State uint8

const (
	// StateIdle indicates no command is running.
	StateIdle State = iota

	// StateBusyEmpty indicates a command is running with an empty buffer.
	StateBusyEmpty

	// StateBusyFull indicates a command is running and one is buffered.
	StateBusyFull
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateBusyEmpty:
		return "BUSY_EMPTY"
	case StateBusyFull:
		return "BUSY_FULL"
	default:
		return "UNKNOWN"
	}
}

// Event is an input to the state machine.
type Event uint8

const (
	// EventImmediate is a command that must start at once.
	EventImmediate Event = iota

	// EventBuffering is a command that may wait in the buffer.
	EventBuffering

	// EventCompleted reports that the running command finished.
	EventCompleted

	// EventInterrupt discards the running and buffered commands.
	EventInterrupt
)

// String returns a human-readable event name.
func (e Event) String() string {
	switch e {
	case EventImmediate:
		return "COMMAND_FOR_IMMEDIATE_EXECUTION"
	case EventBuffering:
		return "COMMAND_FOR_BUFFERING"
	case EventCompleted:
		return "COMMAND_COMPLETED"
	case EventInterrupt:
		return "INTERRUPT"
	default:
		return "UNKNOWN"
	}
}

// EventFor maps the startup byte of a port output command to the event
// it raises.
func EventFor(s wire.StartupCompletion) Event {
	if s.Immediate() {
		return EventImmediate
	}
	return EventBuffering
}

type transition struct {
	next     State
	feedback wire.Feedback
}

var transitions = map[State]map[Event]transition{
	StateIdle: {
		EventImmediate: {StateBusyEmpty, wire.FeedbackInProgress},
		EventBuffering: {StateBusyEmpty, wire.FeedbackInProgress},
	},
	StateBusyEmpty: {
		EventImmediate: {StateBusyEmpty, wire.FeedbackInProgress | wire.FeedbackDiscarded},
		EventBuffering: {StateBusyFull, wire.FeedbackBusyFull},
		EventCompleted: {StateIdle, wire.FeedbackIdle | wire.FeedbackCompleted},
		EventInterrupt: {StateIdle, wire.FeedbackIdle | wire.FeedbackDiscarded},
	},
	StateBusyFull: {
		EventImmediate: {StateBusyEmpty, wire.FeedbackInProgress | wire.FeedbackDiscarded},
		EventCompleted: {StateBusyEmpty, wire.FeedbackCompleted},
		EventInterrupt: {StateIdle, wire.FeedbackIdle | wire.FeedbackDiscarded},
	},
}

// Machine is the buffer state of one port. The zero value is an idle
// machine.
type Machine struct {
	state State

	onStateChange func(oldState, newState State)
}

// NewMachine returns an idle machine.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Busy reports whether a command is running.
func (m *Machine) Busy() bool {
	return m.state != StateIdle
}

// OnStateChange sets a callback invoked after every state change.
func (m *Machine) OnStateChange(fn func(oldState, newState State)) {
	m.onStateChange = fn
}

// Handle applies ev and returns the feedback flags to report. Events
// that have no transition from the current state return 0.
func (m *Machine) Handle(ev Event) wire.Feedback {
	tr, ok := transitions[m.state][ev]
	if !ok {
		return 0
	}
	old := m.state
	m.state = tr.next
	if old != tr.next && m.onStateChange != nil {
		m.onStateChange(old, tr.next)
	}
	return tr.feedback
}

// Reset returns the machine to idle without reporting feedback.
func (m *Machine) Reset() {
	old := m.state
	m.state = StateIdle
	if old != StateIdle && m.onStateChange != nil {
		m.onStateChange(old, StateIdle)
	}
}
