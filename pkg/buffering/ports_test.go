package buffering

import (
	"reflect"
	"testing"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

func TestPortsIndependent(t *testing.T) {
	p := NewPorts()

	fb := p.Handle(0, EventBuffering)
	if fb != (wire.PortFeedback{PortID: 0, Feedback: wire.FeedbackInProgress}) {
		t.Errorf("port 0 feedback = %+v", fb)
	}
	p.Handle(0, EventBuffering)
	p.Handle(1, EventImmediate)

	if p.State(0) != StateBusyFull {
		t.Errorf("port 0 State = %v, want BusyFull", p.State(0))
	}
	if p.State(1) != StateBusyEmpty {
		t.Errorf("port 1 State = %v, want BusyEmpty", p.State(1))
	}
	if p.State(5) != StateIdle {
		t.Errorf("unknown port State = %v, want Idle", p.State(5))
	}
	if got := p.Busy(); !reflect.DeepEqual(got, []uint8{0, 1}) {
		t.Errorf("Busy() = %v, want [0 1]", got)
	}

	p.Reset()
	if len(p.Busy()) != 0 {
		t.Errorf("Busy() after Reset = %v", p.Busy())
	}
}

func TestPortsStateChangeCallback(t *testing.T) {
	p := NewPorts()
	p.Machine(3)

	type change struct {
		port     uint8
		old, new State
	}
	var got []change
	p.OnStateChange(func(port uint8, oldState, newState State) {
		got = append(got, change{port, oldState, newState})
	})

	p.Handle(3, EventImmediate)
	p.Handle(4, EventBuffering)

	want := []change{
		{3, StateIdle, StateBusyEmpty},
		{4, StateIdle, StateBusyEmpty},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("changes = %+v, want %+v", got, want)
	}
}
