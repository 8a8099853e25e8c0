package log

import (
	"time"

	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// MaxFrameData is the number of frame bytes kept in a FrameEvent.
const MaxFrameData = 256

// Event is one protocol log record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	Timestamp    time.Time `cbor:"1,keyasint"`
	ConnectionID string    `cbor:"2,keyasint"`
	Direction    Direction `cbor:"3,keyasint"`
	Layer        Layer     `cbor:"4,keyasint"`
	Category     Category  `cbor:"5,keyasint"`

	// LocalRole is whether the logging side plays the hub or the host.
	LocalRole  Role   `cbor:"6,keyasint,omitempty"`
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// HubName is the advertising name of the hub at the time of the event.
	HubName string `cbor:"8,keyasint,omitempty"`

	// Exactly one of these is set.
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates message flow relative to the logging side.
type Direction uint8

const (
	DirectionIn  Direction = 0
	DirectionOut Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	LayerTransport Layer = 0
	LayerWire      Layer = 1
	LayerService   Layer = 2
)

func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event.
type Category uint8

const (
	CategoryMessage Category = 0
	CategoryState   Category = 1
	CategoryError   Category = 2
)

func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role is the part the logging side plays on the link.
type Role uint8

const (
	RoleHub  Role = 0
	RoleHost Role = 1
)

func (r Role) String() string {
	switch r {
	case RoleHub:
		return "HUB"
	case RoleHost:
		return "HOST"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent holds raw frame bytes at the transport layer.
type FrameEvent struct {
	// Size is the full frame size, header included.
	Size      int    `cbor:"1,keyasint"`
	Data      []byte `cbor:"2,keyasint,omitempty"`
	Truncated bool   `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent copies frame, keeping at most MaxFrameData bytes.
func NewFrameEvent(frame []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(frame)}
	n := len(frame)
	if n > MaxFrameData {
		n = MaxFrameData
		fe.Truncated = true
	}
	fe.Data = append([]byte(nil), frame[:n]...)
	return fe
}

// MessageEvent summarizes a decoded message.
type MessageEvent struct {
	Type  wire.MessageType `cbor:"1,keyasint"`
	HubID uint8            `cbor:"2,keyasint,omitempty"`

	// PortID is set for port related messages.
	PortID *uint8 `cbor:"3,keyasint,omitempty"`

	// Summary is the message's String form.
	Summary string `cbor:"4,keyasint,omitempty"`
}

// NewMessageEvent builds a MessageEvent from a decoded message.
func NewMessageEvent(msg wire.Message) *MessageEvent {
	me := &MessageEvent{
		Type:    msg.Type(),
		HubID:   msg.Hub(),
		Summary: msg.String(),
	}
	if port, ok := portOf(msg); ok {
		me.PortID = &port
	}
	return me
}

func portOf(msg wire.Message) (uint8, bool) {
	switch m := msg.(type) {
	case *wire.HubAttachedIO:
		return m.PortID, true
	case *wire.PortInformationRequest:
		return m.PortID, true
	case *wire.PortModeInformationRequest:
		return m.PortID, true
	case *wire.PortInformation:
		return m.PortID, true
	case *wire.PortModeInformation:
		return m.PortID, true
	case *wire.PortInputFormatSetupSingle:
		return m.PortID, true
	case *wire.PortInputFormatSingle:
		return m.PortID, true
	case *wire.PortInputFormatSetupCombined:
		return m.PortID, true
	case *wire.PortInputFormatCombined:
		return m.PortID, true
	case *wire.PortValueCombined:
		return m.PortID, true
	case *wire.VirtualPortSetup:
		return m.PortID, true
	case *wire.PortOutputCommand:
		return m.PortID, true
	case *wire.PortValueSingle:
		if len(m.Values) == 1 {
			return m.Values[0].PortID, true
		}
	case *wire.PortOutputCommandFeedback:
		if len(m.Feedbacks) == 1 {
			return m.Feedbacks[0].PortID, true
		}
	}
	return 0, false
}

// StateChangeEvent records a lifecycle change.
type StateChangeEvent struct {
	Entity StateEntity `cbor:"1,keyasint"`

	// PortID is set for port buffer changes.
	PortID   *uint8 `cbor:"2,keyasint,omitempty"`
	OldState string `cbor:"3,keyasint,omitempty"`
	NewState string `cbor:"4,keyasint"`
	Reason   string `cbor:"5,keyasint,omitempty"`
}

// StateEntity is what changed state.
type StateEntity uint8

const (
	StateEntityPeer       StateEntity = 0
	StateEntityHub        StateEntity = 1
	StateEntityPortBuffer StateEntity = 2
)

func (s StateEntity) String() string {
	switch s {
	case StateEntityPeer:
		return "PEER"
	case StateEntityHub:
		return "HUB"
	case StateEntityPortBuffer:
		return "PORT_BUFFER"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Code is the LWP error code when a GenericError was sent or received.
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what was being done.
	Context string `cbor:"4,keyasint,omitempty"`
}
