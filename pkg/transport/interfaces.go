package transport

// Link connects the hub to a single peer.
type Link interface {
	// Notify sends one complete frame to the peer.
	Notify(frame []byte) error

	// OnIncoming registers the callback invoked once per received frame.
	// The callback runs on the link's read goroutine.
	OnIncoming(fn func(frame []byte))

	// OnPeerStateChanged registers the callback invoked when a peer
	// connects (true) or goes away (false).
	OnPeerStateChanged(fn func(connected bool))
}

// FrameReadWriter reads and writes whole LWP frames.
type FrameReadWriter interface {
	ReadFrame() ([]byte, error)
	WriteFrame(frame []byte) error
}

var (
	_ Link            = (*StreamLink)(nil)
	_ Link            = (*Server)(nil)
	_ Link            = (*SerialLink)(nil)
	_ FrameReadWriter = (*Framer)(nil)
)
