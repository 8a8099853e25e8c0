package wire

// BootSafetyString must follow the header of a boot mode request.
const BootSafetyString = "LPF2-Boot"

// GoIntoBootMode asks the hub to enter firmware update mode (0x10).
type GoIntoBootMode struct {
	Envelope
}

func (m *GoIntoBootMode) Type() MessageType { return TypeFWUpdateGoIntoBootMode }

func (m *GoIntoBootMode) Encode() ([]byte, error) {
	return encodeFrame(m.HubID, m.Type(), []byte(BootSafetyString))
}

func (m *GoIntoBootMode) String() string {
	return "GoIntoBootMode{}"
}

func decodeGoIntoBootMode(f frame) (Message, error) {
	if err := f.need(len(BootSafetyString)); err != nil {
		return nil, err
	}
	if got := string(f.payload[:len(BootSafetyString)]); got != BootSafetyString {
		return nil, unknownShape(f.Type, "safety string %q", got)
	}
	return &GoIntoBootMode{Envelope: Envelope{HubID: f.HubID}}, nil
}
