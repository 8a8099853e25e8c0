package hub

import (
	"fmt"
	"sort"

	"github.com/lego-wireless/lwp-go/pkg/buffering"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// Status is a snapshot of the hub state.
type Status struct {
	Name           string
	Connected      bool
	Button         bool
	Battery        uint8
	NetworkID      wire.NetworkID
	NetworkFamily  wire.NetworkFamily
	BusyIndicator  bool
	VCCPortControl bool

	Subscriptions []wire.Property
	Alerts        []wire.AlertType
	Ports         []PortStatus
}

// PortStatus is a snapshot of one attached port.
type PortStatus struct {
	ID      uint8
	IOType  wire.IOType
	Virtual bool
	A, B    uint8

	Buffer buffering.State

	// Format is the input format set by the host, if any.
	Format *wire.InputFormat
}

// Status returns a snapshot of the hub state.
func (h *Hub) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := Status{
		Name:           h.name,
		Connected:      h.connected,
		Button:         h.button,
		Battery:        h.battery,
		NetworkID:      h.networkID,
		NetworkFamily:  h.family,
		BusyIndicator:  h.busy,
		VCCPortControl: h.vcc,
	}
	for p := range h.subscriptions {
		st.Subscriptions = append(st.Subscriptions, p)
	}
	sort.Slice(st.Subscriptions, func(i, j int) bool { return st.Subscriptions[i] < st.Subscriptions[j] })
	for a := range h.alerts {
		st.Alerts = append(st.Alerts, a)
	}
	sort.Slice(st.Alerts, func(i, j int) bool { return st.Alerts[i] < st.Alerts[j] })

	for _, id := range h.portIDs() {
		p := h.ports[id]
		ps := PortStatus{
			ID:      p.id,
			IOType:  p.ioType,
			Virtual: p.virtual,
			A:       p.a,
			B:       p.b,
			Buffer:  h.buffers.State(p.id),
		}
		if p.format != nil {
			f := *p.format
			ps.Format = &f
		}
		st.Ports = append(st.Ports, ps)
	}
	return st
}

// Name returns the current advertising name.
func (h *Hub) Name() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.name
}

// Connected reports whether a host is connected.
func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected
}

// Button reports whether the button is pressed.
func (h *Hub) Button() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.button
}

// Battery returns the battery level in percent.
func (h *Hub) Battery() uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.battery
}

// PortState returns the buffer state of a port.
func (h *Hub) PortState(portID uint8) buffering.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.buffers.State(portID)
}

// AdvertisingData returns the manufacturer data the hub would advertise
// now.
func (h *Hub) AdvertisingData() wire.AdvertisingData {
	h.mu.Lock()
	defer h.mu.Unlock()

	ad := h.profile.AdvertisingData()
	ad.Button = h.button
	ad.LastNetwork = h.networkID
	return ad
}

// PressButton presses the hub's green button.
func (h *Hub) PressButton() { h.setButton(true) }

// ReleaseButton releases the hub's green button.
func (h *Hub) ReleaseButton() { h.setButton(false) }

func (h *Hub) setButton(pressed bool) {
	h.mu.Lock()
	changed := h.button != pressed
	h.button = pressed
	var out []wire.Message
	if changed {
		out = h.notifyProperty(wire.PropButton)
	}
	h.mu.Unlock()

	h.flush(out...)
}

// SetBattery sets the battery level in percent.
func (h *Hub) SetBattery(percent uint8) error {
	if percent > 100 {
		return fmt.Errorf("battery %d%%: %w", percent, ErrInvalidValue)
	}

	h.mu.Lock()
	h.battery = percent
	out := h.notifyProperty(wire.PropBatteryVoltage)
	h.mu.Unlock()

	h.flush(out...)
	return nil
}

// SetRSSI sets the reported signal strength in dBm.
func (h *Hub) SetRSSI(dbm int8) {
	h.mu.Lock()
	h.rssi = dbm
	out := h.notifyProperty(wire.PropRSSI)
	h.mu.Unlock()

	h.flush(out...)
}

// RaiseAlert sets or clears an alert. Hosts that enabled updates for it
// are told.
func (h *Hub) RaiseAlert(alert wire.AlertType, active bool) error {
	if alert < wire.AlertLowVoltage || alert > wire.AlertOverPower {
		return fmt.Errorf("%s: %w", alert, ErrInvalidValue)
	}

	h.mu.Lock()
	if active {
		h.activeAlerts[alert] = true
	} else {
		delete(h.activeAlerts, alert)
	}
	var out []wire.Message
	if h.connected && h.alerts[alert] {
		out = append(out, h.alertUpdate(alert))
	}
	h.mu.Unlock()

	h.flush(out...)
	return nil
}

// Attach connects a device to a free port.
func (h *Hub) Attach(def PortDef) error {
	if err := def.validate(); err != nil {
		return fmt.Errorf("port 0x%02X: %w", def.ID, err)
	}

	h.mu.Lock()
	if _, used := h.ports[def.ID]; used {
		h.mu.Unlock()
		return fmt.Errorf("port 0x%02X: %w", def.ID, ErrPortInUse)
	}
	p := &port{id: def.ID, ioType: def.IOType, def: &def}
	h.ports[def.ID] = p
	var out []wire.Message
	if h.connected {
		msg, err := h.attachedIO(p)
		if err != nil {
			delete(h.ports, def.ID)
			h.mu.Unlock()
			return err
		}
		out = append(out, msg)
	}
	h.mu.Unlock()

	h.logger.Info("device attached", "port", def.ID, "io_type", def.IOType)
	h.flush(out...)
	return nil
}

// Detach removes the device on a port. Virtual ports built on it go
// with it.
func (h *Hub) Detach(portID uint8) error {
	h.mu.Lock()
	p, ok := h.ports[portID]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("port 0x%02X: %w", portID, ErrUnknownPort)
	}

	var out []wire.Message
	if !p.virtual {
		for _, id := range h.portIDs() {
			v := h.ports[id]
			if v.virtual && (v.a == portID || v.b == portID) {
				out = append(out, h.detach(v)...)
			}
		}
	}
	out = append(out, h.detach(p)...)
	connected := h.connected
	h.mu.Unlock()

	h.logger.Info("device detached", "port", portID)
	if connected {
		h.flush(out...)
	}
	return nil
}

// Interrupt discards the running and buffered commands of a port.
func (h *Hub) Interrupt(portID uint8) error {
	h.mu.Lock()
	p, ok := h.ports[portID]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("port 0x%02X: %w", portID, ErrUnknownPort)
	}
	out := h.interrupt(p)
	connected := h.connected
	h.mu.Unlock()

	if connected {
		h.flush(out...)
	}
	return nil
}

// SendValue sets the sensor value of a port. It is reported to the host
// when the port's input format enables notifications and the change
// reaches the format's delta. The result tells whether it was sent.
func (h *Hub) SendValue(portID uint8, v wire.Value) (bool, error) {
	if v.Kind().Size() == 0 {
		return false, fmt.Errorf("%s: %w", v.Kind(), ErrInvalidValue)
	}

	h.mu.Lock()
	p, ok := h.ports[portID]
	if !ok {
		h.mu.Unlock()
		return false, fmt.Errorf("port 0x%02X: %w", portID, ErrUnknownPort)
	}
	p.value, p.hasValue = v, true

	var out []wire.Message
	if h.connected && p.shouldReport(v) {
		p.lastSent, p.reported = v, true
		out = append(out, &wire.PortValueSingle{
			Values: []wire.PortValue{{PortID: portID, Value: v}},
		})
	}
	h.mu.Unlock()

	h.flush(out...)
	return len(out) > 0, nil
}
