package hub

import (
	"fmt"
	"unicode/utf8"

	"github.com/lego-wireless/lwp-go/pkg/persistence"
	"github.com/lego-wireless/lwp-go/pkg/wire"
)

// The handlers in this file run with mu held.

func (h *Hub) handleProperty(m *wire.HubProperty) []wire.Message {
	switch m.Operation {
	case wire.PropOpRequestUpdate:
		return h.propertyUpdate(m.Property)
	case wire.PropOpEnableUpdates:
		out := h.propertyUpdate(m.Property)
		if _, ok := out[0].(*wire.HubProperty); ok {
			h.subscriptions[m.Property] = true
		}
		return out
	case wire.PropOpDisableUpdates:
		delete(h.subscriptions, m.Property)
		return nil
	case wire.PropOpSet:
		return h.setProperty(m.Property, m.Payload)
	case wire.PropOpReset:
		return h.resetProperty(m.Property)
	default:
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
}

// propertyUpdate answers with the current value of p.
func (h *Hub) propertyUpdate(p wire.Property) []wire.Message {
	payload, err := h.propertyPayload(p)
	if err != nil {
		h.logger.Debug("property not reported", "property", p, "error", err)
		return h.genericError(wire.TypeHubProperties, wire.ErrCodeInvalidUse)
	}
	return []wire.Message{&wire.HubProperty{
		Property:  p,
		Operation: wire.PropOpUpdate,
		Payload:   payload,
	}}
}

// notifyProperty returns an update for p if the host subscribed to it.
func (h *Hub) notifyProperty(p wire.Property) []wire.Message {
	if !h.connected || !h.subscriptions[p] {
		return nil
	}
	return h.propertyUpdate(p)
}

func (h *Hub) propertyPayload(p wire.Property) ([]byte, error) {
	prof := h.profile
	switch p {
	case wire.PropAdvertisingName:
		return []byte(h.name), nil
	case wire.PropButton:
		if h.button {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case wire.PropFWVersion:
		return prof.Firmware.Bytes()
	case wire.PropHWVersion:
		return prof.Hardware.Bytes()
	case wire.PropRSSI:
		return []byte{byte(h.rssi)}, nil
	case wire.PropBatteryVoltage:
		return []byte{h.battery}, nil
	case wire.PropBatteryType:
		return []byte{byte(prof.BatteryType)}, nil
	case wire.PropManufacturerName:
		return []byte(prof.Manufacturer), nil
	case wire.PropRadioFirmwareVersion:
		return []byte(prof.RadioFirmware), nil
	case wire.PropLWPVersion:
		return prof.Protocol.Bytes()
	case wire.PropSystemTypeID:
		return []byte{byte(prof.SystemDevice)}, nil
	case wire.PropHWNetworkID:
		return []byte{byte(h.networkID)}, nil
	case wire.PropPrimaryMAC:
		return parseMAC(prof.PrimaryMAC)
	case wire.PropSecondaryMAC:
		return parseMAC(prof.SecondaryMAC)
	case wire.PropHWNetworkFamily:
		return []byte{byte(h.family)}, nil
	default:
		return nil, fmt.Errorf("%s: %w", p, ErrInvalidValue)
	}
}

func (h *Hub) setProperty(p wire.Property, payload []byte) []wire.Message {
	switch p {
	case wire.PropAdvertisingName:
		if len(payload) == 0 || len(payload) > MaxNameLen || !utf8.Valid(payload) {
			return h.genericError(wire.TypeHubProperties, wire.ErrCodeInvalidUse)
		}
		h.name = string(payload)
	case wire.PropHWNetworkID:
		if len(payload) != 1 {
			return h.genericError(wire.TypeHubProperties, wire.ErrCodeInvalidUse)
		}
		h.networkID = wire.NetworkID(payload[0])
	case wire.PropHWNetworkFamily:
		if len(payload) != 1 || payload[0] > uint8(wire.FamilyPink) {
			return h.genericError(wire.TypeHubProperties, wire.ErrCodeInvalidUse)
		}
		h.family = wire.NetworkFamily(payload[0])
	default:
		return h.genericError(wire.TypeHubProperties, wire.ErrCodeInvalidUse)
	}
	h.logger.Info("hub property set", "property", p, "payload", fmt.Sprintf("% X", payload))
	h.saveState()
	return h.notifyProperty(p)
}

func (h *Hub) resetProperty(p wire.Property) []wire.Message {
	switch p {
	case wire.PropAdvertisingName:
		h.name = h.profile.Name
	case wire.PropHWNetworkID:
		h.networkID = h.profile.NetworkID
	default:
		return h.genericError(wire.TypeHubProperties, wire.ErrCodeInvalidUse)
	}
	h.saveState()
	return h.notifyProperty(p)
}

// ---------------------------------------------------------------------------
// Alerts
// ---------------------------------------------------------------------------

func (h *Hub) handleAlert(m *wire.HubAlert) []wire.Message {
	if m.Alert < wire.AlertLowVoltage || m.Alert > wire.AlertOverPower {
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
	switch m.Operation {
	case wire.AlertOpEnableUpdates:
		h.alerts[m.Alert] = true
		return []wire.Message{h.alertUpdate(m.Alert)}
	case wire.AlertOpDisableUpdates:
		delete(h.alerts, m.Alert)
		return nil
	case wire.AlertOpRequestUpdate:
		return []wire.Message{h.alertUpdate(m.Alert)}
	default:
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse)
	}
}

func (h *Hub) alertUpdate(a wire.AlertType) *wire.HubAlert {
	status := wire.AlertStatusOK
	if h.activeAlerts[a] {
		status = wire.AlertActive
	}
	return &wire.HubAlert{Alert: a, Operation: wire.AlertOpUpdate, Payload: status}
}

// ---------------------------------------------------------------------------
// Actions
// ---------------------------------------------------------------------------

func (h *Hub) handleAction(m *wire.HubAction) ([]wire.Message, wire.ActionType) {
	switch m.Action {
	case wire.ActionSwitchOffHub:
		return []wire.Message{&wire.HubAction{Action: wire.ActionHubWillSwitchOff}}, wire.ActionHubWillSwitchOff
	case wire.ActionDisconnect:
		return []wire.Message{&wire.HubAction{Action: wire.ActionHubWillDisconnect}}, wire.ActionHubWillDisconnect
	case wire.ActionShutdown:
		return nil, wire.ActionShutdown
	case wire.ActionVCCPortControlOn, wire.ActionVCCPortControlOff:
		h.vcc = m.Action == wire.ActionVCCPortControlOn
		return nil, 0
	case wire.ActionActivateBusyIndicator, wire.ActionResetBusyIndicator:
		h.busy = m.Action == wire.ActionActivateBusyIndicator
		return nil, 0
	default:
		return h.genericError(m.Type(), wire.ErrCodeInvalidUse), 0
	}
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

func (h *Hub) loadState() error {
	if h.config.StateStore == nil {
		return nil
	}
	st, err := h.config.StateStore.Load()
	if err != nil || st == nil {
		return err
	}
	if st.Profile != h.profile.ID {
		h.logger.Debug("ignoring state of another profile", "profile", st.Profile)
		return nil
	}
	if st.Name != "" {
		h.name = st.Name
	}
	h.networkID = wire.NetworkID(st.NetworkID)
	h.family = wire.NetworkFamily(st.NetworkFamily)
	return nil
}

func (h *Hub) saveState() {
	if h.config.StateStore == nil {
		return
	}
	err := h.config.StateStore.Save(&persistence.HubState{
		Profile:       h.profile.ID,
		Name:          h.name,
		NetworkID:     uint8(h.networkID),
		NetworkFamily: uint8(h.family),
	})
	if err != nil {
		h.logger.Warn("hub state not saved", "error", err)
	}
}
