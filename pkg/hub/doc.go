// Package hub emulates a LEGO Wireless Protocol hub.
//
// A Hub answers the host side of LWP 3.0 over a transport.Link. What it
// reports comes from a Profile: the hub properties, the attached I/O and
// the mode information of every port. Profiles are YAML files; a few are
// embedded and can be listed with AvailableProfiles.
//
// # Host requests
//
// The hub handles:
//   - Hub properties: updates, subscriptions, Set and Reset for the
//     advertising name and the hardware network settings
//   - Hub actions and alerts
//   - Port and port mode information requests
//   - Input format setup, echoed back as the current format
//   - Virtual port setup
//   - Port output commands, tracked by the per-port buffering state
//     machine with feedback sent as commands are accepted, completed and
//     discarded
//
// Anything else is answered with a Generic Error Message.
//
// # Operator API
//
// The emulator's console drives the device side with PressButton,
// SetBattery, RaiseAlert, Attach, Detach and SendValue. Status returns a
// snapshot for display.
//
// Example usage:
//
//	profile, _ := hub.LoadProfile(hub.DefaultProfile)
//	srv := transport.NewServer(transport.ServerConfig{Address: transport.DefaultAddress})
//	h, err := hub.New(srv, hub.Config{Profile: profile})
//	srv.Start(ctx)
//	defer h.Stop()
package hub
