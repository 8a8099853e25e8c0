// Package discovery announces hub emulators on the local network with
// mDNS/DNS-SD and finds them again.
//
// Real hubs advertise over Bluetooth LE. The emulator speaks LWP over TCP
// instead and registers a _lwp._tcp service so hosts can find it without
// a configured address.
//
// # TXT Records
//
//   - name: advertising name of the hub
//   - sd: system type and device number byte, two hex digits
//   - cap: device capabilities byte, two hex digits
//   - lwp: LWP version, e.g. 3.0
//   - fw: firmware version, e.g. 2.0.00.0017 (optional)
//   - mac: primary MAC address (optional)
//
// Instance names are the advertising name, cut to the DNS label limit.
package discovery
