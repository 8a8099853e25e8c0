// Package transport carries LWP frames between a hub and a host.
//
// Bluetooth is not available to this module, so frames travel over byte
// streams instead: a TCP connection (Server, Dial) or a serial line
// (SerialLink). Frames are self-delimiting through the LWP length field,
// so no extra framing is added:
//
//	┌────────────────────────────────┐
//	│      LWP message               │
//	├────────────────────────────────┤
//	│  LWP length (1 or 2 bytes)     │
//	├────────────────────────────────┤
//	│      TCP or serial line        │
//	└────────────────────────────────┘
//
// Every transport satisfies Link, the three-call collaborator the hub
// emulator is written against: push a frame to the peer, receive each
// inbound frame, and learn when a peer comes and goes.
package transport
