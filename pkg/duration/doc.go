// Package duration runs the completion timers of port output commands.
//
// A hub emulator does not move real motors, so every accepted output
// command is given a run time. When the time is up the command is
// complete and the port's buffer state machine advances.
//
// # Per-Port Tracking
//
// At most one timer runs per port: the command currently executing.
// Buffered commands wait outside the manager until the running one
// completes.
//
// # Timer Replacement
//
// Setting a timer for a port that already has one replaces it. The
// replaced timer never fires, even if its expiry was already in flight
// when it was replaced.
//
// # Connection Loss
//
// Timers are not kept across peer disconnects. CancelAll stops every
// timer without invoking the expiry callback.
package duration
