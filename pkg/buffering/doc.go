// Package buffering implements the output buffer state machine of a hub
// port.
//
// Every output port can run one command and hold one more in its buffer.
// The machine tracks which of the three buffer states the port is in and
// returns the feedback flags the hub reports after each event.
//
// # States
//
//   - Idle: no command is running
//   - BusyEmpty: a command is running, the buffer is empty
//   - BusyFull: a command is running and another is buffered
//
// # Transitions
//
//	Idle       Immediate|Buffering  -> BusyEmpty  InProgress
//	BusyEmpty  Immediate            -> BusyEmpty  InProgress|Discarded
//	BusyEmpty  Buffering            -> BusyFull   BusyFull
//	BusyEmpty  Completed            -> Idle       Completed|Idle
//	BusyEmpty  Interrupt            -> Idle       Discarded|Idle
//	BusyFull   Immediate            -> BusyEmpty  InProgress|Discarded
//	BusyFull   Completed            -> BusyEmpty  Completed
//	BusyFull   Interrupt            -> Idle       Discarded|Idle
//
// Any other combination leaves the state unchanged and returns no flags.
//
// # Concurrency
//
// Machine and Ports do no locking. Callers that feed events from more
// than one goroutine must serialize access themselves.
package buffering
