// Package log captures LWP protocol traffic as structured events.
//
// Protocol capture is separate from operational logging (slog). A Logger
// receives one Event per frame, decoded message, state change or error,
// and implementations decide where the trace goes:
//
//	// Console while developing
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// Binary capture for lwp-log
//	file, _ := log.NewFileLogger("hub.lwplog")
//
//	// Both
//	logger = log.NewMultiLogger(logger, file)
//
// # Layers
//
//   - Transport: raw frame bytes as read from or written to a link (FrameEvent)
//   - Wire: the decoded message (MessageEvent)
//   - Service: peer connection, hub and port buffer state (StateChangeEvent)
//
// Errors from any layer use ErrorEventData.
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with integer keys,
// conventionally named with the .lwplog extension. Reader streams them
// back with optional filtering.
package log
