// Package log provides structured protocol capture for the CWMP codec.
//
// This package defines the Logger interface and Event types for recording
// what crossed the codec: raw envelope documents, the typed envelopes they
// decoded to or were encoded from, canonical schema swaps and errors.
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	opts.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	opts.ProtocolLogger, _ = log.NewFileLogger("/var/log/cwmp/acs.clog")
//
//	// Both: use MultiLogger
//	opts.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at three layers:
//   - XML: raw envelope bytes (FrameEvent)
//   - Codec: typed envelopes (MessageEvent)
//   - Schema: canonical graph installation (SchemaEvent)
//
// Errors at any layer have a dedicated event type.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events. Reader iterates over a file
// and can apply a Filter.
package log
