package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger.
// Useful for development when you want to see codec traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.EnvelopeID != "" {
		attrs = append(attrs, slog.String("envelope_id", event.EnvelopeID))
	}
	if event.LocalRole != RoleUnspecified {
		attrs = append(attrs, slog.String("role", event.LocalRole.String()))
	}
	if event.Version != "" {
		attrs = append(attrs, slog.String("cwmp_version", event.Version))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Message != nil:
		attrs = append(attrs, slog.String("msg_type", event.Message.Type.String()))
		if event.Message.Method != "" {
			attrs = append(attrs, slog.String("method", event.Message.Method))
		}
		if len(event.Message.Headers) > 0 {
			attrs = append(attrs, slog.Any("headers", event.Message.Headers))
		}
		if len(event.Message.Dropped) > 0 {
			attrs = append(attrs, slog.Any("dropped", event.Message.Dropped))
		}
		if event.Message.FaultCode != nil {
			attrs = append(attrs, slog.Uint64("fault_code", uint64(*event.Message.FaultCode)))
		}
		if event.Message.Items != nil {
			attrs = append(attrs, slog.Int("items", *event.Message.Items))
		}
	case event.Schema != nil:
		attrs = append(attrs,
			slog.String("fingerprint", event.Schema.Fingerprint),
			slog.Int("nodes", event.Schema.Nodes),
		)
		if event.Schema.Previous != "" {
			attrs = append(attrs, slog.String("previous", event.Schema.Previous))
		}
		if event.Schema.Duration > 0 {
			attrs = append(attrs, slog.Duration("build_time", event.Schema.Duration))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
