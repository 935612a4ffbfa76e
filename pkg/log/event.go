package log

import (
	"time"
)

// Event represents a protocol log event captured by the codec or the schema
// catalog. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// EnvelopeID is the value of the envelope's ID header, if any.
	EnvelopeID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// LocalRole indicates whether this side is the CPE or the ACS.
	LocalRole Role `cbor:"6,keyasint,omitempty"`

	// Version is the CWMP version detected on, or emitted to, the wire.
	Version string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame   *FrameEvent     `cbor:"10,keyasint,omitempty"` // XML layer
	Message *MessageEvent   `cbor:"11,keyasint,omitempty"` // Codec layer (decoded)
	Schema  *SchemaEvent    `cbor:"12,keyasint,omitempty"` // Canonical graph swaps
	Error   *ErrorEventData `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates a decoded (inbound) envelope.
	DirectionIn Direction = 0
	// DirectionOut indicates an encoded (outbound) envelope.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerXML is the raw document layer.
	LayerXML Layer = 0
	// LayerCodec is the typed envelope layer.
	LayerCodec Layer = 1
	// LayerSchema is the canonical schema graph.
	LayerSchema Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerXML:
		return "XML"
	case LayerCodec:
		return "CODEC"
	case LayerSchema:
		return "SCHEMA"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates an envelope (request/response/fault).
	CategoryMessage Category = 0
	// CategorySchema indicates a canonical graph change.
	CategorySchema Category = 1
	// CategoryDiagnostic indicates tolerated input worth a look, such as a
	// dropped header.
	CategoryDiagnostic Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategorySchema:
		return "SCHEMA"
	case CategoryDiagnostic:
		return "DIAGNOSTIC"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Role indicates which protocol endpoint the local side plays.
type Role uint8

const (
	// RoleUnspecified is used when the role is not known.
	RoleUnspecified Role = 0
	// RoleCPE indicates the managed device.
	RoleCPE Role = 1
	// RoleACS indicates the auto configuration server.
	RoleACS Role = 2
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleUnspecified:
		return "UNSPECIFIED"
	case RoleCPE:
		return "CPE"
	case RoleACS:
		return "ACS"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw envelope bytes.
type FrameEvent struct {
	// Size is the document size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw document (may be truncated for large envelopes).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent captures data, keeping at most limit bytes. A limit of zero
// or less records the size only.
func NewFrameEvent(data []byte, limit int) *FrameEvent {
	fe := &FrameEvent{Size: len(data)}
	if limit <= 0 {
		fe.Truncated = len(data) > 0
		return fe
	}
	if len(data) > limit {
		fe.Data = append([]byte(nil), data[:limit]...)
		fe.Truncated = true
		return fe
	}
	fe.Data = append([]byte(nil), data...)
	return fe
}

// MessageEvent captures a decoded or encoded envelope.
type MessageEvent struct {
	// Type distinguishes request/response/fault.
	Type MessageType `cbor:"1,keyasint"`

	// Method is the RPC element name, e.g. "GetParameterValues".
	Method string `cbor:"2,keyasint,omitempty"`

	// Headers lists the recognized header element names in order.
	Headers []string `cbor:"3,keyasint,omitempty"`

	// Dropped lists the header and body element names that were ignored.
	Dropped []string `cbor:"4,keyasint,omitempty"`

	// FaultCode is set for fault envelopes carrying a CWMP fault.
	FaultCode *uint32 `cbor:"5,keyasint,omitempty"`

	// Items is the length of the main array argument, if any.
	Items *int `cbor:"6,keyasint,omitempty"`
}

// MessageType distinguishes the body variants.
type MessageType uint8

const (
	// MessageTypeRequest indicates an RPC request.
	MessageTypeRequest MessageType = 0
	// MessageTypeResponse indicates an RPC response.
	MessageTypeResponse MessageType = 1
	// MessageTypeFault indicates a SOAP fault.
	MessageTypeFault MessageType = 2
	// MessageTypeNoContent indicates a body without a recognized element.
	MessageTypeNoContent MessageType = 3
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	case MessageTypeFault:
		return "FAULT"
	case MessageTypeNoContent:
		return "NO_CONTENT"
	default:
		return "UNKNOWN"
	}
}

// SchemaEvent captures the installation of a canonical graph.
type SchemaEvent struct {
	// Fingerprint identifies the installed graph.
	Fingerprint string `cbor:"1,keyasint"`

	// Nodes is the number of nodes in the installed graph.
	Nodes int `cbor:"2,keyasint"`

	// Previous is the fingerprint of the replaced graph, empty on first load.
	Previous string `cbor:"3,keyasint,omitempty"`

	// Duration is how long the build took.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the CWMP fault code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
