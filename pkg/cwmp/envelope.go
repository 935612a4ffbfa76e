package cwmp

import (
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/version"
)

// Body is the payload of an envelope: a Request, a Response, a *Fault or
// NoContent.
type Body interface {
	isBody()
}

// NoContent marks a body without a recognized element. It is not an error:
// unknown extensions are legal on the wire.
type NoContent struct{}

func (NoContent) isBody() {}

// Envelope is a decoded or to-be-encoded CWMP message.
type Envelope struct {
	// Namespace is the CWMP namespace used on the wire. Decode sets it from
	// the message; Encode falls back to Options.Namespace when empty.
	Namespace string

	// Headers are the recognized headers in document order.
	Headers []Header

	Body Body
}

// ID returns the value of the first ID header.
func (e *Envelope) ID() (string, bool) {
	for _, h := range e.Headers {
		if id, ok := h.(*ID); ok {
			return id.Value, true
		}
	}
	return "", false
}

// Version returns the CWMP version encoded in the envelope namespace.
func (e *Envelope) Version() (version.SpecVersion, error) {
	return version.FromNamespace(schema.Namespace(e.Namespace))
}

// Method returns the body element name, or "" for NoContent.
func (e *Envelope) Method() string {
	if e.Body == nil {
		return ""
	}
	return ElementName(e.Body)
}

// IsRequest reports whether the body is an RPC request.
func (e *Envelope) IsRequest() bool {
	_, ok := e.Body.(Request)
	return ok
}
