package cwmp

import (
	"github.com/google/uuid"

	"github.com/cwmp-protocol/cwmp-go/pkg/version"
)

// Header is a recognized SOAP header entry: *ID, *SessionTimeout,
// *SupportedCWMPVersions or *UseCWMPVersion.
type Header interface {
	// HeaderName is the element name on the wire.
	HeaderName() string
	isHeader()
}

// ID correlates a request with its response.
type ID struct {
	MustUnderstand bool
	Value          string
}

// SessionTimeout proposes the session inactivity timeout in seconds.
type SessionTimeout struct {
	MustUnderstand bool
	Seconds        uint32
}

// SupportedCWMPVersions lists the versions the sender implements.
type SupportedCWMPVersions struct {
	MustUnderstand bool
	Versions       []version.SpecVersion
}

// UseCWMPVersion selects the version used for the rest of the session.
type UseCWMPVersion struct {
	MustUnderstand bool
	Version        version.SpecVersion
}

func (*ID) HeaderName() string                    { return "ID" }
func (*SessionTimeout) HeaderName() string        { return "SessionTimeout" }
func (*SupportedCWMPVersions) HeaderName() string { return "SupportedCWMPVersions" }
func (*UseCWMPVersion) HeaderName() string        { return "UseCWMPVersion" }

func (*ID) isHeader()                    {}
func (*SessionTimeout) isHeader()        {}
func (*SupportedCWMPVersions) isHeader() {}
func (*UseCWMPVersion) isHeader()        {}

// NewID returns a fresh random value for the ID header.
func NewID() string {
	return uuid.NewString()
}
