package soap

import "github.com/cwmp-protocol/cwmp-go/pkg/xmltree"

// Namespaces used by CWMP envelopes.
const (
	EnvelopeNamespace = "http://schemas.xmlsoap.org/soap/envelope/"
	EncodingNamespace = "http://schemas.xmlsoap.org/soap/encoding/"
	XSDNamespace      = "http://www.w3.org/2001/XMLSchema"
	XSINamespace      = "http://www.w3.org/2001/XMLSchema-instance"
)

// Conventional prefixes.
const (
	EnvelopePrefix = "soapenv"
	EncodingPrefix = "soapenc"
	XSDPrefix      = "xsd"
	XSIPrefix      = "xsi"
)

// Envelope element names.
var (
	EnvelopeName = xmltree.Name{Space: EnvelopeNamespace, Local: "Envelope"}
	HeaderName   = xmltree.Name{Space: EnvelopeNamespace, Local: "Header"}
	BodyName     = xmltree.Name{Space: EnvelopeNamespace, Local: "Body"}
	FaultName    = xmltree.Name{Space: EnvelopeNamespace, Local: "Fault"}

	MustUnderstandName = xmltree.Name{Space: EnvelopeNamespace, Local: "mustUnderstand"}
	ArrayTypeName      = xmltree.Name{Space: EncodingNamespace, Local: "arrayType"}
	TypeName           = xmltree.Name{Space: XSINamespace, Local: "type"}
)

// Bindings returns the prefix bindings declared on an envelope root, with
// the CWMP namespace bound to "cwmp".
func Bindings(cwmpNamespace string) []xmltree.Binding {
	return []xmltree.Binding{
		{Prefix: EnvelopePrefix, Space: EnvelopeNamespace},
		{Prefix: EncodingPrefix, Space: EncodingNamespace},
		{Prefix: XSDPrefix, Space: XSDNamespace},
		{Prefix: XSIPrefix, Space: XSINamespace},
		{Prefix: "cwmp", Space: cwmpNamespace},
	}
}
