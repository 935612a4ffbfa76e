package cwmp

import (
	"fmt"
	"strconv"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/xmltree"
)

// FaultCode is a CWMP fault code: 8000-series codes are sent by the ACS,
// 9000-series codes by the CPE.
type FaultCode uint32

// ACS fault codes.
const (
	FaultACSMethodNotSupported FaultCode = 8000
	FaultACSRequestDenied      FaultCode = 8001
	FaultACSInternalError      FaultCode = 8002
	FaultACSInvalidArguments   FaultCode = 8003
	FaultACSResourcesExceeded  FaultCode = 8004
	FaultACSRetryRequest       FaultCode = 8005
	FaultACSVersionMismatch    FaultCode = 8006
)

// CPE fault codes.
const (
	FaultMethodNotSupported          FaultCode = 9000
	FaultRequestDenied               FaultCode = 9001
	FaultInternalError               FaultCode = 9002
	FaultInvalidArguments            FaultCode = 9003
	FaultResourcesExceeded           FaultCode = 9004
	FaultInvalidParameterName        FaultCode = 9005
	FaultInvalidParameterType        FaultCode = 9006
	FaultInvalidParameterValue       FaultCode = 9007
	FaultNonWritableParameter        FaultCode = 9008
	FaultNotificationRejected        FaultCode = 9009
	FaultDownloadFailure             FaultCode = 9010
	FaultUploadFailure               FaultCode = 9011
	FaultTransferAuthFailure         FaultCode = 9012
	FaultUnsupportedTransferProtocol FaultCode = 9013
	FaultMulticastJoinFailure        FaultCode = 9014
	FaultFileServerUnreachable       FaultCode = 9015
	FaultFileAccessFailure           FaultCode = 9016
	FaultDownloadIncomplete          FaultCode = 9017
	FaultFileCorrupted               FaultCode = 9018
	FaultFileAuthFailure             FaultCode = 9019
	FaultTimeWindowMissed            FaultCode = 9020
	FaultCancelNotPermitted          FaultCode = 9021
	FaultInvalidUUID                 FaultCode = 9022
	FaultUnknownExecutionEnv         FaultCode = 9023
	FaultDisabledExecutionEnv        FaultCode = 9024
	FaultExecutionEnvMismatch        FaultCode = 9025
	FaultDuplicateDeploymentUnit     FaultCode = 9026
	FaultSystemResourcesExceeded     FaultCode = 9027
	FaultUnknownDeploymentUnit       FaultCode = 9028
	FaultInvalidDeploymentUnitState  FaultCode = 9029
	FaultDowngradeNotPermitted       FaultCode = 9030
	FaultVersionNotSpecified         FaultCode = 9031
	FaultVersionExists               FaultCode = 9032
)

type faultInfo struct {
	text   string
	client bool
}

var faultTable = map[FaultCode]faultInfo{
	FaultACSMethodNotSupported: {"Method not supported", false},
	FaultACSRequestDenied:      {"Request denied", false},
	FaultACSInternalError:      {"Internal error", false},
	FaultACSInvalidArguments:   {"Invalid arguments", true},
	FaultACSResourcesExceeded:  {"Resources exceeded", false},
	FaultACSRetryRequest:       {"Retry request", false},
	FaultACSVersionMismatch:    {"ACS version incompatible with CPE", false},

	FaultMethodNotSupported:          {"Method not supported", false},
	FaultRequestDenied:               {"Request denied", false},
	FaultInternalError:               {"Internal error", false},
	FaultInvalidArguments:            {"Invalid arguments", true},
	FaultResourcesExceeded:           {"Resources exceeded", false},
	FaultInvalidParameterName:        {"Invalid parameter name", true},
	FaultInvalidParameterType:        {"Invalid parameter type", true},
	FaultInvalidParameterValue:       {"Invalid parameter value", true},
	FaultNonWritableParameter:        {"Attempt to set a non-writable parameter", true},
	FaultNotificationRejected:        {"Notification request rejected", false},
	FaultDownloadFailure:             {"File transfer failure", false},
	FaultUploadFailure:               {"Upload failure", false},
	FaultTransferAuthFailure:         {"File transfer server authentication failure", false},
	FaultUnsupportedTransferProtocol: {"Unsupported protocol for file transfer", false},
	FaultMulticastJoinFailure:        {"File transfer failure: unable to join multicast group", false},
	FaultFileServerUnreachable:       {"File transfer failure: unable to contact file server", false},
	FaultFileAccessFailure:           {"File transfer failure: unable to access file", false},
	FaultDownloadIncomplete:          {"File transfer failure: unable to complete download", false},
	FaultFileCorrupted:               {"File transfer failure: file corrupted or otherwise unusable", false},
	FaultFileAuthFailure:             {"File transfer failure: file authentication failure", false},
	FaultTimeWindowMissed:            {"File transfer failure: unable to complete download within specified time windows", false},
	FaultCancelNotPermitted:          {"Cancelation of file transfer not permitted in current transfer state", true},
	FaultInvalidUUID:                 {"Invalid UUID format", true},
	FaultUnknownExecutionEnv:         {"Unknown Execution Environment", true},
	FaultDisabledExecutionEnv:        {"Disabled Execution Environment", true},
	FaultExecutionEnvMismatch:        {"Deployment Unit to Execution Environment mismatch", true},
	FaultDuplicateDeploymentUnit:     {"Duplicate Deployment Unit", true},
	FaultSystemResourcesExceeded:     {"System resources exceeded", false},
	FaultUnknownDeploymentUnit:       {"Unknown Deployment Unit", true},
	FaultInvalidDeploymentUnitState:  {"Invalid Deployment Unit state", true},
	FaultDowngradeNotPermitted:       {"Invalid Deployment Unit update: downgrade not permitted", true},
	FaultVersionNotSpecified:         {"Invalid Deployment Unit update: version not specified", true},
	FaultVersionExists:               {"Invalid Deployment Unit update: version already exists", true},
}

// String returns the fault's standard description.
func (c FaultCode) String() string {
	if info, ok := faultTable[c]; ok {
		return info.text
	}
	switch {
	case c.IsVendor():
		return "Vendor defined fault " + strconv.FormatUint(uint64(c), 10)
	default:
		return "Unknown fault " + strconv.FormatUint(uint64(c), 10)
	}
}

// IsACS reports whether the code is in the ACS range 8000-8999.
func (c FaultCode) IsACS() bool { return c >= 8000 && c <= 8999 }

// IsCPE reports whether the code is in the CPE range 9000-9999.
func (c FaultCode) IsCPE() bool { return c >= 9000 && c <= 9999 }

// IsVendor reports whether the code is vendor specific (8800-8899 or
// 9800-9899).
func (c FaultCode) IsVendor() bool {
	return (c >= 8800 && c <= 8899) || (c >= 9800 && c <= 9899)
}

// SOAPCode returns the SOAP faultcode the protocol assigns to c: "Client"
// when the request was at fault, otherwise "Server".
func (c FaultCode) SOAPCode() string {
	if faultTable[c].client {
		return SOAPClient
	}
	return SOAPServer
}

// SOAP faultcode values.
const (
	SOAPClient = "Client"
	SOAPServer = "Server"
)

// faultString is the SOAP faultstring of every CWMP fault.
const faultString = "CWMP fault"

// Fault is a SOAP fault body. Detail holds the CWMP fault, if any.
type Fault struct {
	FaultCode   string
	FaultString string
	Detail      *CWMPFault
}

// CWMPFault is the CWMP fault carried in the SOAP fault detail.
type CWMPFault struct {
	FaultCode   FaultCode
	FaultString string

	// SetParameterValuesFaults holds one entry per rejected parameter, in
	// order.
	SetParameterValuesFaults []SetParameterValuesFault
}

// SetParameterValuesFault describes why one parameter of a
// SetParameterValues request was rejected.
type SetParameterValuesFault struct {
	ParameterName string
	FaultCode     FaultCode
	FaultString   string
}

// NewFault returns a CWMP fault with the SOAP faultcode the protocol
// assigns to code. An empty message uses the code's description.
func NewFault(code FaultCode, message string) *Fault {
	if message == "" {
		message = code.String()
	}
	return &Fault{
		FaultCode:   code.SOAPCode(),
		FaultString: faultString,
		Detail:      &CWMPFault{FaultCode: code, FaultString: message},
	}
}

// AddParameterFault appends a SetParameterValuesFault entry. It returns f
// so that calls can be chained.
func (f *Fault) AddParameterFault(name string, code FaultCode, message string) *Fault {
	if f.Detail == nil {
		f.Detail = &CWMPFault{FaultCode: FaultInvalidArguments, FaultString: FaultInvalidArguments.String()}
	}
	if message == "" {
		message = code.String()
	}
	f.Detail.SetParameterValuesFaults = append(f.Detail.SetParameterValuesFaults, SetParameterValuesFault{
		ParameterName: name,
		FaultCode:     code,
		FaultString:   message,
	})
	return f
}

// Code returns the CWMP fault code, or 0 without detail.
func (f *Fault) Code() FaultCode {
	if f.Detail == nil {
		return 0
	}
	return f.Detail.FaultCode
}

// Error makes a received fault usable as an error.
func (f *Fault) Error() string {
	if f.Detail == nil {
		return fmt.Sprintf("soap fault %s: %s", f.FaultCode, f.FaultString)
	}
	return fmt.Sprintf("cwmp fault %d: %s", f.Detail.FaultCode, f.Detail.FaultString)
}

func (*Fault) isBody() {}

func (f *Fault) encodeFault(enc *encoder, el *xmltree.Element) {
	el.Append(
		xmltree.NewTextElement(xmltree.Name{Local: "faultcode"}, f.FaultCode),
		xmltree.NewTextElement(xmltree.Name{Local: "faultstring"}, f.FaultString),
	)
	if f.Detail == nil {
		return
	}

	members, err := enc.binder.TypeMembers(schema.CanonicalIdent(schema.KindElementType, "Fault"))
	if err != nil {
		enc.fail(err)
		return
	}
	n := &node{
		enc:     enc,
		el:      xmltree.NewElement(xmltree.Name{Space: enc.ns, Local: "Fault"}),
		members: members,
	}
	d := f.Detail
	n.uint("FaultCode", uint32(d.FaultCode))
	n.text("FaultString", d.FaultString)
	var itemMembers []schema.ElementMeta
	if len(d.SetParameterValuesFaults) > 0 {
		if m, ok := n.member("SetParameterValuesFault"); ok {
			if itemMembers, err = enc.binder.TypeMembers(m.Type); err != nil {
				enc.fail(err)
				return
			}
		}
	}
	for _, pf := range d.SetParameterValuesFaults {
		item := &node{enc: enc, el: n.child("SetParameterValuesFault"), members: itemMembers}
		item.text("ParameterName", pf.ParameterName)
		item.uint("FaultCode", uint32(pf.FaultCode))
		item.text("FaultString", pf.FaultString)
	}
	el.Append(xmltree.NewElement(xmltree.Name{Local: "detail"}, n.el))
}

func (f *Fault) decodeFault(r *reader, isCWMP func(string) bool) {
	f.FaultCode = r.el.ResolveQName(r.text("faultcode")).Local
	f.FaultString = r.text("faultstring")

	detail := r.child("detail")
	if detail == nil {
		return
	}
	for _, el := range detail.Elements() {
		if el.Name.Local != "Fault" || !isCWMP(el.Name.Space) {
			continue
		}
		cr := &reader{dec: r.dec, el: el}
		d := &CWMPFault{
			FaultCode:   FaultCode(cr.uint("FaultCode")),
			FaultString: cr.text("FaultString"),
		}
		cr.each("SetParameterValuesFault", func(item *reader) {
			d.SetParameterValuesFaults = append(d.SetParameterValuesFaults, SetParameterValuesFault{
				ParameterName: item.name("ParameterName"),
				FaultCode:     FaultCode(item.uint("FaultCode")),
				FaultString:   item.text("FaultString"),
			})
		})
		f.Detail = d
		return
	}
}
