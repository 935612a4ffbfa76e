package cwmp

import "time"

// Response is an RPC response body.
type Response interface {
	Body
	// MethodName is the RPC method answered. The element name is
	// MethodName() + "Response".
	MethodName() string
	encodeRPC(n *node)
	decodeRPC(r *reader)
	isResponse()
}

// ElementName returns the body element name of a request or response.
func ElementName(b Body) string {
	switch b := b.(type) {
	case Request:
		return b.MethodName()
	case Response:
		return b.MethodName() + "Response"
	case *Fault:
		return "Fault"
	}
	return ""
}

// GetRPCMethodsResponse lists supported methods.
type GetRPCMethodsResponse struct {
	MethodList []string
}

// SetParameterValuesResponse reports whether the values took effect.
// Status false means applied; true means applied only after the session
// ends or the device reboots.
type SetParameterValuesResponse struct {
	Status bool
}

// GetParameterValuesResponse carries the requested values.
type GetParameterValuesResponse struct {
	ParameterList []ParameterValue
}

// GetParameterNamesResponse carries the discovered parameters.
type GetParameterNamesResponse struct {
	ParameterList []ParameterInfo
}

// SetParameterAttributesResponse acknowledges SetParameterAttributes.
type SetParameterAttributesResponse struct{}

// GetParameterAttributesResponse carries the requested attributes.
type GetParameterAttributesResponse struct {
	ParameterList []ParameterAttribute
}

// AddObjectResponse carries the new instance number.
type AddObjectResponse struct {
	InstanceNumber uint32
	Status         bool
}

// DeleteObjectResponse acknowledges DeleteObject.
type DeleteObjectResponse struct {
	Status bool
}

// RebootResponse acknowledges Reboot.
type RebootResponse struct{}

// DownloadResponse reports a completed or pending download. Zero times
// mean unknown.
type DownloadResponse struct {
	Status       bool
	StartTime    time.Time
	CompleteTime time.Time
}

// ScheduleDownloadResponse acknowledges ScheduleDownload.
type ScheduleDownloadResponse struct{}

// UploadResponse reports a completed or pending upload.
type UploadResponse struct {
	Status       bool
	StartTime    time.Time
	CompleteTime time.Time
}

// FactoryResetResponse acknowledges FactoryReset.
type FactoryResetResponse struct{}

// GetAllQueuedTransfersResponse lists queued transfers.
type GetAllQueuedTransfersResponse struct {
	TransferList []QueuedTransfer
}

// CancelTransferResponse acknowledges CancelTransfer.
type CancelTransferResponse struct{}

// ScheduleInformResponse acknowledges ScheduleInform.
type ScheduleInformResponse struct{}

// ChangeDUStateResponse acknowledges ChangeDUState.
type ChangeDUStateResponse struct{}

func (*GetRPCMethodsResponse) MethodName() string          { return "GetRPCMethods" }
func (*SetParameterValuesResponse) MethodName() string     { return "SetParameterValues" }
func (*GetParameterValuesResponse) MethodName() string     { return "GetParameterValues" }
func (*GetParameterNamesResponse) MethodName() string      { return "GetParameterNames" }
func (*SetParameterAttributesResponse) MethodName() string { return "SetParameterAttributes" }
func (*GetParameterAttributesResponse) MethodName() string { return "GetParameterAttributes" }
func (*AddObjectResponse) MethodName() string              { return "AddObject" }
func (*DeleteObjectResponse) MethodName() string           { return "DeleteObject" }
func (*RebootResponse) MethodName() string                 { return "Reboot" }
func (*DownloadResponse) MethodName() string               { return "Download" }
func (*ScheduleDownloadResponse) MethodName() string       { return "ScheduleDownload" }
func (*UploadResponse) MethodName() string                 { return "Upload" }
func (*FactoryResetResponse) MethodName() string           { return "FactoryReset" }
func (*GetAllQueuedTransfersResponse) MethodName() string  { return "GetAllQueuedTransfers" }
func (*CancelTransferResponse) MethodName() string         { return "CancelTransfer" }
func (*ScheduleInformResponse) MethodName() string         { return "ScheduleInform" }
func (*ChangeDUStateResponse) MethodName() string          { return "ChangeDUState" }

// responses maps element names to response constructors.
var responses = map[string]func() Response{
	"GetRPCMethodsResponse":          func() Response { return &GetRPCMethodsResponse{} },
	"SetParameterValuesResponse":     func() Response { return &SetParameterValuesResponse{} },
	"GetParameterValuesResponse":     func() Response { return &GetParameterValuesResponse{} },
	"GetParameterNamesResponse":      func() Response { return &GetParameterNamesResponse{} },
	"SetParameterAttributesResponse": func() Response { return &SetParameterAttributesResponse{} },
	"GetParameterAttributesResponse": func() Response { return &GetParameterAttributesResponse{} },
	"AddObjectResponse":              func() Response { return &AddObjectResponse{} },
	"DeleteObjectResponse":           func() Response { return &DeleteObjectResponse{} },
	"RebootResponse":                 func() Response { return &RebootResponse{} },
	"DownloadResponse":               func() Response { return &DownloadResponse{} },
	"ScheduleDownloadResponse":       func() Response { return &ScheduleDownloadResponse{} },
	"UploadResponse":                 func() Response { return &UploadResponse{} },
	"FactoryResetResponse":           func() Response { return &FactoryResetResponse{} },
	"GetAllQueuedTransfersResponse":  func() Response { return &GetAllQueuedTransfersResponse{} },
	"CancelTransferResponse":         func() Response { return &CancelTransferResponse{} },
	"ScheduleInformResponse":         func() Response { return &ScheduleInformResponse{} },
	"ChangeDUStateResponse":          func() Response { return &ChangeDUStateResponse{} },
}
