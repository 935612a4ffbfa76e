package cwmp

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Request is an RPC request body.
type Request interface {
	Body
	// MethodName is the RPC method, which is also the element name.
	MethodName() string
	encodeRPC(n *node)
	decodeRPC(r *reader)
	isRequest()
}

// GetRPCMethods asks for the methods the peer supports.
type GetRPCMethods struct{}

// SetParameterValues sets parameter values.
type SetParameterValues struct {
	ParameterList []ParameterValue
	ParameterKey  string
}

// GetParameterValues reads parameter values.
type GetParameterValues struct {
	ParameterNames []ParameterPath
}

// NewGetParameterValues classifies every name and returns the request.
func NewGetParameterValues(names ...string) (*GetParameterValues, error) {
	paths, err := ParsePaths(names...)
	if err != nil {
		return nil, err
	}
	return &GetParameterValues{ParameterNames: paths}, nil
}

// GetParameterNames discovers parameters below a path.
type GetParameterNames struct {
	ParameterPath ParameterPath
	NextLevel     bool
}

// SetParameterAttributes changes notification and access attributes.
type SetParameterAttributes struct {
	ParameterList []ParameterAttributeChange
}

// GetParameterAttributes reads notification and access attributes.
type GetParameterAttributes struct {
	ParameterNames []ParameterPath
}

// NewGetParameterAttributes classifies every name and returns the request.
func NewGetParameterAttributes(names ...string) (*GetParameterAttributes, error) {
	paths, err := ParsePaths(names...)
	if err != nil {
		return nil, err
	}
	return &GetParameterAttributes{ParameterNames: paths}, nil
}

// AddObject creates a new instance of a multi-instance object. ObjectName
// ends with ".".
type AddObject struct {
	ObjectName   string
	ParameterKey string
}

// DeleteObject removes an object instance.
type DeleteObject struct {
	ObjectName   string
	ParameterKey string
}

// Reboot restarts the device.
type Reboot struct {
	CommandKey string
}

// Download asks the device to fetch a file.
type Download struct {
	CommandKey     string
	FileType       string
	URL            string
	Username       string
	Password       string
	FileSize       uint32
	TargetFileName string
	DelaySeconds   uint32
	SuccessURL     string
	FailureURL     string
}

// ScheduleDownload asks the device to fetch a file within time windows.
type ScheduleDownload struct {
	CommandKey     string
	FileType       string
	URL            string
	Username       string
	Password       string
	FileSize       uint32
	TargetFileName string
	TimeWindowList []TimeWindow
}

// Upload asks the device to send a file.
type Upload struct {
	CommandKey   string
	FileType     string
	URL          string
	Username     string
	Password     string
	DelaySeconds uint32
}

// FactoryReset resets the device to its factory defaults.
type FactoryReset struct{}

// GetAllQueuedTransfers lists pending and running transfers.
type GetAllQueuedTransfers struct{}

// CancelTransfer cancels the transfer started with CommandKey.
type CancelTransfer struct {
	CommandKey string
}

// ScheduleInform asks for an Inform after DelaySeconds.
type ScheduleInform struct {
	DelaySeconds uint32
	CommandKey   string
}

// ChangeDUState installs, updates or uninstalls deployment units.
type ChangeDUState struct {
	Operations []Operation
	CommandKey string
}

// MaxDUOperations is the largest number of operations in one ChangeDUState.
const MaxDUOperations = 16

// ErrInvalidUUID is returned for a deployment unit UUID that does not parse.
var ErrInvalidUUID = errors.New("invalid UUID format")

// Operation is a ChangeDUState operation: *InstallOp, *UpdateOp or
// *UninstallOp.
type Operation interface {
	// OpType is the concrete schema type written in xsi:type.
	OpType() string
	encodeOp(n *node)
	decodeOp(r *reader)
	uuid() string
}

// InstallOp installs a deployment unit.
type InstallOp struct {
	URL             string
	UUID            string
	Username        string
	Password        string
	ExecutionEnvRef string
}

// UpdateOp updates an installed deployment unit.
type UpdateOp struct {
	UUID     string
	Version  string
	URL      string
	Username string
	Password string
}

// UninstallOp removes a deployment unit.
type UninstallOp struct {
	UUID            string
	Version         string
	ExecutionEnvRef string
}

// NewInstallOp returns an install operation for url with a fresh UUID.
func NewInstallOp(url string) *InstallOp {
	return &InstallOp{URL: url, UUID: uuid.NewString()}
}

func (*InstallOp) OpType() string   { return "InstallOpStruct" }
func (*UpdateOp) OpType() string    { return "UpdateOpStruct" }
func (*UninstallOp) OpType() string { return "UninstallOpStruct" }

func (o *InstallOp) uuid() string   { return o.UUID }
func (o *UpdateOp) uuid() string    { return o.UUID }
func (o *UninstallOp) uuid() string { return o.UUID }

func newOperation(opType string) (Operation, bool) {
	switch opType {
	case "InstallOpStruct":
		return &InstallOp{}, true
	case "UpdateOpStruct":
		return &UpdateOp{}, true
	case "UninstallOpStruct":
		return &UninstallOp{}, true
	}
	return nil, false
}

// Validate checks the operation count and that every non-empty UUID parses.
func (c *ChangeDUState) Validate() error {
	if len(c.Operations) > MaxDUOperations {
		return fmt.Errorf("ChangeDUState: %d operations, at most %d", len(c.Operations), MaxDUOperations)
	}
	for i, op := range c.Operations {
		if id := op.uuid(); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				return fmt.Errorf("operation %d: %w: %v", i, ErrInvalidUUID, err)
			}
		}
	}
	return nil
}

func (*GetRPCMethods) MethodName() string          { return "GetRPCMethods" }
func (*SetParameterValues) MethodName() string     { return "SetParameterValues" }
func (*GetParameterValues) MethodName() string     { return "GetParameterValues" }
func (*GetParameterNames) MethodName() string      { return "GetParameterNames" }
func (*SetParameterAttributes) MethodName() string { return "SetParameterAttributes" }
func (*GetParameterAttributes) MethodName() string { return "GetParameterAttributes" }
func (*AddObject) MethodName() string              { return "AddObject" }
func (*DeleteObject) MethodName() string           { return "DeleteObject" }
func (*Reboot) MethodName() string                 { return "Reboot" }
func (*Download) MethodName() string               { return "Download" }
func (*ScheduleDownload) MethodName() string       { return "ScheduleDownload" }
func (*Upload) MethodName() string                 { return "Upload" }
func (*FactoryReset) MethodName() string           { return "FactoryReset" }
func (*GetAllQueuedTransfers) MethodName() string  { return "GetAllQueuedTransfers" }
func (*CancelTransfer) MethodName() string         { return "CancelTransfer" }
func (*ScheduleInform) MethodName() string         { return "ScheduleInform" }
func (*ChangeDUState) MethodName() string          { return "ChangeDUState" }

// requests maps element names to request constructors.
var requests = map[string]func() Request{
	"GetRPCMethods":          func() Request { return &GetRPCMethods{} },
	"SetParameterValues":     func() Request { return &SetParameterValues{} },
	"GetParameterValues":     func() Request { return &GetParameterValues{} },
	"GetParameterNames":      func() Request { return &GetParameterNames{} },
	"SetParameterAttributes": func() Request { return &SetParameterAttributes{} },
	"GetParameterAttributes": func() Request { return &GetParameterAttributes{} },
	"AddObject":              func() Request { return &AddObject{} },
	"DeleteObject":           func() Request { return &DeleteObject{} },
	"Reboot":                 func() Request { return &Reboot{} },
	"Download":               func() Request { return &Download{} },
	"ScheduleDownload":       func() Request { return &ScheduleDownload{} },
	"Upload":                 func() Request { return &Upload{} },
	"FactoryReset":           func() Request { return &FactoryReset{} },
	"GetAllQueuedTransfers":  func() Request { return &GetAllQueuedTransfers{} },
	"CancelTransfer":         func() Request { return &CancelTransfer{} },
	"ScheduleInform":         func() Request { return &ScheduleInform{} },
	"ChangeDUState":          func() Request { return &ChangeDUState{} },
}
