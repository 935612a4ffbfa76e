package cwmp

import (
	"encoding/base64"
	"strconv"
	"time"
)

// Value type tags carried in xsi:type, without the xsd prefix.
const (
	TypeString      = "string"
	TypeInt         = "int"
	TypeUnsignedInt = "unsignedInt"
	TypeLong        = "long"
	TypeBoolean     = "boolean"
	TypeDateTime    = "dateTime"
	TypeBase64      = "base64Binary"
	TypeHexBinary   = "hexBinary"
)

// Value is a typed parameter value. Data is the lexical form sent on the
// wire.
type Value struct {
	Type string
	Data string
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{Type: TypeString, Data: s} }

// IntValue returns an int value.
func IntValue(v int32) Value { return Value{Type: TypeInt, Data: strconv.FormatInt(int64(v), 10)} }

// UintValue returns an unsignedInt value.
func UintValue(v uint32) Value {
	return Value{Type: TypeUnsignedInt, Data: strconv.FormatUint(uint64(v), 10)}
}

// BoolValue returns a boolean value encoded as "1" or "0".
func BoolValue(v bool) Value { return Value{Type: TypeBoolean, Data: formatBool(v)} }

// DateTimeValue returns a dateTime value in UTC.
func DateTimeValue(t time.Time) Value { return Value{Type: TypeDateTime, Data: formatTime(t)} }

// Base64Value returns a base64 value.
func Base64Value(b []byte) Value {
	return Value{Type: TypeBase64, Data: base64.StdEncoding.EncodeToString(b)}
}

// String returns the lexical form.
func (v Value) String() string { return v.Data }

// Bool interprets the value as a boolean.
func (v Value) Bool() (bool, error) { return parseBool(v.Data) }

// Uint interprets the value as an unsignedInt.
func (v Value) Uint() (uint32, error) { return parseUint(v.Data) }

// Time interprets the value as a dateTime.
func (v Value) Time() (time.Time, error) { return parseTime(v.Data) }

// ParameterValue is a ParameterValueStruct.
type ParameterValue struct {
	Name  string
	Value Value
}

// ParameterInfo is a ParameterInfoStruct returned by GetParameterNames.
type ParameterInfo struct {
	Name     string
	Writable bool
}

// Notification is the active or passive notification setting of a
// parameter.
type Notification int

const (
	NotificationOff Notification = iota
	NotificationPassive
	NotificationActive
	NotificationPassiveLightweight
	NotificationPassiveLightweightAndPassive
	NotificationActiveLightweight
	NotificationPassiveLightweightAndActive
)

// ParameterAttributeChange is a SetParameterAttributesStruct.
type ParameterAttributeChange struct {
	Name               string
	NotificationChange bool
	Notification       Notification
	AccessListChange   bool
	AccessList         []string
}

// ParameterAttribute is a ParameterAttributeStruct.
type ParameterAttribute struct {
	Name         string
	Notification Notification
	AccessList   []string
}

// TimeWindow is a TimeWindowStruct of ScheduleDownload.
type TimeWindow struct {
	WindowStart uint32
	WindowEnd   uint32
	WindowMode  string
	UserMessage string
	MaxRetries  int32
}

// TransferState is the state of a queued transfer.
type TransferState int

const (
	TransferNotStarted TransferState = 1
	TransferInProgress TransferState = 2
	TransferCompleted  TransferState = 3
)

// String returns the state name.
func (s TransferState) String() string {
	switch s {
	case TransferNotStarted:
		return "NotStarted"
	case TransferInProgress:
		return "InProgress"
	case TransferCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// QueuedTransfer is an AllQueuedTransferStruct.
type QueuedTransfer struct {
	CommandKey     string
	State          TransferState
	IsDownload     bool
	FileType       string
	FileSize       uint32
	TargetFileName string
}
