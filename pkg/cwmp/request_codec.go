package cwmp

import "fmt"

func (*GetRPCMethods) isBody()          {}
func (*SetParameterValues) isBody()     {}
func (*GetParameterValues) isBody()     {}
func (*GetParameterNames) isBody()      {}
func (*SetParameterAttributes) isBody() {}
func (*GetParameterAttributes) isBody() {}
func (*AddObject) isBody()              {}
func (*DeleteObject) isBody()           {}
func (*Reboot) isBody()                 {}
func (*Download) isBody()               {}
func (*ScheduleDownload) isBody()       {}
func (*Upload) isBody()                 {}
func (*FactoryReset) isBody()           {}
func (*GetAllQueuedTransfers) isBody()  {}
func (*CancelTransfer) isBody()         {}
func (*ScheduleInform) isBody()         {}
func (*ChangeDUState) isBody()          {}

func (*GetRPCMethods) isRequest()          {}
func (*SetParameterValues) isRequest()     {}
func (*GetParameterValues) isRequest()     {}
func (*GetParameterNames) isRequest()      {}
func (*SetParameterAttributes) isRequest() {}
func (*GetParameterAttributes) isRequest() {}
func (*AddObject) isRequest()              {}
func (*DeleteObject) isRequest()           {}
func (*Reboot) isRequest()                 {}
func (*Download) isRequest()               {}
func (*ScheduleDownload) isRequest()       {}
func (*Upload) isRequest()                 {}
func (*FactoryReset) isRequest()           {}
func (*GetAllQueuedTransfers) isRequest()  {}
func (*CancelTransfer) isRequest()         {}
func (*ScheduleInform) isRequest()         {}
func (*ChangeDUState) isRequest()          {}

func (*GetRPCMethods) encodeRPC(*node)   {}
func (*GetRPCMethods) decodeRPC(*reader) {}

func (m *SetParameterValues) encodeRPC(n *node) {
	encodeParameterValues(n, m.ParameterList)
	n.text("ParameterKey", m.ParameterKey)
}

func (m *SetParameterValues) decodeRPC(r *reader) {
	m.ParameterList = decodeParameterValues(r)
	m.ParameterKey = r.text("ParameterKey")
}

func (m *GetParameterValues) encodeRPC(n *node) {
	n.strings("ParameterNames", pathStrings(m.ParameterNames))
}

func (m *GetParameterValues) decodeRPC(r *reader) {
	m.ParameterNames = decodePaths(r, "ParameterNames")
}

func (m *GetParameterNames) encodeRPC(n *node) {
	n.text("ParameterPath", m.ParameterPath.Path)
	n.bool("NextLevel", m.NextLevel)
}

func (m *GetParameterNames) decodeRPC(r *reader) {
	m.ParameterPath = receivedPath(r.name("ParameterPath"))
	m.NextLevel = r.bool("NextLevel")
}

func (m *SetParameterAttributes) encodeRPC(n *node) {
	n.array("ParameterList", len(m.ParameterList), func(i int, item *node) {
		s := m.ParameterList[i]
		item.text("Name", s.Name)
		item.bool("NotificationChange", s.NotificationChange)
		item.int("Notification", int64(s.Notification))
		item.bool("AccessListChange", s.AccessListChange)
		item.strings("AccessList", s.AccessList)
	})
}

func (m *SetParameterAttributes) decodeRPC(r *reader) {
	r.array("ParameterList", func(item *reader) {
		m.ParameterList = append(m.ParameterList, ParameterAttributeChange{
			Name:               item.name("Name"),
			NotificationChange: item.bool("NotificationChange"),
			Notification:       Notification(item.int("Notification")),
			AccessListChange:   item.bool("AccessListChange"),
			AccessList:         item.strings("AccessList"),
		})
	})
}

func (m *GetParameterAttributes) encodeRPC(n *node) {
	n.strings("ParameterNames", pathStrings(m.ParameterNames))
}

func (m *GetParameterAttributes) decodeRPC(r *reader) {
	m.ParameterNames = decodePaths(r, "ParameterNames")
}

func (m *AddObject) encodeRPC(n *node) {
	n.text("ObjectName", m.ObjectName)
	n.text("ParameterKey", m.ParameterKey)
}

func (m *AddObject) decodeRPC(r *reader) {
	m.ObjectName = r.name("ObjectName")
	m.ParameterKey = r.text("ParameterKey")
}

func (m *DeleteObject) encodeRPC(n *node) {
	n.text("ObjectName", m.ObjectName)
	n.text("ParameterKey", m.ParameterKey)
}

func (m *DeleteObject) decodeRPC(r *reader) {
	m.ObjectName = r.name("ObjectName")
	m.ParameterKey = r.text("ParameterKey")
}

func (m *Reboot) encodeRPC(n *node)   { n.text("CommandKey", m.CommandKey) }
func (m *Reboot) decodeRPC(r *reader) { m.CommandKey = r.text("CommandKey") }

func (m *Download) encodeRPC(n *node) {
	n.text("CommandKey", m.CommandKey)
	n.text("FileType", m.FileType)
	n.text("URL", m.URL)
	n.text("Username", m.Username)
	n.text("Password", m.Password)
	n.uint("FileSize", m.FileSize)
	n.text("TargetFileName", m.TargetFileName)
	n.uint("DelaySeconds", m.DelaySeconds)
	n.text("SuccessURL", m.SuccessURL)
	n.text("FailureURL", m.FailureURL)
}

func (m *Download) decodeRPC(r *reader) {
	m.CommandKey = r.text("CommandKey")
	m.FileType = r.text("FileType")
	m.URL = r.text("URL")
	m.Username = r.text("Username")
	m.Password = r.text("Password")
	m.FileSize = r.uint("FileSize")
	m.TargetFileName = r.text("TargetFileName")
	m.DelaySeconds = r.uint("DelaySeconds")
	m.SuccessURL = r.text("SuccessURL")
	m.FailureURL = r.text("FailureURL")
}

func (m *ScheduleDownload) encodeRPC(n *node) {
	n.text("CommandKey", m.CommandKey)
	n.text("FileType", m.FileType)
	n.text("URL", m.URL)
	n.text("Username", m.Username)
	n.text("Password", m.Password)
	n.uint("FileSize", m.FileSize)
	n.text("TargetFileName", m.TargetFileName)
	n.array("TimeWindowList", len(m.TimeWindowList), func(i int, item *node) {
		w := m.TimeWindowList[i]
		item.uint("WindowStart", w.WindowStart)
		item.uint("WindowEnd", w.WindowEnd)
		item.text("WindowMode", w.WindowMode)
		item.text("UserMessage", w.UserMessage)
		item.int("MaxRetries", int64(w.MaxRetries))
	})
}

func (m *ScheduleDownload) decodeRPC(r *reader) {
	m.CommandKey = r.text("CommandKey")
	m.FileType = r.text("FileType")
	m.URL = r.text("URL")
	m.Username = r.text("Username")
	m.Password = r.text("Password")
	m.FileSize = r.uint("FileSize")
	m.TargetFileName = r.text("TargetFileName")
	r.array("TimeWindowList", func(item *reader) {
		m.TimeWindowList = append(m.TimeWindowList, TimeWindow{
			WindowStart: item.uint("WindowStart"),
			WindowEnd:   item.uint("WindowEnd"),
			WindowMode:  item.text("WindowMode"),
			UserMessage: item.text("UserMessage"),
			MaxRetries:  int32(item.int("MaxRetries")),
		})
	})
}

func (m *Upload) encodeRPC(n *node) {
	n.text("CommandKey", m.CommandKey)
	n.text("FileType", m.FileType)
	n.text("URL", m.URL)
	n.text("Username", m.Username)
	n.text("Password", m.Password)
	n.uint("DelaySeconds", m.DelaySeconds)
}

func (m *Upload) decodeRPC(r *reader) {
	m.CommandKey = r.text("CommandKey")
	m.FileType = r.text("FileType")
	m.URL = r.text("URL")
	m.Username = r.text("Username")
	m.Password = r.text("Password")
	m.DelaySeconds = r.uint("DelaySeconds")
}

func (*FactoryReset) encodeRPC(*node)   {}
func (*FactoryReset) decodeRPC(*reader) {}

func (*GetAllQueuedTransfers) encodeRPC(*node)   {}
func (*GetAllQueuedTransfers) decodeRPC(*reader) {}

func (m *CancelTransfer) encodeRPC(n *node)   { n.text("CommandKey", m.CommandKey) }
func (m *CancelTransfer) decodeRPC(r *reader) { m.CommandKey = r.text("CommandKey") }

func (m *ScheduleInform) encodeRPC(n *node) {
	n.uint("DelaySeconds", m.DelaySeconds)
	n.text("CommandKey", m.CommandKey)
}

func (m *ScheduleInform) decodeRPC(r *reader) {
	m.DelaySeconds = r.uint("DelaySeconds")
	m.CommandKey = r.text("CommandKey")
}

func (m *ChangeDUState) encodeRPC(n *node) {
	if err := m.Validate(); err != nil {
		n.enc.fail(err)
		return
	}
	for _, op := range m.Operations {
		n.typed("Operations", op.OpType(), op.encodeOp)
	}
	n.text("CommandKey", m.CommandKey)
}

func (m *ChangeDUState) decodeRPC(r *reader) {
	r.each("Operations", func(item *reader) {
		typ := xsiType(item.el, "")
		op, ok := newOperation(typ)
		if !ok {
			r.dec.fail(fmt.Errorf("%w: unknown operation type %q", ErrMalformed, typ))
			return
		}
		op.decodeOp(item)
		m.Operations = append(m.Operations, op)
	})
	m.CommandKey = r.text("CommandKey")
}

func (o *InstallOp) encodeOp(n *node) {
	n.text("URL", o.URL)
	n.text("UUID", o.UUID)
	n.text("Username", o.Username)
	n.text("Password", o.Password)
	n.text("ExecutionEnvRef", o.ExecutionEnvRef)
}

func (o *InstallOp) decodeOp(r *reader) {
	o.URL = r.text("URL")
	o.UUID = r.text("UUID")
	o.Username = r.text("Username")
	o.Password = r.text("Password")
	o.ExecutionEnvRef = r.text("ExecutionEnvRef")
}

func (o *UpdateOp) encodeOp(n *node) {
	n.text("UUID", o.UUID)
	n.text("Version", o.Version)
	n.text("URL", o.URL)
	n.text("Username", o.Username)
	n.text("Password", o.Password)
}

func (o *UpdateOp) decodeOp(r *reader) {
	o.UUID = r.text("UUID")
	o.Version = r.text("Version")
	o.URL = r.text("URL")
	o.Username = r.text("Username")
	o.Password = r.text("Password")
}

func (o *UninstallOp) encodeOp(n *node) {
	n.text("UUID", o.UUID)
	n.text("Version", o.Version)
	n.text("ExecutionEnvRef", o.ExecutionEnvRef)
}

func (o *UninstallOp) decodeOp(r *reader) {
	o.UUID = r.text("UUID")
	o.Version = r.text("Version")
	o.ExecutionEnvRef = r.text("ExecutionEnvRef")
}

func encodeParameterValues(n *node, values []ParameterValue) {
	n.array("ParameterList", len(values), func(i int, item *node) {
		item.text("Name", values[i].Name)
		item.value("Value", values[i].Value)
	})
}

func decodeParameterValues(r *reader) []ParameterValue {
	var out []ParameterValue
	r.array("ParameterList", func(item *reader) {
		out = append(out, ParameterValue{
			Name:  item.name("Name"),
			Value: item.value("Value"),
		})
	})
	return out
}

func pathStrings(paths []ParameterPath) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.Path
	}
	return out
}

func decodePaths(r *reader, name string) []ParameterPath {
	var out []ParameterPath
	for _, s := range r.strings(name) {
		out = append(out, receivedPath(s))
	}
	return out
}
