package cwmp

func (*GetRPCMethodsResponse) isBody()          {}
func (*SetParameterValuesResponse) isBody()     {}
func (*GetParameterValuesResponse) isBody()     {}
func (*GetParameterNamesResponse) isBody()      {}
func (*SetParameterAttributesResponse) isBody() {}
func (*GetParameterAttributesResponse) isBody() {}
func (*AddObjectResponse) isBody()              {}
func (*DeleteObjectResponse) isBody()           {}
func (*RebootResponse) isBody()                 {}
func (*DownloadResponse) isBody()               {}
func (*ScheduleDownloadResponse) isBody()       {}
func (*UploadResponse) isBody()                 {}
func (*FactoryResetResponse) isBody()           {}
func (*GetAllQueuedTransfersResponse) isBody()  {}
func (*CancelTransferResponse) isBody()         {}
func (*ScheduleInformResponse) isBody()         {}
func (*ChangeDUStateResponse) isBody()          {}

func (*GetRPCMethodsResponse) isResponse()          {}
func (*SetParameterValuesResponse) isResponse()     {}
func (*GetParameterValuesResponse) isResponse()     {}
func (*GetParameterNamesResponse) isResponse()      {}
func (*SetParameterAttributesResponse) isResponse() {}
func (*GetParameterAttributesResponse) isResponse() {}
func (*AddObjectResponse) isResponse()              {}
func (*DeleteObjectResponse) isResponse()           {}
func (*RebootResponse) isResponse()                 {}
func (*DownloadResponse) isResponse()               {}
func (*ScheduleDownloadResponse) isResponse()       {}
func (*UploadResponse) isResponse()                 {}
func (*FactoryResetResponse) isResponse()           {}
func (*GetAllQueuedTransfersResponse) isResponse()  {}
func (*CancelTransferResponse) isResponse()         {}
func (*ScheduleInformResponse) isResponse()         {}
func (*ChangeDUStateResponse) isResponse()          {}

func (m *GetRPCMethodsResponse) encodeRPC(n *node)   { n.strings("MethodList", m.MethodList) }
func (m *GetRPCMethodsResponse) decodeRPC(r *reader) { m.MethodList = r.strings("MethodList") }

func (m *SetParameterValuesResponse) encodeRPC(n *node)   { n.bool("Status", m.Status) }
func (m *SetParameterValuesResponse) decodeRPC(r *reader) { m.Status = r.bool("Status") }

func (m *GetParameterValuesResponse) encodeRPC(n *node) {
	encodeParameterValues(n, m.ParameterList)
}

func (m *GetParameterValuesResponse) decodeRPC(r *reader) {
	m.ParameterList = decodeParameterValues(r)
}

func (m *GetParameterNamesResponse) encodeRPC(n *node) {
	n.array("ParameterList", len(m.ParameterList), func(i int, item *node) {
		item.text("Name", m.ParameterList[i].Name)
		item.bool("Writable", m.ParameterList[i].Writable)
	})
}

func (m *GetParameterNamesResponse) decodeRPC(r *reader) {
	r.array("ParameterList", func(item *reader) {
		m.ParameterList = append(m.ParameterList, ParameterInfo{
			Name:     item.name("Name"),
			Writable: item.bool("Writable"),
		})
	})
}

func (*SetParameterAttributesResponse) encodeRPC(*node)   {}
func (*SetParameterAttributesResponse) decodeRPC(*reader) {}

func (m *GetParameterAttributesResponse) encodeRPC(n *node) {
	n.array("ParameterList", len(m.ParameterList), func(i int, item *node) {
		a := m.ParameterList[i]
		item.text("Name", a.Name)
		item.int("Notification", int64(a.Notification))
		item.strings("AccessList", a.AccessList)
	})
}

func (m *GetParameterAttributesResponse) decodeRPC(r *reader) {
	r.array("ParameterList", func(item *reader) {
		m.ParameterList = append(m.ParameterList, ParameterAttribute{
			Name:         item.name("Name"),
			Notification: Notification(item.int("Notification")),
			AccessList:   item.strings("AccessList"),
		})
	})
}

func (m *AddObjectResponse) encodeRPC(n *node) {
	n.uint("InstanceNumber", m.InstanceNumber)
	n.bool("Status", m.Status)
}

func (m *AddObjectResponse) decodeRPC(r *reader) {
	m.InstanceNumber = r.uint("InstanceNumber")
	m.Status = r.bool("Status")
}

func (m *DeleteObjectResponse) encodeRPC(n *node)   { n.bool("Status", m.Status) }
func (m *DeleteObjectResponse) decodeRPC(r *reader) { m.Status = r.bool("Status") }

func (*RebootResponse) encodeRPC(*node)   {}
func (*RebootResponse) decodeRPC(*reader) {}

func (m *DownloadResponse) encodeRPC(n *node) {
	n.bool("Status", m.Status)
	n.time("StartTime", m.StartTime)
	n.time("CompleteTime", m.CompleteTime)
}

func (m *DownloadResponse) decodeRPC(r *reader) {
	m.Status = r.bool("Status")
	m.StartTime = r.time("StartTime")
	m.CompleteTime = r.time("CompleteTime")
}

func (*ScheduleDownloadResponse) encodeRPC(*node)   {}
func (*ScheduleDownloadResponse) decodeRPC(*reader) {}

func (m *UploadResponse) encodeRPC(n *node) {
	n.bool("Status", m.Status)
	n.time("StartTime", m.StartTime)
	n.time("CompleteTime", m.CompleteTime)
}

func (m *UploadResponse) decodeRPC(r *reader) {
	m.Status = r.bool("Status")
	m.StartTime = r.time("StartTime")
	m.CompleteTime = r.time("CompleteTime")
}

func (*FactoryResetResponse) encodeRPC(*node)   {}
func (*FactoryResetResponse) decodeRPC(*reader) {}

func (m *GetAllQueuedTransfersResponse) encodeRPC(n *node) {
	n.array("TransferList", len(m.TransferList), func(i int, item *node) {
		t := m.TransferList[i]
		item.text("CommandKey", t.CommandKey)
		item.int("State", int64(t.State))
		item.bool("IsDownload", t.IsDownload)
		item.text("FileType", t.FileType)
		item.uint("FileSize", t.FileSize)
		item.text("TargetFileName", t.TargetFileName)
	})
}

func (m *GetAllQueuedTransfersResponse) decodeRPC(r *reader) {
	r.array("TransferList", func(item *reader) {
		m.TransferList = append(m.TransferList, QueuedTransfer{
			CommandKey:     item.text("CommandKey"),
			State:          TransferState(item.int("State")),
			IsDownload:     item.bool("IsDownload"),
			FileType:       item.text("FileType"),
			FileSize:       item.uint("FileSize"),
			TargetFileName: item.text("TargetFileName"),
		})
	})
}

func (*CancelTransferResponse) encodeRPC(*node)   {}
func (*CancelTransferResponse) decodeRPC(*reader) {}

func (*ScheduleInformResponse) encodeRPC(*node)   {}
func (*ScheduleInformResponse) decodeRPC(*reader) {}

func (*ChangeDUStateResponse) encodeRPC(*node)   {}
func (*ChangeDUStateResponse) decodeRPC(*reader) {}
