package cwmp

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/cwmp-protocol/cwmp-go/pkg/log"
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/soap"
	"github.com/cwmp-protocol/cwmp-go/pkg/unify"
	"github.com/cwmp-protocol/cwmp-go/pkg/version"
	"github.com/cwmp-protocol/cwmp-go/pkg/xmltree"
)

var (
	catalogOnce sync.Once
	catalog     *unify.Catalog
	catalogErr  error
)

func testCatalog(t *testing.T) *unify.Catalog {
	t.Helper()
	catalogOnce.Do(func() {
		catalog, catalogErr = unify.Default()
	})
	require.NoError(t, catalogErr)
	return catalog
}

func testCodec(t *testing.T, mutate ...func(*Options)) *Codec {
	t.Helper()
	opts := DefaultOptions()
	for _, m := range mutate {
		m(&opts)
	}
	c, err := NewCodec(testCatalog(t), opts)
	require.NoError(t, err)
	return c
}

func envelope(ns, header, body string) string {
	return `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"` +
		` xmlns:soapenc="http://schemas.xmlsoap.org/soap/encoding/"` +
		` xmlns:xsd="http://www.w3.org/2001/XMLSchema"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"` +
		` xmlns:cwmp="` + ns + `" xmlns:x="urn:example:vendor">` +
		`<soapenv:Header>` + header + `</soapenv:Header>` +
		`<soapenv:Body>` + body + `</soapenv:Body></soapenv:Envelope>`
}

const idHeader = `<cwmp:ID soapenv:mustUnderstand="1">abc</cwmp:ID>`

// recorder collects protocol events.
type recorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recorder) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) messages() []*log.MessageEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*log.MessageEvent
	for _, e := range r.events {
		if e.Message != nil {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestDecode_Headers(t *testing.T) {
	c := testCodec(t)

	data := envelope("urn:dslforum-org:cwmp-1-0",
		`<cwmp:ID mustUnderstand="1">1234</cwmp:ID><cwmp:SessionTimeout mustUnderstand="0">40</cwmp:SessionTimeout>`,
		`<cwmp:GetRPCMethods/>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, []Header{
		&ID{MustUnderstand: true, Value: "1234"},
		&SessionTimeout{MustUnderstand: false, Seconds: 40},
	}, env.Headers)
	assert.Equal(t, &GetRPCMethods{}, env.Body)
	assert.Equal(t, "urn:dslforum-org:cwmp-1-0", env.Namespace)

	v, err := env.Version()
	require.NoError(t, err)
	assert.Equal(t, version.MustParse("1.0"), v)
}

func TestDecode_VersionHeaders(t *testing.T) {
	c := testCodec(t)

	data := envelope(DefaultNamespace,
		idHeader+
			`<cwmp:HoldRequests soapenv:mustUnderstand="1">0</cwmp:HoldRequests>`+
			`<cwmp:SupportedCWMPVersions soapenv:mustUnderstand="0">1.0,1.2,1.4</cwmp:SupportedCWMPVersions>`+
			`<cwmp:UseCWMPVersion soapenv:mustUnderstand="1">1.2</cwmp:UseCWMPVersion>`,
		`<cwmp:Reboot><CommandKey>k</CommandKey></cwmp:Reboot>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	require.Len(t, env.Headers, 3)
	assert.Equal(t, &SupportedCWMPVersions{Versions: []version.SpecVersion{
		version.MustParse("1.0"), version.MustParse("1.2"), version.MustParse("1.4"),
	}}, env.Headers[1])
	assert.Equal(t, &UseCWMPVersion{MustUnderstand: true, Version: version.MustParse("1.2")}, env.Headers[2])
}

func TestDecode_SetParameterValuesResponseStatus(t *testing.T) {
	c := testCodec(t)

	tests := []struct {
		status string
		want   bool
	}{
		{"1", true},
		{"0", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			data := envelope(DefaultNamespace, "",
				`<cwmp:SetParameterValuesResponse><Status>`+tt.status+`</Status></cwmp:SetParameterValuesResponse>`)
			env, err := c.Decode([]byte(data))
			require.NoError(t, err)
			assert.Equal(t, &SetParameterValuesResponse{Status: tt.want}, env.Body)
		})
	}
}

func TestDecode_FaultKeepsParameterFaultsInOrder(t *testing.T) {
	c := testCodec(t)

	data := envelope("urn:dslforum-org:cwmp-1-1", idHeader, `<soapenv:Fault>
		<faultcode>soapenv:Client</faultcode>
		<faultstring>CWMP fault</faultstring>
		<detail>
		  <cwmp:Fault>
		    <FaultCode>9003</FaultCode>
		    <FaultString>Invalid arguments</FaultString>
		    <SetParameterValuesFault>
		      <ParameterName>Device.Time.NTPServer1</ParameterName>
		      <FaultCode>9007</FaultCode>
		      <FaultString>Invalid parameter value</FaultString>
		    </SetParameterValuesFault>
		    <SetParameterValuesFault>
		      <ParameterName>
		        Device.Time.Enable
		      </ParameterName>
		      <FaultCode>9008</FaultCode>
		      <FaultString>Not writable</FaultString>
		    </SetParameterValuesFault>
		  </cwmp:Fault>
		</detail>
	</soapenv:Fault>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	f, ok := env.Body.(*Fault)
	require.True(t, ok)
	assert.Equal(t, SOAPClient, f.FaultCode)
	assert.Equal(t, "CWMP fault", f.FaultString)
	require.NotNil(t, f.Detail)
	assert.Equal(t, FaultInvalidArguments, f.Detail.FaultCode)
	assert.Equal(t, []SetParameterValuesFault{
		{ParameterName: "Device.Time.NTPServer1", FaultCode: FaultInvalidParameterValue, FaultString: "Invalid parameter value"},
		{ParameterName: "Device.Time.Enable", FaultCode: FaultNonWritableParameter, FaultString: "Not writable"},
	}, f.Detail.SetParameterValuesFaults)
}

func TestDecode_ParameterNamesArray(t *testing.T) {
	c := testCodec(t)

	data := envelope(DefaultNamespace, idHeader, `<cwmp:GetParameterValues>
		<ParameterNames soapenc:arrayType="xsd:string[3]">
		  <string>Device.DeviceInfo.</string>
		  <string>Device.WANDevice.*.WANConnectionDevice.1</string>
		  <string>Device.DeviceInfo.Manufacturer</string>
		</ParameterNames>
	</cwmp:GetParameterValues>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, &GetParameterValues{ParameterNames: []ParameterPath{
		{Path: "Device.DeviceInfo.", Kind: PathPartial},
		{Path: "Device.WANDevice.*.WANConnectionDevice.1", Kind: PathWildCard},
		{Path: "Device.DeviceInfo.Manufacturer", Kind: PathFull},
	}}, env.Body)
}

func TestDecode_InvalidPath(t *testing.T) {
	c := testCodec(t)

	data := envelope(DefaultNamespace, idHeader, `<cwmp:GetParameterValues>
		<ParameterNames soapenc:arrayType="xsd:string[1]"><string>Device.*</string></ParameterNames>
	</cwmp:GetParameterValues>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	id, ok := env.ID()
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	req, ok := env.Body.(*GetParameterValues)
	require.True(t, ok)
	require.Len(t, req.ParameterNames, 1)
	assert.Equal(t, ParameterPath{Path: "Device.*", Kind: PathInvalid}, req.ParameterNames[0])
	assert.False(t, req.ParameterNames[0].Valid())

	data = envelope(DefaultNamespace, idHeader, `<cwmp:GetParameterNames>
		<ParameterPath>Device.*.</ParameterPath><NextLevel>1</NextLevel>
	</cwmp:GetParameterNames>`)

	env, err = c.Decode([]byte(data))
	require.NoError(t, err)
	names, ok := env.Body.(*GetParameterNames)
	require.True(t, ok)
	assert.Equal(t, PathInvalid, names.ParameterPath.Kind)
	assert.Equal(t, "Device.*.", names.ParameterPath.Path)
	assert.True(t, names.NextLevel)
}

func TestDecode_TrimsNames(t *testing.T) {
	c := testCodec(t)

	data := envelope(DefaultNamespace, idHeader, `<cwmp:SetParameterValues>
		<ParameterList soapenc:arrayType="cwmp:ParameterValueStruct[1]">
		  <ParameterValueStruct>
		    <Name>
		      Device.X
		    </Name>
		    <Value xsi:type="xsd:string"> padded </Value>
		  </ParameterValueStruct>
		</ParameterList>
		<ParameterKey></ParameterKey>
	</cwmp:SetParameterValues>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	req, ok := env.Body.(*SetParameterValues)
	require.True(t, ok)
	require.Len(t, req.ParameterList, 1)
	assert.Equal(t, "Device.X", req.ParameterList[0].Name)
	assert.Equal(t, " padded ", req.ParameterList[0].Value.Data)

	data = envelope(DefaultNamespace, idHeader, `<cwmp:GetParameterNames>
		<ParameterPath>
		  Device.DeviceInfo.
		</ParameterPath>
		<NextLevel>0</NextLevel>
	</cwmp:GetParameterNames>`)

	env, err = c.Decode([]byte(data))
	require.NoError(t, err)
	names, ok := env.Body.(*GetParameterNames)
	require.True(t, ok)
	assert.Equal(t, ParameterPath{Path: "Device.DeviceInfo.", Kind: PathPartial}, names.ParameterPath)
}

func TestDecode_NoContent(t *testing.T) {
	c := testCodec(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"unknown element", `<x:Extension/>`},
		{"unmodelled CWMP element", `<cwmp:Inform/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := c.Decode([]byte(envelope(DefaultNamespace, "", tt.body)))
			require.NoError(t, err)
			assert.Equal(t, NoContent{}, env.Body)
			assert.Equal(t, "", env.Method())
		})
	}
}

func TestDecode_FirstBodyWins(t *testing.T) {
	rec := &recorder{}
	c := testCodec(t, func(o *Options) { o.ProtocolLogger = rec })

	data := envelope(DefaultNamespace, idHeader,
		`<x:Extension/><cwmp:Reboot><CommandKey>first</CommandKey></cwmp:Reboot><cwmp:FactoryReset/>`)

	env, err := c.Decode([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, &Reboot{CommandKey: "first"}, env.Body)

	msgs := rec.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, log.MessageTypeRequest, msgs[0].Type)
	assert.Equal(t, "Reboot", msgs[0].Method)
	assert.Equal(t, []string{"Extension", "FactoryReset"}, msgs[0].Dropped)
	assert.Equal(t, []string{"ID"}, msgs[0].Headers)
}

func TestDecode_MissingID(t *testing.T) {
	c := testCodec(t)

	env, err := c.Decode([]byte(envelope(DefaultNamespace, "", `<cwmp:Reboot/>`)))
	assert.ErrorIs(t, err, ErrMissingID)
	require.NotNil(t, env)
	assert.Equal(t, &Reboot{}, env.Body)

	_, err = c.Decode([]byte(envelope(DefaultNamespace, "", `<cwmp:RebootResponse/>`)))
	assert.NoError(t, err)
}

func TestDecode_Malformed(t *testing.T) {
	c := testCodec(t)

	tests := []struct {
		name string
		data string
	}{
		{"not XML", "<soapenv:Envelope"},
		{"not an envelope", `<Envelope/>`},
		{"no body", `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"/>`},
		{"bad status", envelope(DefaultNamespace, "",
			`<cwmp:SetParameterValuesResponse><Status>yes</Status></cwmp:SetParameterValuesResponse>`)},
		{"bad session timeout", envelope(DefaultNamespace,
			idHeader+`<cwmp:SessionTimeout>soon</cwmp:SessionTimeout>`, `<cwmp:Reboot/>`)},
		{"bad mustUnderstand", envelope(DefaultNamespace,
			`<cwmp:ID soapenv:mustUnderstand="maybe">1</cwmp:ID>`, `<cwmp:Reboot/>`)},
		{"bad dateTime", envelope(DefaultNamespace, "",
			`<cwmp:DownloadResponse><Status>0</Status><StartTime>yesterday</StartTime></cwmp:DownloadResponse>`)},
		{"unknown operation", envelope(DefaultNamespace, idHeader,
			`<cwmp:ChangeDUState><Operations xsi:type="cwmp:RollbackOpStruct"/></cwmp:ChangeDUState>`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	c := testCodec(t, func(o *Options) { o.Limits.MaxBytes = 64 })

	_, err := c.Decode([]byte(envelope(DefaultNamespace, idHeader, `<cwmp:Reboot/>`)))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, err, xmltree.ErrTooLarge)
}

func TestDecodeReader(t *testing.T) {
	c := testCodec(t)

	env, err := c.DecodeReader(strings.NewReader(envelope(DefaultNamespace, idHeader, `<cwmp:FactoryReset/>`)))
	require.NoError(t, err)
	assert.Equal(t, &FactoryReset{}, env.Body)
}

func TestDecode_ArrayLengthMismatch(t *testing.T) {
	methodList := envelope(DefaultNamespace, "", `<cwmp:GetRPCMethodsResponse>
		<MethodList soapenc:arrayType="xsd:string[3]"><string>Reboot</string><string>Download</string></MethodList>
	</cwmp:GetRPCMethodsResponse>`)
	parameterList := envelope(DefaultNamespace, idHeader, `<cwmp:SetParameterValues>
		<ParameterList soapenc:arrayType="cwmp:ParameterValueStruct[3]">
		  <ParameterValueStruct><Name>Device.A</Name><Value xsi:type="xsd:string">a</Value></ParameterValueStruct>
		</ParameterList>
		<ParameterKey/>
	</cwmp:SetParameterValues>`)

	t.Run("tolerated by default", func(t *testing.T) {
		rec := &recorder{}
		c := testCodec(t, func(o *Options) { o.ProtocolLogger = rec })

		env, err := c.Decode([]byte(parameterList))
		require.NoError(t, err)
		spv := env.Body.(*SetParameterValues)
		assert.Len(t, spv.ParameterList, 1)

		var diagnostics int
		for _, e := range rec.events {
			if e.Category == log.CategoryDiagnostic {
				diagnostics++
			}
		}
		assert.Equal(t, 1, diagnostics)
	})

	t.Run("strict", func(t *testing.T) {
		c := testCodec(t, func(o *Options) { o.StrictArrays = true })

		_, err := c.Decode([]byte(parameterList))
		assert.ErrorIs(t, err, ErrMalformed)

		env, err := c.Decode([]byte(methodList))
		require.NoError(t, err)
		assert.Equal(t, &GetRPCMethodsResponse{MethodList: []string{"Reboot", "Download"}}, env.Body)
	})
}

func TestEncode_SetParameterValues(t *testing.T) {
	c := testCodec(t)

	env := &Envelope{
		Headers: []Header{&ID{MustUnderstand: true, Value: "42"}},
		Body: &SetParameterValues{
			ParameterList: []ParameterValue{
				{Name: "Device.ManagementServer.PeriodicInformInterval", Value: UintValue(300)},
				{Name: "Device.Time.Enable", Value: BoolValue(true)},
			},
			ParameterKey: "key-1",
		},
	}

	root, err := c.EncodeElement(env)
	require.NoError(t, err)

	body := root.Child(soap.BodyName)
	require.NotNil(t, body)
	require.Len(t, body.Elements(), 1)
	spv := body.Elements()[0]
	assert.Equal(t, xmltree.Name{Space: DefaultNamespace, Local: "SetParameterValues"}, spv.Name)

	list := spv.ChildLocal("ParameterList")
	require.NotNil(t, list)
	arrayType, ok := list.Attr(soap.ArrayTypeName)
	require.True(t, ok)
	assert.Equal(t, "cwmp:ParameterValueStruct[2]", arrayType)
	assert.Len(t, list.Elements(), 2)

	value := list.Elements()[0].ChildLocal("Value")
	xsiType, ok := value.Attr(soap.TypeName)
	require.True(t, ok)
	assert.Equal(t, "xsd:unsignedInt", xsiType)

	id := root.Child(soap.HeaderName).Elements()[0]
	mu, ok := id.Attr(soap.MustUnderstandName)
	require.True(t, ok)
	assert.Equal(t, "1", mu)

	data, err := c.Encode(env)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, `xmlns:cwmp="urn:dslforum-org:cwmp-1-2"`)
	assert.Contains(t, text, `<cwmp:ID soapenv:mustUnderstand="1">42</cwmp:ID>`)
	assert.Contains(t, text, `soapenc:arrayType="cwmp:ParameterValueStruct[2]"`)
	assert.Contains(t, text, `<Value xsi:type="xsd:boolean">1</Value>`)
}

func TestEncode_ArrayLengthsMatchItems(t *testing.T) {
	c := testCodec(t)

	for _, n := range []int{0, 1, 5} {
		names := make([]ParameterPath, n)
		for i := range names {
			names[i] = MustParsePath("Device.DeviceInfo.")
		}
		root, err := c.EncodeElement(&Envelope{
			Headers: []Header{&ID{Value: "1"}},
			Body:    &GetParameterValues{ParameterNames: names},
		})
		require.NoError(t, err)
		assert.Empty(t, soap.CheckArrays(root))

		list := root.Child(soap.BodyName).Elements()[0].ChildLocal("ParameterNames")
		v, _ := list.Attr(soap.ArrayTypeName)
		at, err := soap.ParseArrayType(v)
		require.NoError(t, err)
		assert.Equal(t, n, at.Length)
		assert.Equal(t, "xsd:string", at.Item)
	}
}

func TestEncode_Errors(t *testing.T) {
	c := testCodec(t)

	_, err := c.Encode(&Envelope{Body: &Reboot{}})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = c.Encode(&Envelope{Namespace: "urn:example:other", Body: &RebootResponse{}})
	assert.ErrorIs(t, err, ErrUnknownNamespace)

	_, err = c.Encode(nil)
	assert.ErrorIs(t, err, ErrEncodingMismatch)

	_, err = c.Encode(&Envelope{
		Headers: []Header{&ID{Value: "1"}},
		Body:    &ChangeDUState{Operations: []Operation{&UninstallOp{UUID: "not-a-uuid"}}},
	})
	assert.ErrorIs(t, err, ErrInvalidUUID)

	ops := make([]Operation, MaxDUOperations+1)
	for i := range ops {
		ops[i] = NewInstallOp("http://example.com/du.tar")
	}
	_, err = c.Encode(&Envelope{Headers: []Header{&ID{Value: "1"}}, Body: &ChangeDUState{Operations: ops}})
	assert.Error(t, err)
}

func TestEncode_NoContentAndNoHeaders(t *testing.T) {
	c := testCodec(t)

	root, err := c.EncodeElement(&Envelope{Body: NoContent{}})
	require.NoError(t, err)
	assert.Nil(t, root.Child(soap.HeaderName))
	assert.Empty(t, root.Child(soap.BodyName).Elements())
}

func TestEncode_KeepsDecodedNamespace(t *testing.T) {
	c := testCodec(t)

	env, err := c.Decode([]byte(envelope("urn:dslforum-org:cwmp-1-0", idHeader, `<cwmp:Reboot/>`)))
	require.NoError(t, err)

	data, err := c.Encode(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `xmlns:cwmp="urn:dslforum-org:cwmp-1-0"`)
	assert.NotContains(t, string(data), "cwmp-1-2")
}

func roundTripBodies() []Body {
	start := time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)
	return []Body{
		&GetRPCMethods{},
		&SetParameterValues{
			ParameterList: []ParameterValue{
				{Name: "Device.Time.NTPServer1", Value: StringValue("pool.ntp.org")},
				{Name: "Device.Time.LocalTimeZone", Value: IntValue(-5)},
				{Name: "Device.Time.CurrentLocalTime", Value: DateTimeValue(start)},
				{Name: "Device.X_Vendor.Blob", Value: Base64Value([]byte{1, 2, 3})},
			},
			ParameterKey: "pk",
		},
		&GetParameterValues{ParameterNames: []ParameterPath{
			MustParsePath("Device.DeviceInfo."),
			MustParsePath("Device.IP.Interface.*.Enable"),
		}},
		&GetParameterNames{ParameterPath: MustParsePath("Device.IP."), NextLevel: true},
		&SetParameterAttributes{ParameterList: []ParameterAttributeChange{{
			Name:               "Device.DeviceInfo.SoftwareVersion",
			NotificationChange: true,
			Notification:       NotificationActive,
			AccessListChange:   true,
			AccessList:         []string{"Subscriber"},
		}}},
		&GetParameterAttributes{ParameterNames: []ParameterPath{MustParsePath("Device.DeviceInfo.SoftwareVersion")}},
		&AddObject{ObjectName: "Device.IP.Interface.", ParameterKey: "pk"},
		&DeleteObject{ObjectName: "Device.IP.Interface.3.", ParameterKey: "pk"},
		&Reboot{CommandKey: "reboot-1"},
		&Download{
			CommandKey:     "dl",
			FileType:       "1 Firmware Upgrade Image",
			URL:            "https://acs.example.com/fw.bin",
			Username:       "u",
			Password:       "p",
			FileSize:       1 << 20,
			TargetFileName: "fw.bin",
			DelaySeconds:   10,
			SuccessURL:     "https://acs.example.com/ok",
		},
		&ScheduleDownload{
			CommandKey: "sd",
			FileType:   "1 Firmware Upgrade Image",
			URL:        "https://acs.example.com/fw.bin",
			FileSize:   42,
			TimeWindowList: []TimeWindow{
				{WindowStart: 0, WindowEnd: 3600, WindowMode: "1 At Any Time", MaxRetries: -1},
				{WindowStart: 7200, WindowEnd: 9000, WindowMode: "2 Immediately", UserMessage: "now", MaxRetries: 3},
			},
		},
		&Upload{CommandKey: "up", FileType: "3 Vendor Configuration File", URL: "https://acs.example.com/up", DelaySeconds: 5},
		&FactoryReset{},
		&GetAllQueuedTransfers{},
		&CancelTransfer{CommandKey: "dl"},
		&ScheduleInform{DelaySeconds: 60, CommandKey: "si"},
		&ChangeDUState{
			Operations: []Operation{
				&InstallOp{URL: "https://acs.example.com/du.tar", UUID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", ExecutionEnvRef: "Device.SoftwareModules.ExecEnv.1"},
				&UpdateOp{UUID: "6ba7b811-9dad-11d1-80b4-00c04fd430c8", Version: "2.0", URL: "https://acs.example.com/du2.tar"},
				&UninstallOp{UUID: "6ba7b812-9dad-11d1-80b4-00c04fd430c8", Version: "1.0"},
			},
			CommandKey: "du",
		},

		&GetRPCMethodsResponse{MethodList: []string{"GetRPCMethods", "Reboot", "Download"}},
		&SetParameterValuesResponse{Status: true},
		&GetParameterValuesResponse{ParameterList: []ParameterValue{
			{Name: "Device.DeviceInfo.UpTime", Value: UintValue(12345)},
			{Name: "Device.DeviceInfo.Manufacturer", Value: StringValue("")},
		}},
		&GetParameterNamesResponse{ParameterList: []ParameterInfo{
			{Name: "Device.IP.", Writable: false},
			{Name: "Device.IP.IPv4Enable", Writable: true},
		}},
		&SetParameterAttributesResponse{},
		&GetParameterAttributesResponse{ParameterList: []ParameterAttribute{
			{Name: "Device.DeviceInfo.SoftwareVersion", Notification: NotificationPassive, AccessList: []string{"Subscriber"}},
		}},
		&AddObjectResponse{InstanceNumber: 4, Status: false},
		&DeleteObjectResponse{Status: true},
		&RebootResponse{},
		&DownloadResponse{Status: true},
		&ScheduleDownloadResponse{},
		&UploadResponse{Status: false, StartTime: start, CompleteTime: start.Add(time.Minute)},
		&FactoryResetResponse{},
		&GetAllQueuedTransfersResponse{TransferList: []QueuedTransfer{
			{CommandKey: "dl", State: TransferInProgress, IsDownload: true, FileType: "1 Firmware Upgrade Image", FileSize: 99, TargetFileName: "fw.bin"},
		}},
		&CancelTransferResponse{},
		&ScheduleInformResponse{},
		&ChangeDUStateResponse{},

		NewFault(FaultMethodNotSupported, ""),
		NewFault(FaultInvalidArguments, "").
			AddParameterFault("Device.Time.Enable", FaultNonWritableParameter, "").
			AddParameterFault("Device.Time.NTPServer1", FaultInvalidParameterType, "want string"),
		&Fault{FaultCode: SOAPServer, FaultString: "plain SOAP fault"},
	}
}

func TestRoundTrip(t *testing.T) {
	c := testCodec(t)

	for _, body := range roundTripBodies() {
		t.Run(ElementName(body), func(t *testing.T) {
			env := &Envelope{
				Headers: []Header{
					&ID{MustUnderstand: true, Value: NewID()},
					&SessionTimeout{Seconds: 30},
				},
				Body: body,
			}

			data, err := c.Encode(env)
			require.NoError(t, err)

			got, err := c.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, DefaultNamespace, got.Namespace)
			assert.Equal(t, env.Headers, got.Headers)
			assert.Equal(t, body, got.Body)
			assert.Equal(t, ElementName(body), got.Method())

			// Re-encoding the decoded envelope yields an equivalent document.
			again, err := c.Encode(got)
			require.NoError(t, err)
			first, err := xmltree.Parse(data)
			require.NoError(t, err)
			second, err := xmltree.Parse(again)
			require.NoError(t, err)
			assert.True(t, xmltree.Equivalent(first, second), xmltree.Diff(first, second))
		})
	}
}

func TestRoundTrip_Headers(t *testing.T) {
	c := testCodec(t)

	headers := []Header{
		&ID{MustUnderstand: true, Value: "a"},
		&SessionTimeout{MustUnderstand: false, Seconds: 60},
		&SupportedCWMPVersions{Versions: []version.SpecVersion{version.MustParse("1.0"), version.MustParse("1.4")}},
		&UseCWMPVersion{MustUnderstand: true, Version: version.MustParse("1.4")},
		&SessionTimeout{MustUnderstand: true, Seconds: 90},
	}
	data, err := c.Encode(&Envelope{Headers: headers, Body: &GetRPCMethods{}})
	require.NoError(t, err)

	env, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, headers, env.Headers)
	id, ok := env.ID()
	assert.True(t, ok)
	assert.Equal(t, "a", id)
}

// swapSource hands out whichever graph was stored last.
type swapSource struct {
	g atomic.Pointer[schema.Graph]
}

func (s *swapSource) Graph() *schema.Graph { return s.g.Load() }

func TestCodec_FollowsSourceSwaps(t *testing.T) {
	first, err := unify.Default()
	require.NoError(t, err)
	second, err := unify.Default()
	require.NoError(t, err)
	require.NotSame(t, first.Graph(), second.Graph())

	src := &swapSource{}
	src.g.Store(first.Graph())
	c, err := NewCodec(src, DefaultOptions())
	require.NoError(t, err)

	data := []byte(envelope(DefaultNamespace, idHeader, `<cwmp:Reboot/>`))
	_, err = c.Decode(data)
	require.NoError(t, err)
	assert.Same(t, first.Graph(), c.bound.Load().graph)

	src.g.Store(second.Graph())
	_, err = c.Decode(data)
	require.NoError(t, err)
	assert.Same(t, second.Graph(), c.bound.Load().graph)
}

func TestNewCodec_Errors(t *testing.T) {
	_, err := NewCodec(&swapSource{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoSchema)

	opts := DefaultOptions()
	opts.Namespace = "urn:example:other"
	_, err = NewCodec(testCatalog(t), opts)
	assert.ErrorIs(t, err, ErrUnknownNamespace)

	raw, err := version.RawGraph()
	require.NoError(t, err)
	_, err = NewCodec(schema.Fixed(raw), DefaultOptions())
	assert.ErrorIs(t, err, soap.ErrNotCanonical)
}

func TestNewDefaultCodec(t *testing.T) {
	c, err := NewDefaultCodec()
	require.NoError(t, err)

	env, err := c.Decode([]byte(envelope(DefaultNamespace, idHeader, `<cwmp:GetRPCMethods/>`)))
	require.NoError(t, err)
	assert.True(t, env.IsRequest())
}

func TestCodec_Concurrent(t *testing.T) {
	c := testCodec(t)
	bodies := roundTripBodies()

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		body := bodies[i%len(bodies)]
		g.Go(func() error {
			data, err := c.Encode(&Envelope{Headers: []Header{&ID{Value: NewID()}}, Body: body})
			if err != nil {
				return err
			}
			_, err = c.Decode(data)
			return err
		})
	}
	assert.NoError(t, g.Wait())
}

func TestCodec_ProtocolEvents(t *testing.T) {
	rec := &recorder{}
	c := testCodec(t, func(o *Options) {
		o.ProtocolLogger = rec
		o.Role = log.RoleACS
		o.FrameLimit = 16
	})

	data, err := c.Encode(&Envelope{
		Headers: []Header{&ID{MustUnderstand: true, Value: "evt"}},
		Body:    &GetParameterValues{ParameterNames: []ParameterPath{MustParsePath("Device.")}},
	})
	require.NoError(t, err)
	_, err = c.Decode(data)
	require.NoError(t, err)
	_, err = c.Decode([]byte("garbage"))
	require.Error(t, err)

	require.Len(t, rec.events, 6)

	out := rec.events[0]
	assert.Equal(t, log.DirectionOut, out.Direction)
	assert.Equal(t, log.LayerCodec, out.Layer)
	assert.Equal(t, "evt", out.EnvelopeID)
	assert.Equal(t, "1.2", out.Version)
	assert.Equal(t, log.RoleACS, out.LocalRole)
	require.NotNil(t, out.Message)
	assert.Equal(t, "GetParameterValues", out.Message.Method)
	require.NotNil(t, out.Message.Items)
	assert.Equal(t, 1, *out.Message.Items)

	frame := rec.events[1]
	assert.Equal(t, log.LayerXML, frame.Layer)
	require.NotNil(t, frame.Frame)
	assert.Equal(t, len(data), frame.Frame.Size)
	assert.True(t, frame.Frame.Truncated)
	assert.Len(t, frame.Frame.Data, 16)

	assert.NotNil(t, rec.events[2].Frame)
	in := rec.events[3]
	assert.Equal(t, log.DirectionIn, in.Direction)
	require.NotNil(t, in.Message)
	assert.Equal(t, log.MessageTypeRequest, in.Message.Type)

	assert.NotNil(t, rec.events[4].Frame)
	failed := rec.events[5]
	assert.Equal(t, log.CategoryError, failed.Category)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "decode", failed.Error.Context)
}
