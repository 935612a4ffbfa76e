package cwmp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/cwmp-protocol/cwmp-go/pkg/log"
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/soap"
	"github.com/cwmp-protocol/cwmp-go/pkg/unify"
	"github.com/cwmp-protocol/cwmp-go/pkg/version"
	"github.com/cwmp-protocol/cwmp-go/pkg/xmltree"
)

// Codec errors.
var (
	ErrMalformed        = errors.New("malformed envelope")
	ErrEncodingMismatch = errors.New("encoding mismatch")
	ErrMissingID        = errors.New("request envelope has no ID header")
	ErrUnknownNamespace = errors.New("not a CWMP namespace")
	ErrNoSchema         = errors.New("schema source has no graph")
)

// DefaultNamespace is the namespace used when an envelope names none.
const DefaultNamespace = "urn:dslforum-org:cwmp-1-2"

// DefaultFrameLimit is the number of document bytes kept in frame events.
const DefaultFrameLimit = 4096

// Options configures a Codec.
type Options struct {
	// Namespace is the CWMP namespace of envelopes encoded without one.
	Namespace string

	// Limits bounds every decoded document.
	Limits xmltree.Limits

	// StrictArrays rejects decoded arrays whose soapenc:arrayType length
	// disagrees with their items. MethodList mismatches are always
	// tolerated.
	StrictArrays bool

	// FrameLimit is the number of document bytes kept in frame events.
	// Zero or less records sizes only.
	FrameLimit int

	// Role is the local side, recorded in protocol events.
	Role log.Role

	// Logger receives operational logs. Nil disables them.
	Logger *slog.Logger

	// ProtocolLogger receives frame, message and error events. Nil
	// disables them.
	ProtocolLogger log.Logger
}

// DefaultOptions returns the options used by NewDefaultCodec.
func DefaultOptions() Options {
	return Options{
		Namespace:  DefaultNamespace,
		Limits:     xmltree.DefaultLimits(),
		FrameLimit: DefaultFrameLimit,
	}
}

// Codec translates between envelopes and documents. It is safe for
// concurrent use.
type Codec struct {
	src        schema.Source
	opts       Options
	namespaces []schema.Namespace
	bound      atomic.Pointer[bound]
}

// bound is a Binder together with the graph it was built from.
type bound struct {
	graph  *schema.Graph
	binder *soap.Binder
}

// NewCodec returns a codec reading the canonical graph from src on every
// call. A graph swapped into src is picked up by the next call.
func NewCodec(src schema.Source, opts Options) (*Codec, error) {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Limits == (xmltree.Limits{}) {
		opts.Limits = xmltree.DefaultLimits()
	}
	namespaces, err := version.Namespaces()
	if err != nil {
		return nil, fmt.Errorf("loading CWMP namespaces: %w", err)
	}
	if !slices.Contains(namespaces, schema.Namespace(opts.Namespace)) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, opts.Namespace)
	}

	c := &Codec{src: src, opts: opts, namespaces: namespaces}
	if _, err := c.binder(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewDefaultCodec returns a codec over the embedded schema documents.
func NewDefaultCodec() (*Codec, error) {
	catalog, err := unify.Default()
	if err != nil {
		return nil, err
	}
	return NewCodec(catalog, DefaultOptions())
}

// binder returns the Binder for the graph currently in src.
func (c *Codec) binder() (*soap.Binder, error) {
	g := c.src.Graph()
	if g == nil {
		return nil, ErrNoSchema
	}
	if b := c.bound.Load(); b != nil && b.graph == g {
		return b.binder, nil
	}
	binder, err := soap.NewBinder(g, c.namespaces)
	if err != nil {
		return nil, err
	}
	c.bound.Store(&bound{graph: g, binder: binder})
	c.debugLog("codec bound to schema graph", "nodes", g.Len())
	return binder, nil
}

// Decode parses and decodes a document. A request envelope without an ID
// header is returned together with ErrMissingID so that the caller can still
// answer it with a fault.
func (c *Codec) Decode(data []byte) (*Envelope, error) {
	log.Emit(c.opts.ProtocolLogger, log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerXML,
		Category:  log.CategoryMessage,
		LocalRole: c.opts.Role,
		Frame:     log.NewFrameEvent(data, c.opts.FrameLimit),
	})

	root, err := xmltree.ParseLimited(bytes.NewReader(data), c.opts.Limits)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
		c.emitError(log.LayerXML, "decode", err)
		return nil, err
	}
	return c.DecodeElement(root)
}

// DecodeReader reads a complete document from r and decodes it.
func (c *Codec) DecodeReader(r io.Reader) (*Envelope, error) {
	var buf bytes.Buffer
	src := r
	if c.opts.Limits.MaxBytes > 0 {
		src = io.LimitReader(r, c.opts.Limits.MaxBytes+1)
	}
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}
	return c.Decode(buf.Bytes())
}

// DecodeElement decodes an already parsed envelope.
func (c *Codec) DecodeElement(root *xmltree.Element) (*Envelope, error) {
	binder, err := c.binder()
	if err != nil {
		return nil, err
	}
	sorted, err := binder.Bind(root)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrMalformed, err)
		c.emitError(log.LayerCodec, "decode", err)
		return nil, err
	}

	dec := &decoder{}
	env := &Envelope{Namespace: sorted.Namespace}
	if env.Namespace == "" {
		if ns, ok := root.LookupPrefix("cwmp"); ok && binder.IsCWMPNamespace(ns) {
			env.Namespace = ns
		}
	}

	for _, entry := range sorted.Headers {
		if h := decodeHeader(dec, entry.Element); h != nil {
			env.Headers = append(env.Headers, h)
		}
	}

	dropped := make([]string, 0, len(sorted.Dropped))
	for _, el := range sorted.Dropped {
		dropped = append(dropped, el.Name.Local)
	}
	for _, entry := range sorted.Payloads {
		if env.Body != nil {
			dropped = append(dropped, entry.Name())
			c.debugLog("ignoring additional body element", "element", entry.Name())
			continue
		}
		env.Body = c.decodeBody(dec, binder, entry)
	}
	if env.Body == nil {
		env.Body = NoContent{}
	}
	if len(dropped) > 0 {
		c.debugLog("dropped unrecognized elements", "elements", dropped)
	}

	if dec.err != nil {
		c.emitError(log.LayerCodec, "decode", dec.err)
		return nil, dec.err
	}
	if err := c.checkDecodedArrays(root); err != nil {
		c.emitError(log.LayerCodec, "decode", err)
		return nil, err
	}

	c.emitMessage(log.DirectionIn, env, env.Namespace, dropped, dec.items)
	if _, ok := env.ID(); !ok && env.IsRequest() {
		err := fmt.Errorf("%w: %s", ErrMissingID, env.Method())
		c.emitError(log.LayerCodec, "decode", err)
		return env, err
	}
	return env, nil
}

func (c *Codec) decodeBody(dec *decoder, binder *soap.Binder, entry soap.Entry) Body {
	r := &reader{dec: dec, el: entry.Element}
	if entry.Element.Name == soap.FaultName {
		f := &Fault{}
		f.decodeFault(r, binder.IsCWMPNamespace)
		return f
	}

	name := entry.Name()
	if newRequest, ok := requests[name]; ok {
		req := newRequest()
		req.decodeRPC(r)
		return req
	}
	if newResponse, ok := responses[name]; ok {
		resp := newResponse()
		resp.decodeRPC(r)
		return resp
	}
	c.debugLog("recognized body element has no domain type", "element", name)
	return nil
}

func decodeHeader(dec *decoder, el *xmltree.Element) Header {
	r := &reader{dec: dec, el: el}
	mustUnderstand := false
	if v, ok := el.AttrLocal("mustUnderstand", soap.EnvelopeNamespace, ""); ok {
		b, err := parseBool(v)
		if err != nil {
			r.malformed("@mustUnderstand", v, err)
		}
		mustUnderstand = b
	}

	text := el.Text()
	switch el.Name.Local {
	case "ID":
		return &ID{MustUnderstand: mustUnderstand, Value: text}
	case "SessionTimeout":
		n, err := parseUint(text)
		if err != nil {
			r.malformed("text()", text, err)
		}
		return &SessionTimeout{MustUnderstand: mustUnderstand, Seconds: n}
	case "SupportedCWMPVersions":
		versions, err := version.ParseList(text)
		if err != nil {
			r.malformed("text()", text, err)
		}
		return &SupportedCWMPVersions{MustUnderstand: mustUnderstand, Versions: versions}
	case "UseCWMPVersion":
		v, err := version.Parse(text)
		if err != nil {
			r.malformed("text()", text, err)
		}
		return &UseCWMPVersion{MustUnderstand: mustUnderstand, Version: v}
	}
	return nil
}

// checkDecodedArrays logs arrayType lengths that disagree with the items
// sent. With StrictArrays they are errors, except in MethodList.
func (c *Codec) checkDecodedArrays(root *xmltree.Element) error {
	for _, m := range soap.CheckArrays(root) {
		if c.opts.StrictArrays && m.Element.Name.Local != "MethodList" {
			return fmt.Errorf("%w: %s", ErrMalformed, m)
		}
		c.debugLog("tolerating array length mismatch", "array", m.String())
		log.Emit(c.opts.ProtocolLogger, log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerCodec,
			Category:  log.CategoryDiagnostic,
			LocalRole: c.opts.Role,
			Error: &log.ErrorEventData{
				Layer:   log.LayerCodec,
				Message: m.String(),
				Context: "arrayType",
			},
		})
	}
	return nil
}

// Encode encodes env as a document.
func (c *Codec) Encode(env *Envelope) ([]byte, error) {
	root, err := c.EncodeElement(env)
	if err != nil {
		return nil, err
	}
	data, err := xmltree.Marshal(root, soap.Bindings(c.namespace(env))...)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrEncodingMismatch, err)
		c.emitError(log.LayerXML, "encode", err)
		return nil, err
	}

	log.Emit(c.opts.ProtocolLogger, log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerXML,
		Category:  log.CategoryMessage,
		LocalRole: c.opts.Role,
		Frame:     log.NewFrameEvent(data, c.opts.FrameLimit),
	})
	return data, nil
}

// EncodeElement builds the envelope tree without serializing it.
func (c *Codec) EncodeElement(env *Envelope) (*xmltree.Element, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrEncodingMismatch)
	}
	binder, err := c.binder()
	if err != nil {
		return nil, err
	}
	ns := c.namespace(env)
	if !binder.IsCWMPNamespace(ns) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	if _, ok := env.ID(); !ok && env.IsRequest() {
		return nil, fmt.Errorf("%w: %s", ErrMissingID, env.Method())
	}

	enc := &encoder{binder: binder, ns: ns}
	headers := make([]*xmltree.Element, 0, len(env.Headers))
	for _, h := range env.Headers {
		headers = append(headers, encodeHeader(ns, h))
	}
	payload := c.encodeBody(enc, env.Body)
	if enc.err != nil {
		c.emitError(log.LayerCodec, "encode", enc.err)
		return nil, enc.err
	}

	root, err := binder.Build(headers, payload)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrEncodingMismatch, err)
		c.emitError(log.LayerCodec, "encode", err)
		return nil, err
	}
	if mismatches := soap.CheckArrays(root); len(mismatches) > 0 {
		err := fmt.Errorf("%w: %s", ErrEncodingMismatch, mismatches[0])
		c.emitError(log.LayerCodec, "encode", err)
		return nil, err
	}

	c.emitMessage(log.DirectionOut, env, ns, nil, enc.items)
	return root, nil
}

func (c *Codec) encodeBody(enc *encoder, b Body) *xmltree.Element {
	switch b := b.(type) {
	case nil, NoContent, *NoContent:
		return nil
	case *Fault:
		el := xmltree.NewElement(soap.FaultName)
		b.encodeFault(enc, el)
		return el
	case Request:
		return rpcElement(enc, b.MethodName(), b.encodeRPC)
	case Response:
		return rpcElement(enc, b.MethodName()+"Response", b.encodeRPC)
	}
	enc.fail(fmt.Errorf("%w: unsupported body %T", ErrEncodingMismatch, b))
	return nil
}

func rpcElement(enc *encoder, name string, fill func(n *node)) *xmltree.Element {
	alt, ok := enc.binder.BodyAlternative(name)
	if !ok {
		enc.fail(fmt.Errorf("%w: %s", soap.ErrUnrecognized, name))
		return nil
	}
	members, err := enc.binder.Members(alt)
	if err != nil {
		enc.fail(err)
		return nil
	}
	n := &node{
		enc:     enc,
		el:      xmltree.NewElement(xmltree.Name{Space: enc.ns, Local: name}),
		members: members,
	}
	fill(n)
	return n.el
}

func encodeHeader(ns string, h Header) *xmltree.Element {
	var mustUnderstand bool
	var text string
	switch h := h.(type) {
	case *ID:
		mustUnderstand, text = h.MustUnderstand, h.Value
	case *SessionTimeout:
		mustUnderstand, text = h.MustUnderstand, fmt.Sprint(h.Seconds)
	case *SupportedCWMPVersions:
		mustUnderstand, text = h.MustUnderstand, version.FormatList(h.Versions)
	case *UseCWMPVersion:
		mustUnderstand, text = h.MustUnderstand, h.Version.String()
	}
	el := xmltree.NewTextElement(xmltree.Name{Space: ns, Local: h.HeaderName()}, text)
	el.SetAttr(soap.MustUnderstandName, formatBool(mustUnderstand))
	return el
}

func (c *Codec) namespace(env *Envelope) string {
	if env != nil && env.Namespace != "" {
		return env.Namespace
	}
	return c.opts.Namespace
}

func (c *Codec) emitMessage(dir log.Direction, env *Envelope, ns string, dropped []string, items *int) {
	if c.opts.ProtocolLogger == nil && c.opts.Logger == nil {
		return
	}

	msg := &log.MessageEvent{
		Method:  env.Method(),
		Dropped: dropped,
		Items:   items,
	}
	switch b := env.Body.(type) {
	case Request:
		msg.Type = log.MessageTypeRequest
	case Response:
		msg.Type = log.MessageTypeResponse
	case *Fault:
		msg.Type = log.MessageTypeFault
		if b.Detail != nil {
			code := uint32(b.Detail.FaultCode)
			msg.FaultCode = &code
		}
	default:
		msg.Type = log.MessageTypeNoContent
	}
	for _, h := range env.Headers {
		msg.Headers = append(msg.Headers, h.HeaderName())
	}

	id, _ := env.ID()
	var ver string
	if v, err := version.FromNamespace(schema.Namespace(ns)); err == nil {
		ver = v.String()
	}
	c.debugLog("envelope", "direction", dir.String(), "type", msg.Type.String(), "method", msg.Method, "id", id)
	log.Emit(c.opts.ProtocolLogger, log.Event{
		EnvelopeID: id,
		Direction:  dir,
		Layer:      log.LayerCodec,
		Category:   log.CategoryMessage,
		LocalRole:  c.opts.Role,
		Version:    ver,
		Message:    msg,
	})
}

func (c *Codec) emitError(layer log.Layer, context string, err error) {
	if c.opts.Logger != nil {
		c.opts.Logger.Warn("cwmp codec error", "context", context, "error", err)
	}
	data := &log.ErrorEventData{
		Layer:   layer,
		Message: err.Error(),
		Context: context,
	}
	dir := log.DirectionIn
	if context == "encode" {
		dir = log.DirectionOut
	}
	log.Emit(c.opts.ProtocolLogger, log.Event{
		Direction: dir,
		Layer:     layer,
		Category:  log.CategoryError,
		LocalRole: c.opts.Role,
		Error:     data,
	})
}

func (c *Codec) debugLog(msg string, args ...any) {
	if c.opts.Logger != nil {
		c.opts.Logger.Debug(msg, args...)
	}
}
