package soap

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/xmltree"
)

// Binding errors.
var (
	ErrNotEnvelope     = errors.New("root element is not a SOAP envelope")
	ErrMissingBody     = errors.New("envelope has no body")
	ErrMultipleHeaders = errors.New("envelope has more than one header")
	ErrMultipleBodies  = errors.New("envelope has more than one body")
	ErrUnrecognized    = errors.New("element is not a recognized alternative")
	ErrNotCanonical    = errors.New("graph is not canonical")
	ErrUnknownMember   = errors.New("unknown member")
	ErrNotArray        = errors.New("type is not a SOAP-encoded array")
	ErrNotStructured   = errors.New("type has no element content")
)

// Entry is an envelope child matched to a choice alternative.
type Entry struct {
	Alternative schema.ElementMeta
	Element     *xmltree.Element
}

// Name returns the local name of the matched element.
func (e Entry) Name() string { return e.Element.Name.Local }

// Envelope is a parsed envelope sorted against the canonical graph.
type Envelope struct {
	Root *xmltree.Element

	// Headers are the recognized header entries in document order.
	Headers []Entry

	// Payloads are the recognized body entries in document order.
	Payloads []Entry

	// Dropped are header and body children that match no alternative.
	Dropped []*xmltree.Element

	// Namespace is the CWMP namespace of the first recognized entry, or
	// empty when no CWMP element was recognized.
	Namespace string
}

type alternatives struct {
	order     []schema.ElementMeta
	canonical map[string]schema.ElementMeta
	qualified map[xmltree.Name]schema.ElementMeta
}

func (a alternatives) match(el *xmltree.Element, cwmp map[string]bool) (schema.ElementMeta, bool) {
	if alt, ok := a.qualified[el.Name]; ok {
		return alt, true
	}
	if cwmp[el.Name.Space] {
		alt, ok := a.canonical[el.Name.Local]
		return alt, ok
	}
	return schema.ElementMeta{}, false
}

// Binder sorts envelopes against a canonical graph.
type Binder struct {
	graph  *schema.Graph
	cwmp   map[string]bool
	header alternatives
	body   alternatives
}

// NewBinder reads the Header and Body choices of g. Canonical alternatives
// match elements in any of the given CWMP namespaces.
func NewBinder(g *schema.Graph, cwmpNamespaces []schema.Namespace) (*Binder, error) {
	b := &Binder{
		graph: g,
		cwmp:  make(map[string]bool, len(cwmpNamespaces)),
	}
	for _, ns := range cwmpNamespaces {
		b.cwmp[string(ns)] = true
	}

	var err error
	if b.header, err = b.choice("Header"); err != nil {
		return nil, err
	}
	if b.body, err = b.choice("Body"); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Binder) choice(container string) (alternatives, error) {
	id := schema.NewIdent(schema.KindType, EnvelopeNamespace, container)
	m, ok := b.graph.Get(id)
	if !ok || m.Complex == nil || m.Complex.Content == nil {
		return alternatives{}, fmt.Errorf("%s: %w", id, ErrNotCanonical)
	}
	content, ok := b.graph.Get(*m.Complex.Content)
	if !ok || content.Choice == nil {
		return alternatives{}, fmt.Errorf("%s content is not a choice: %w", id, ErrNotCanonical)
	}

	alts := alternatives{
		canonical: make(map[string]schema.ElementMeta),
		qualified: make(map[xmltree.Name]schema.ElementMeta),
	}
	alts.order = content.Choice.Elements
	for _, el := range content.Choice.Elements {
		if el.Ident.IsCanonical() {
			alts.canonical[el.Ident.Name] = el
			continue
		}
		alts.qualified[xmltree.Name{Space: string(el.Ident.Namespace), Local: el.Ident.Name}] = el
	}
	return alts, nil
}

// HeaderAlternative returns the canonical header alternative named name.
func (b *Binder) HeaderAlternative(name string) (schema.ElementMeta, bool) {
	alt, ok := b.header.canonical[name]
	return alt, ok
}

// BodyAlternative returns the canonical body alternative named name.
func (b *Binder) BodyAlternative(name string) (schema.ElementMeta, bool) {
	alt, ok := b.body.canonical[name]
	return alt, ok
}

// HeaderAlternatives returns every header alternative in graph order.
func (b *Binder) HeaderAlternatives() []schema.ElementMeta {
	return slices.Clone(b.header.order)
}

// BodyAlternatives returns every body alternative in graph order.
func (b *Binder) BodyAlternatives() []schema.ElementMeta {
	return slices.Clone(b.body.order)
}

// Graph returns the canonical graph.
func (b *Binder) Graph() *schema.Graph { return b.graph }

// IsCWMPNamespace reports whether ns is one of the Binder's CWMP
// namespaces.
func (b *Binder) IsCWMPNamespace(ns string) bool { return b.cwmp[ns] }

// Bind sorts the header and body children of root.
func (b *Binder) Bind(root *xmltree.Element) (*Envelope, error) {
	if root == nil || root.Name != EnvelopeName {
		return nil, ErrNotEnvelope
	}

	env := &Envelope{Root: root}
	var header, body *xmltree.Element
	for _, child := range root.Elements() {
		switch child.Name {
		case HeaderName:
			if header != nil {
				return nil, ErrMultipleHeaders
			}
			header = child
		case BodyName:
			if body != nil {
				return nil, ErrMultipleBodies
			}
			body = child
		}
	}
	if body == nil {
		return nil, ErrMissingBody
	}

	if header != nil {
		for _, el := range header.Elements() {
			if alt, ok := b.header.match(el, b.cwmp); ok {
				env.Headers = append(env.Headers, Entry{Alternative: alt, Element: el})
				env.noteNamespace(el, b.cwmp)
				continue
			}
			env.Dropped = append(env.Dropped, el)
		}
	}
	for _, el := range body.Elements() {
		if alt, ok := b.body.match(el, b.cwmp); ok {
			env.Payloads = append(env.Payloads, Entry{Alternative: alt, Element: el})
			env.noteNamespace(el, b.cwmp)
			continue
		}
		env.Dropped = append(env.Dropped, el)
	}
	return env, nil
}

func (e *Envelope) noteNamespace(el *xmltree.Element, cwmp map[string]bool) {
	if e.Namespace == "" && cwmp[el.Name.Space] {
		e.Namespace = el.Name.Space
	}
}

// Build assembles an envelope. Each header and the payload must match an
// alternative of the canonical graph. The Header element is omitted when
// there are no headers.
func (b *Binder) Build(headers []*xmltree.Element, payload *xmltree.Element) (*xmltree.Element, error) {
	root := xmltree.NewElement(EnvelopeName)
	if len(headers) > 0 {
		h := xmltree.NewElement(HeaderName)
		for _, el := range headers {
			if _, ok := b.header.match(el, b.cwmp); !ok {
				return nil, fmt.Errorf("header %s: %w", el.Name, ErrUnrecognized)
			}
			h.Append(el)
		}
		root.Append(h)
	}

	body := xmltree.NewElement(BodyName)
	if payload != nil {
		if _, ok := b.body.match(payload, b.cwmp); !ok {
			return nil, fmt.Errorf("body %s: %w", payload.Name, ErrUnrecognized)
		}
		body.Append(payload)
	}
	return root.Append(body), nil
}

// Members returns the members of a recognized element, following element
// references to the element type's content group. Elements with empty
// content have no members.
func (b *Binder) Members(element schema.ElementMeta) ([]schema.ElementMeta, error) {
	typ, err := b.elementType(element.Type)
	if err != nil {
		return nil, err
	}
	return b.members(typ)
}

// Member returns the member named name of a recognized element.
func (b *Binder) Member(element schema.ElementMeta, name string) (schema.ElementMeta, error) {
	members, err := b.Members(element)
	if err != nil {
		return schema.ElementMeta{}, err
	}
	for _, m := range members {
		if m.Ident.Name == name {
			return m, nil
		}
	}
	return schema.ElementMeta{}, fmt.Errorf("%s in %s: %w", name, element.Ident, ErrUnknownMember)
}

// TypeMembers returns the members of a complex type.
func (b *Binder) TypeMembers(typ schema.Ident) ([]schema.ElementMeta, error) {
	return b.members(typ)
}

// ArrayItem returns the item member of a SOAP-encoded array type. Array
// types carry a soapenc:arrayType attribute; the item is the first member of
// their own content or, for restrictions without content, of their base.
func (b *Binder) ArrayItem(typ schema.Ident) (schema.ElementMeta, error) {
	m, ok := b.graph.Get(typ)
	if !ok || m.Complex == nil {
		return schema.ElementMeta{}, fmt.Errorf("%s: %w", typ, ErrNotArray)
	}
	if !hasArrayType(m.Complex) {
		return schema.ElementMeta{}, fmt.Errorf("%s: %w", typ, ErrNotArray)
	}

	cur := m
	for n := 0; n < maxDerivationDepth; n++ {
		c := cur.Complex
		var group *schema.GroupMeta
		switch {
		case c.Content != nil:
			content, _ := b.graph.Get(*c.Content)
			group = content.Group()
		case c.Derivation == schema.DerivationRestriction:
			base, _ := b.graph.Get(c.Base)
			if base.Variant() == schema.VariantComplexType {
				cur = base
				continue
			}
			group = base.Group()
		}
		if group == nil || len(group.Elements) == 0 {
			return schema.ElementMeta{}, fmt.Errorf("%s: no item member: %w", typ, ErrNotArray)
		}
		return group.Elements[0], nil
	}
	return schema.ElementMeta{}, fmt.Errorf("%s: derivation chain too long: %w", typ, ErrNotArray)
}

// maxDerivationDepth bounds walks up restriction bases. Schema graphs from a
// custom Source may contain base cycles.
const maxDerivationDepth = 16

func hasArrayType(c *schema.ComplexMeta) bool {
	for _, a := range c.Attributes {
		if a.Ident.Namespace == EncodingNamespace && a.Ident.Name == "arrayType" {
			return true
		}
	}
	return false
}

// elementType follows references from an element ident to a complex type.
func (b *Binder) elementType(id schema.Ident) (schema.Ident, error) {
	for n := 0; n < 8; n++ {
		m, ok := b.graph.Get(id)
		if !ok {
			return schema.Ident{}, fmt.Errorf("%s: %w", id, schema.ErrDanglingReference)
		}
		if m.Reference == nil {
			return id, nil
		}
		id = m.Reference.Type
	}
	return schema.Ident{}, fmt.Errorf("%s: reference chain too long: %w", id, ErrNotStructured)
}

func (b *Binder) members(typ schema.Ident) ([]schema.ElementMeta, error) {
	m, ok := b.graph.Get(typ)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typ, schema.ErrDanglingReference)
	}
	if m.Complex == nil {
		return nil, fmt.Errorf("%s is %s: %w", typ, m.Variant(), ErrNotStructured)
	}
	if m.Complex.Content == nil {
		return nil, nil
	}
	content, ok := b.graph.Get(*m.Complex.Content)
	if !ok {
		return nil, fmt.Errorf("%s: %w", *m.Complex.Content, schema.ErrDanglingReference)
	}
	group := content.Group()
	if group == nil {
		return nil, fmt.Errorf("%s content is %s: %w", typ, content.Variant(), ErrNotStructured)
	}
	return group.Elements, nil
}
