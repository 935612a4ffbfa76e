package inspect

import (
	"errors"
	"fmt"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/soap"
)

// Inspector errors.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrMemberNotFound  = errors.New("member not found")
)

// Inspector resolves paths against a canonical graph.
type Inspector struct {
	binder *soap.Binder
}

// NewInspector creates an Inspector for g. cwmpNamespaces are the wire
// namespaces whose elements the canonical alternatives stand for.
func NewInspector(g *schema.Graph, cwmpNamespaces []schema.Namespace) (*Inspector, error) {
	b, err := soap.NewBinder(g, cwmpNamespaces)
	if err != nil {
		return nil, err
	}
	return &Inspector{binder: b}, nil
}

// Graph returns the inspected graph.
func (i *Inspector) Graph() *schema.Graph {
	return i.binder.Graph()
}

// NodeInfo describes a resolved element for display.
type NodeInfo struct {
	Name      string
	Ident     schema.Ident
	Type      schema.Ident
	Variant   schema.Variant
	MinOccurs uint32
	MaxOccurs schema.Occurs

	// Builtin is the XML Schema type a simple type bottoms out in.
	Builtin string

	// Item is the item element of a SOAP-encoded array.
	Item *schema.ElementMeta

	// Members are the child elements, or the array item alone.
	Members []schema.ElementMeta
}

// IsArray reports whether the node is a SOAP-encoded array.
func (n *NodeInfo) IsArray() bool { return n.Item != nil }

// Alternatives lists the elements a holder accepts.
func (i *Inspector) Alternatives(h Holder) []schema.ElementMeta {
	if h == HolderHeader {
		return i.binder.HeaderAlternatives()
	}
	return i.binder.BodyAlternatives()
}

// Resolve follows p through the graph and describes the element it names.
func (i *Inspector) Resolve(p *Path) (*NodeInfo, error) {
	if p.IsPartial() {
		return nil, fmt.Errorf("%w: %s names no element", ErrInvalidPath, p)
	}

	var cur schema.ElementMeta
	found := false
	for _, alt := range i.Alternatives(p.Holder) {
		if alt.Ident.Name == p.Element {
			cur, found = alt, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s in %s", ErrElementNotFound, p.Element, p.Holder)
	}

	info, err := i.describe(cur)
	if err != nil {
		return nil, err
	}
	for _, name := range p.Members {
		next, ok := findMember(info.Members, name)
		if !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrMemberNotFound, name, info.Name)
		}
		if info, err = i.describe(next); err != nil {
			return nil, err
		}
	}
	return info, nil
}

// Describe returns the NodeInfo of a single element.
func (i *Inspector) Describe(el schema.ElementMeta) (*NodeInfo, error) {
	return i.describe(el)
}

func (i *Inspector) describe(el schema.ElementMeta) (*NodeInfo, error) {
	typ := el.Type
	m, ok := i.Graph().Get(typ)
	if !ok {
		return nil, fmt.Errorf("%s: %w", typ, schema.ErrDanglingReference)
	}
	// Element references stand for the element type they point at.
	for m.Reference != nil {
		typ = m.Reference.Type
		if m, ok = i.Graph().Get(typ); !ok {
			return nil, fmt.Errorf("%s: %w", typ, schema.ErrDanglingReference)
		}
	}

	info := &NodeInfo{
		Name:      el.Ident.Name,
		Ident:     el.Ident,
		Type:      typ,
		Variant:   m.Variant(),
		MinOccurs: el.MinOccurs,
		MaxOccurs: el.MaxOccurs,
	}
	switch m.Variant() {
	case schema.VariantComplexType:
		if item, err := i.binder.ArrayItem(typ); err == nil {
			info.Item = &item
			info.Members = []schema.ElementMeta{item}
			break
		}
		members, err := i.binder.TypeMembers(typ)
		if err != nil {
			return nil, err
		}
		info.Members = members
	case schema.VariantSimple, schema.VariantBuiltIn:
		info.Builtin = i.builtin(typ)
	}
	return info, nil
}

// builtin follows simple type restrictions down to their built-in base.
func (i *Inspector) builtin(typ schema.Ident) string {
	for n := 0; n < 16; n++ {
		m, ok := i.Graph().Get(typ)
		if !ok {
			return ""
		}
		switch {
		case m.BuiltIn != nil:
			return m.BuiltIn.Name
		case m.Simple != nil:
			typ = m.Simple.Base
		default:
			return ""
		}
	}
	return ""
}

func findMember(members []schema.ElementMeta, name string) (schema.ElementMeta, bool) {
	for _, m := range members {
		if m.Ident.Name == name {
			return m, true
		}
	}
	return schema.ElementMeta{}, false
}
