package schema

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document errors.
var (
	ErrDuplicateIdent = errors.New("duplicate ident")
	ErrBadReference   = errors.New("malformed reference")
	ErrUnknownPrefix  = errors.New("unknown namespace prefix")
)

// Document is one raw schema document: the declarations of a single target
// namespace as produced by the XSD pipeline.
//
// References inside a document are written "kind:name" for declarations of
// the document's own namespace and "kind:prefix:name" otherwise, e.g.
// "element-type:ID" or "type:xs:string".
type Document struct {
	Namespace Namespace            `yaml:"namespace"`
	Prefix    string               `yaml:"prefix"`
	Imports   map[string]Namespace `yaml:"imports"`
	Nodes     []RawNode            `yaml:"nodes"`
}

// RawNode is a declaration in a Document. Exactly one of Ref, Complex,
// Sequence, Choice, Simple, Union or BuiltIn is set.
type RawNode struct {
	Kind     string      `yaml:"kind"`
	Name     string      `yaml:"name"`
	Ref      string      `yaml:"ref,omitempty"`
	Complex  *RawComplex `yaml:"complex,omitempty"`
	Sequence []RawMember `yaml:"sequence,omitempty"`
	Choice   []RawMember `yaml:"choice,omitempty"`
	Simple   *RawSimple  `yaml:"simple,omitempty"`
	Union    []string    `yaml:"union,omitempty"`
	BuiltIn  string      `yaml:"builtin,omitempty"`
}

// RawComplex is a complex type declaration. Inline Sequence or Choice
// content is materialized as a separate "<Name>Content" type node.
type RawComplex struct {
	Base       string         `yaml:"base,omitempty"`
	Derivation string         `yaml:"derivation,omitempty"`
	Content    string         `yaml:"content,omitempty"`
	Sequence   []RawMember    `yaml:"sequence,omitempty"`
	Choice     []RawMember    `yaml:"choice,omitempty"`
	Attributes []RawAttribute `yaml:"attributes,omitempty"`
	Min        *uint32        `yaml:"min,omitempty"`
	Max        string         `yaml:"max,omitempty"`
	Mixed      bool           `yaml:"mixed,omitempty"`
	Abstract   bool           `yaml:"abstract,omitempty"`
}

// RawMember is a group member. Ref points at a global element instead of
// declaring a local one.
type RawMember struct {
	Name      string  `yaml:"name,omitempty"`
	Ref       string  `yaml:"ref,omitempty"`
	Type      string  `yaml:"type,omitempty"`
	Min       *uint32 `yaml:"min,omitempty"`
	Max       string  `yaml:"max,omitempty"`
	Nillable  bool    `yaml:"nillable,omitempty"`
	Qualified bool    `yaml:"qualified,omitempty"`
	Attribute bool    `yaml:"attribute,omitempty"`
}

// RawAttribute is an attribute use. A prefixed Name refers to a global
// attribute of another namespace.
type RawAttribute struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Use     string `yaml:"use,omitempty"`
	Default string `yaml:"default,omitempty"`
}

// RawSimple is a simple type restriction.
type RawSimple struct {
	Base        string   `yaml:"base"`
	Enumeration []string `yaml:"enumeration,omitempty"`
	MaxLength   uint32   `yaml:"maxLength,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty"`
}

// ParseDocument parses a raw schema document from YAML bytes.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	if doc.Namespace.IsEmpty() {
		return nil, fmt.Errorf("parsing schema document: missing namespace")
	}
	return &doc, nil
}

// LoadDocument loads and parses a raw schema document from a file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDocument(data)
}

// Build assembles documents into one raw graph. Built-in types referenced
// through the XML Schema namespace are added automatically. The result is
// validated but not frozen.
func Build(docs ...*Document) (*Graph, error) {
	g := NewGraph()
	for _, doc := range docs {
		if err := doc.addTo(g); err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.Namespace, err)
		}
	}
	for _, id := range g.Idents() {
		for _, ref := range g.items[id].References() {
			if ref.Namespace == XSDNamespace && !g.Has(ref) {
				g.items[ref] = NewBuiltIn(ref.Name)
			}
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (d *Document) addTo(g *Graph) error {
	if d.Prefix != "" {
		g.AddNamespace(d.Prefix, d.Namespace)
	}
	prefixes := make([]string, 0, len(d.Imports))
	for prefix := range d.Imports {
		prefixes = append(prefixes, prefix)
	}
	slices.Sort(prefixes)
	for _, prefix := range prefixes {
		g.AddNamespace(prefix, d.Imports[prefix])
	}

	put := func(id Ident, m *MetaType) error {
		if g.Has(id) {
			return fmt.Errorf("%s: %w", id, ErrDuplicateIdent)
		}
		g.items[id] = m
		return nil
	}

	for _, n := range d.Nodes {
		kind, err := ParseIdentKind(n.Kind)
		if err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
		id := NewIdent(kind, d.Namespace, n.Name)

		m := &MetaType{}
		switch {
		case n.Ref != "":
			target, err := d.ident(n.Ref)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			m.Reference = &ReferenceMeta{Type: target, MinOccurs: 1, MaxOccurs: 1}
		case n.Complex != nil:
			c, content, err := d.complex(id, n.Complex)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			if content != nil {
				if err := put(*c.Content, content); err != nil {
					return err
				}
			}
			m.Complex = c
		case n.Sequence != nil:
			grp, err := d.group(n.Sequence)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			m.Sequence = grp
		case n.Choice != nil:
			grp, err := d.group(n.Choice)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			m.Choice = grp
		case n.Simple != nil:
			base, err := d.ident(n.Simple.Base)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			m.Simple = &SimpleMeta{
				Base:        base,
				Enumeration: n.Simple.Enumeration,
				MaxLength:   n.Simple.MaxLength,
				Pattern:     n.Simple.Pattern,
			}
		case n.Union != nil:
			members := make([]Ident, 0, len(n.Union))
			for _, ref := range n.Union {
				member, err := d.ident(ref)
				if err != nil {
					return fmt.Errorf("%s: %w", id, err)
				}
				members = append(members, member)
			}
			m.Union = &UnionMeta{Members: members}
		case n.BuiltIn != "":
			m.BuiltIn = &BuiltInMeta{Name: n.BuiltIn}
		default:
			return fmt.Errorf("%s: %w", id, ErrEmptyVariant)
		}

		if err := put(id, m); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) complex(owner Ident, rc *RawComplex) (*ComplexMeta, *MetaType, error) {
	c := &ComplexMeta{MinOccurs: 1, MaxOccurs: 1, Mixed: rc.Mixed, Abstract: rc.Abstract}
	if rc.Min != nil {
		c.MinOccurs = *rc.Min
	}
	maxOccurs, err := parseMax(rc.Max)
	if err != nil {
		return nil, nil, err
	}
	c.MaxOccurs = maxOccurs

	if rc.Base != "" {
		base, err := d.ident(rc.Base)
		if err != nil {
			return nil, nil, err
		}
		c.Base = base
		c.Derivation = DerivationExtension
		if rc.Derivation == "restriction" {
			c.Derivation = DerivationRestriction
		}
	}

	for _, ra := range rc.Attributes {
		attr, err := d.attribute(ra)
		if err != nil {
			return nil, nil, err
		}
		c.Attributes = append(c.Attributes, attr)
	}

	var content *MetaType
	switch {
	case rc.Content != "":
		ref, err := d.ident(rc.Content)
		if err != nil {
			return nil, nil, err
		}
		c.Content = &ref
	case rc.Sequence != nil || rc.Choice != nil:
		contentID := NewIdent(KindType, d.Namespace, owner.Name+"Content")
		if owner.Kind == KindElementType {
			contentID.Name = owner.Name + "ElementContent"
		}
		c.Content = &contentID
		if rc.Sequence != nil {
			grp, err := d.group(rc.Sequence)
			if err != nil {
				return nil, nil, err
			}
			content = &MetaType{Sequence: grp}
		} else {
			grp, err := d.group(rc.Choice)
			if err != nil {
				return nil, nil, err
			}
			content = &MetaType{Choice: grp}
		}
	}
	return c, content, nil
}

func (d *Document) group(members []RawMember) (*GroupMeta, error) {
	grp := &GroupMeta{Elements: make([]ElementMeta, 0, len(members))}
	for _, rm := range members {
		el := ElementMeta{MinOccurs: 1, Nillable: rm.Nillable}
		if rm.Min != nil {
			el.MinOccurs = *rm.Min
		}
		maxOccurs, err := parseMax(rm.Max)
		if err != nil {
			return nil, err
		}
		el.MaxOccurs = maxOccurs
		if rm.Qualified {
			el.Form = FormQualified
		}
		if rm.Attribute {
			el.Mode = ModeAttribute
		}

		switch {
		case rm.Ref != "":
			ref, err := d.ident(rm.Ref)
			if err != nil {
				return nil, err
			}
			el.Ident = ref
			el.Type = ref
			el.Form = FormQualified
		case rm.Name != "" && rm.Type != "":
			typ, err := d.ident(rm.Type)
			if err != nil {
				return nil, err
			}
			el.Ident = NewIdent(KindElement, d.Namespace, rm.Name)
			el.Type = typ
		default:
			return nil, fmt.Errorf("member %q: needs ref or name and type", rm.Name)
		}
		grp.Elements = append(grp.Elements, el)
	}
	return grp, nil
}

func (d *Document) attribute(ra RawAttribute) (AttributeMeta, error) {
	typ, err := d.ident(ra.Type)
	if err != nil {
		return AttributeMeta{}, err
	}
	attr := AttributeMeta{
		Ident:   NewIdent(KindAttribute, NoNamespace, ra.Name),
		Type:    typ,
		Default: ra.Default,
	}
	if prefix, local, ok := strings.Cut(ra.Name, ":"); ok {
		ns, err := d.namespace(prefix)
		if err != nil {
			return AttributeMeta{}, err
		}
		attr.Ident = NewIdent(KindAttribute, ns, local)
	}
	switch ra.Use {
	case "", "optional":
		attr.Use = UseOptional
	case "required":
		attr.Use = UseRequired
	case "prohibited":
		attr.Use = UseProhibited
	default:
		return AttributeMeta{}, fmt.Errorf("attribute %q: unknown use %q", ra.Name, ra.Use)
	}
	return attr, nil
}

// ident resolves "kind:name" or "kind:prefix:name".
func (d *Document) ident(ref string) (Ident, error) {
	parts := strings.Split(ref, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Ident{}, fmt.Errorf("%q: %w", ref, ErrBadReference)
	}
	kind, err := ParseIdentKind(parts[0])
	if err != nil {
		return Ident{}, fmt.Errorf("%q: %w", ref, ErrBadReference)
	}
	if len(parts) == 2 {
		if parts[1] == "" {
			return Ident{}, fmt.Errorf("%q: %w", ref, ErrBadReference)
		}
		return NewIdent(kind, d.Namespace, parts[1]), nil
	}
	ns, err := d.namespace(parts[1])
	if err != nil {
		return Ident{}, fmt.Errorf("%q: %w", ref, err)
	}
	return NewIdent(kind, ns, parts[2]), nil
}

func (d *Document) namespace(prefix string) (Namespace, error) {
	if prefix == d.Prefix {
		return d.Namespace, nil
	}
	if ns, ok := d.Imports[prefix]; ok {
		return ns, nil
	}
	return "", fmt.Errorf("%q: %w", prefix, ErrUnknownPrefix)
}

func parseMax(s string) (Occurs, error) {
	switch s {
	case "":
		return 1, nil
	case "unbounded":
		return OccursUnbounded, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == uint64(OccursUnbounded) {
		return 0, fmt.Errorf("invalid maxOccurs %q", s)
	}
	return Occurs(n), nil
}
