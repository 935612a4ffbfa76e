package schema

import (
	"math"
	"strconv"
)

// Occurs is a maxOccurs bound. OccursUnbounded means no upper limit.
type Occurs uint32

// OccursUnbounded is the "unbounded" maxOccurs value.
const OccursUnbounded Occurs = math.MaxUint32

// IsUnbounded reports whether the bound is unbounded.
func (o Occurs) IsUnbounded() bool { return o == OccursUnbounded }

// String returns the decimal bound or "unbounded".
func (o Occurs) String() string {
	if o.IsUnbounded() {
		return "unbounded"
	}
	return strconv.FormatUint(uint64(o), 10)
}

// Variant identifies which payload a MetaType carries.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantComplexType
	VariantSequence
	VariantChoice
	VariantReference
	VariantSimple
	VariantUnion
	VariantBuiltIn
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantComplexType:
		return "ComplexType"
	case VariantSequence:
		return "Sequence"
	case VariantChoice:
		return "Choice"
	case VariantReference:
		return "Reference"
	case VariantSimple:
		return "Simple"
	case VariantUnion:
		return "Union"
	case VariantBuiltIn:
		return "BuiltIn"
	default:
		return "None"
	}
}

// ElementMode tells whether a member is rendered as an element or attribute.
type ElementMode uint8

const (
	ModeElement ElementMode = iota
	ModeAttribute
)

// String returns the mode name.
func (m ElementMode) String() string {
	if m == ModeAttribute {
		return "attribute"
	}
	return "element"
}

// Form is the element/attribute form (qualified or unqualified).
type Form uint8

const (
	FormUnqualified Form = iota
	FormQualified
)

// String returns the form name.
func (f Form) String() string {
	if f == FormQualified {
		return "qualified"
	}
	return "unqualified"
}

// DerivationKind describes how a complex type derives from its base.
type DerivationKind uint8

const (
	DerivationNone DerivationKind = iota
	DerivationExtension
	DerivationRestriction
)

// AttributeUse is the use of an attribute declaration.
type AttributeUse uint8

const (
	UseOptional AttributeUse = iota
	UseRequired
	UseProhibited
)

// MetaType is a node of the schema graph. Exactly one payload is set and
// matches the value returned by Variant.
type MetaType struct {
	Complex   *ComplexMeta   `cbor:"1,keyasint,omitempty"`
	Sequence  *GroupMeta     `cbor:"2,keyasint,omitempty"`
	Choice    *GroupMeta     `cbor:"3,keyasint,omitempty"`
	Reference *ReferenceMeta `cbor:"4,keyasint,omitempty"`
	Simple    *SimpleMeta    `cbor:"5,keyasint,omitempty"`
	Union     *UnionMeta     `cbor:"6,keyasint,omitempty"`
	BuiltIn   *BuiltInMeta   `cbor:"7,keyasint,omitempty"`
}

// Variant returns the variant of the populated payload.
func (m *MetaType) Variant() Variant {
	switch {
	case m == nil:
		return VariantNone
	case m.Complex != nil:
		return VariantComplexType
	case m.Sequence != nil:
		return VariantSequence
	case m.Choice != nil:
		return VariantChoice
	case m.Reference != nil:
		return VariantReference
	case m.Simple != nil:
		return VariantSimple
	case m.Union != nil:
		return VariantUnion
	case m.BuiltIn != nil:
		return VariantBuiltIn
	default:
		return VariantNone
	}
}

// Group returns the element group of a Sequence or Choice node.
func (m *MetaType) Group() *GroupMeta {
	if m == nil {
		return nil
	}
	if m.Sequence != nil {
		return m.Sequence
	}
	return m.Choice
}

// ComplexMeta is a complex type.
type ComplexMeta struct {
	Derivation DerivationKind  `cbor:"1,keyasint,omitempty"`
	Base       Ident           `cbor:"2,keyasint,omitempty"`
	Content    *Ident          `cbor:"3,keyasint,omitempty"`
	Attributes []AttributeMeta `cbor:"4,keyasint,omitempty"`
	MinOccurs  uint32          `cbor:"5,keyasint"`
	MaxOccurs  Occurs          `cbor:"6,keyasint"`
	Mixed      bool            `cbor:"7,keyasint,omitempty"`
	Abstract   bool            `cbor:"8,keyasint,omitempty"`
}

// GroupMeta is the payload of Sequence and Choice nodes.
type GroupMeta struct {
	Mixed    bool          `cbor:"1,keyasint,omitempty"`
	Elements []ElementMeta `cbor:"2,keyasint,omitempty"`
}

// Find returns the member with the given ident.
func (g *GroupMeta) Find(ident Ident) (ElementMeta, bool) {
	for _, el := range g.Elements {
		if el.Ident == ident {
			return el, true
		}
	}
	return ElementMeta{}, false
}

// ElementMeta is a member of a group: a structural field or a choice
// alternative.
type ElementMeta struct {
	Ident     Ident       `cbor:"1,keyasint"`
	Type      Ident       `cbor:"2,keyasint"`
	Mode      ElementMode `cbor:"3,keyasint,omitempty"`
	Form      Form        `cbor:"4,keyasint,omitempty"`
	Nillable  bool        `cbor:"5,keyasint,omitempty"`
	MinOccurs uint32      `cbor:"6,keyasint"`
	MaxOccurs Occurs      `cbor:"7,keyasint"`
}

// NewElementMeta returns an unqualified element member occurring exactly
// once.
func NewElementMeta(ident, typ Ident) ElementMeta {
	return ElementMeta{
		Ident:     ident,
		Type:      typ,
		Mode:      ModeElement,
		Form:      FormUnqualified,
		MinOccurs: 1,
		MaxOccurs: 1,
	}
}

// AttributeMeta is an attribute use of a complex type.
type AttributeMeta struct {
	Ident   Ident        `cbor:"1,keyasint"`
	Type    Ident        `cbor:"2,keyasint"`
	Use     AttributeUse `cbor:"3,keyasint,omitempty"`
	Default string       `cbor:"4,keyasint,omitempty"`
}

// ReferenceMeta aliases another node.
type ReferenceMeta struct {
	Type      Ident  `cbor:"1,keyasint"`
	MinOccurs uint32 `cbor:"2,keyasint"`
	MaxOccurs Occurs `cbor:"3,keyasint"`
}

// SimpleMeta is a simple type restricting Base.
type SimpleMeta struct {
	Base        Ident    `cbor:"1,keyasint"`
	Enumeration []string `cbor:"2,keyasint,omitempty"`
	MaxLength   uint32   `cbor:"3,keyasint,omitempty"`
	Pattern     string   `cbor:"4,keyasint,omitempty"`
}

// UnionMeta is a union of simple types.
type UnionMeta struct {
	Members []Ident `cbor:"1,keyasint"`
}

// BuiltInMeta is an XML Schema primitive or derived built-in type.
type BuiltInMeta struct {
	Name string `cbor:"1,keyasint"`
}

// References returns every ident the node points at, in declaration order.
func (m *MetaType) References() []Ident {
	var out []Ident
	switch m.Variant() {
	case VariantComplexType:
		c := m.Complex
		if c.Derivation != DerivationNone {
			out = append(out, c.Base)
		}
		if c.Content != nil {
			out = append(out, *c.Content)
		}
		for _, a := range c.Attributes {
			out = append(out, a.Type)
		}
	case VariantSequence, VariantChoice:
		for _, el := range m.Group().Elements {
			out = append(out, el.Type)
		}
	case VariantReference:
		out = append(out, m.Reference.Type)
	case VariantSimple:
		out = append(out, m.Simple.Base)
	case VariantUnion:
		out = append(out, m.Union.Members...)
	}
	return out
}

// Rename rewrites every reference found in renames and reports whether
// anything changed.
func (m *MetaType) Rename(renames map[Ident]Ident) bool {
	changed := false
	swap := func(id *Ident) {
		if to, ok := renames[*id]; ok && to != *id {
			*id = to
			changed = true
		}
	}

	switch m.Variant() {
	case VariantComplexType:
		c := m.Complex
		if c.Derivation != DerivationNone {
			swap(&c.Base)
		}
		if c.Content != nil {
			swap(c.Content)
		}
		for i := range c.Attributes {
			swap(&c.Attributes[i].Type)
		}
	case VariantSequence, VariantChoice:
		g := m.Group()
		for i := range g.Elements {
			swap(&g.Elements[i].Type)
		}
	case VariantReference:
		swap(&m.Reference.Type)
	case VariantSimple:
		swap(&m.Simple.Base)
	case VariantUnion:
		for i := range m.Union.Members {
			swap(&m.Union.Members[i])
		}
	}
	return changed
}

// Clone returns a deep copy of the node.
func (m *MetaType) Clone() *MetaType {
	if m == nil {
		return nil
	}
	out := &MetaType{}
	if m.Complex != nil {
		c := *m.Complex
		if c.Content != nil {
			content := *c.Content
			c.Content = &content
		}
		c.Attributes = append([]AttributeMeta(nil), c.Attributes...)
		out.Complex = &c
	}
	if m.Sequence != nil {
		out.Sequence = m.Sequence.clone()
	}
	if m.Choice != nil {
		out.Choice = m.Choice.clone()
	}
	if m.Reference != nil {
		r := *m.Reference
		out.Reference = &r
	}
	if m.Simple != nil {
		s := *m.Simple
		s.Enumeration = append([]string(nil), s.Enumeration...)
		out.Simple = &s
	}
	if m.Union != nil {
		out.Union = &UnionMeta{Members: append([]Ident(nil), m.Union.Members...)}
	}
	if m.BuiltIn != nil {
		b := *m.BuiltIn
		out.BuiltIn = &b
	}
	return out
}

func (g *GroupMeta) clone() *GroupMeta {
	return &GroupMeta{
		Mixed:    g.Mixed,
		Elements: append([]ElementMeta(nil), g.Elements...),
	}
}

// NewChoice returns a Choice node over the given alternatives.
func NewChoice(elements ...ElementMeta) *MetaType {
	return &MetaType{Choice: &GroupMeta{Elements: elements}}
}

// NewSequence returns a Sequence node over the given members.
func NewSequence(elements ...ElementMeta) *MetaType {
	return &MetaType{Sequence: &GroupMeta{Elements: elements}}
}

// NewReference returns a Reference node pointing at typ.
func NewReference(typ Ident) *MetaType {
	return &MetaType{Reference: &ReferenceMeta{Type: typ, MinOccurs: 1, MaxOccurs: 1}}
}

// NewBuiltIn returns a BuiltIn node.
func NewBuiltIn(name string) *MetaType {
	return &MetaType{BuiltIn: &BuiltInMeta{Name: name}}
}
