package schema

import (
	"fmt"
	"strings"
)

// Namespace is an XML namespace URI. The empty namespace marks a canonical,
// version-agnostic ident.
type Namespace string

// NoNamespace is the namespace of canonical idents.
const NoNamespace Namespace = ""

// IsEmpty reports whether the namespace is absent.
func (n Namespace) IsEmpty() bool { return n == NoNamespace }

// String returns the namespace URI.
func (n Namespace) String() string { return string(n) }

// IdentKind distinguishes the declaration spaces of a schema.
type IdentKind uint8

const (
	// KindType is a named (global) type.
	KindType IdentKind = iota
	// KindElement is a global element declaration.
	KindElement
	// KindElementType is the anonymous type of a global element.
	KindElementType
	// KindAttribute is a global attribute declaration.
	KindAttribute
)

// String returns the kind name.
func (k IdentKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindElement:
		return "element"
	case KindElementType:
		return "element-type"
	case KindAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

// ParseIdentKind parses the name returned by IdentKind.String.
func ParseIdentKind(s string) (IdentKind, error) {
	switch s {
	case "type":
		return KindType, nil
	case "element":
		return KindElement, nil
	case "element-type":
		return KindElementType, nil
	case "attribute":
		return KindAttribute, nil
	default:
		return 0, fmt.Errorf("unknown ident kind %q", s)
	}
}

// Ident identifies a node of a Graph.
type Ident struct {
	Kind      IdentKind `cbor:"1,keyasint" yaml:"kind"`
	Namespace Namespace `cbor:"2,keyasint,omitempty" yaml:"namespace,omitempty"`
	Name      string    `cbor:"3,keyasint" yaml:"name"`
}

// NewIdent returns an ident in the given namespace.
func NewIdent(kind IdentKind, ns Namespace, name string) Ident {
	return Ident{Kind: kind, Namespace: ns, Name: name}
}

// CanonicalIdent returns a namespace-less ident.
func CanonicalIdent(kind IdentKind, name string) Ident {
	return Ident{Kind: kind, Name: name}
}

// IsZero returns true if the ident is the zero value.
func (i Ident) IsZero() bool {
	return i == Ident{}
}

// IsCanonical reports whether the ident carries no namespace.
func (i Ident) IsCanonical() bool {
	return i.Namespace.IsEmpty()
}

// Canonical returns the namespace-less form of the ident.
func (i Ident) Canonical() Ident {
	i.Namespace = NoNamespace
	return i
}

// WithKind returns a copy of the ident with another kind.
func (i Ident) WithKind(kind IdentKind) Ident {
	i.Kind = kind
	return i
}

// String returns the ident as "kind {namespace}name", or "kind name" when
// canonical.
func (i Ident) String() string {
	if i.Namespace.IsEmpty() {
		return i.Kind.String() + " " + i.Name
	}
	return i.Kind.String() + " {" + i.Namespace.String() + "}" + i.Name
}

// Compare orders idents by namespace, then name, then kind.
func (i Ident) Compare(other Ident) int {
	if c := strings.Compare(string(i.Namespace), string(other.Namespace)); c != 0 {
		return c
	}
	if c := strings.Compare(i.Name, other.Name); c != 0 {
		return c
	}
	switch {
	case i.Kind < other.Kind:
		return -1
	case i.Kind > other.Kind:
		return 1
	}
	return 0
}
