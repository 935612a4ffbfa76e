package schema

import (
	"errors"
	"fmt"
	"slices"
)

// XSDNamespace is the XML Schema namespace holding the built-in types.
const XSDNamespace Namespace = "http://www.w3.org/2001/XMLSchema"

// Graph errors.
var (
	ErrDanglingReference = errors.New("dangling reference")
	ErrEmptyVariant      = errors.New("node has no variant")
)

// NamespaceDecl binds a conventional prefix to a namespace.
type NamespaceDecl struct {
	Prefix    string    `cbor:"1,keyasint" yaml:"prefix"`
	Namespace Namespace `cbor:"2,keyasint" yaml:"uri"`
}

// Graph is a set of schema nodes keyed by Ident.
//
// Graph is not safe for concurrent mutation. Once frozen it is read-only
// and safe for concurrent use.
type Graph struct {
	items      map[Ident]*MetaType
	namespaces []NamespaceDecl
	frozen     bool
}

// NewGraph returns an empty, mutable graph.
func NewGraph() *Graph {
	return &Graph{items: make(map[Ident]*MetaType)}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.items) }

// Get returns the node for ident.
func (g *Graph) Get(ident Ident) (*MetaType, bool) {
	m, ok := g.items[ident]
	return m, ok
}

// Has reports whether ident is declared.
func (g *Graph) Has(ident Ident) bool {
	_, ok := g.items[ident]
	return ok
}

// Set inserts or replaces the node for ident.
func (g *Graph) Set(ident Ident, m *MetaType) {
	g.mustBeMutable()
	g.items[ident] = m
}

// Delete removes ident from the graph.
func (g *Graph) Delete(ident Ident) {
	g.mustBeMutable()
	delete(g.items, ident)
}

// Idents returns all idents in a stable order.
func (g *Graph) Idents() []Ident {
	out := make([]Ident, 0, len(g.items))
	for id := range g.items {
		out = append(out, id)
	}
	slices.SortFunc(out, Ident.Compare)
	return out
}

// AddNamespace records a prefix binding. Re-adding a known namespace is a
// no-op.
func (g *Graph) AddNamespace(prefix string, ns Namespace) {
	g.mustBeMutable()
	for _, d := range g.namespaces {
		if d.Namespace == ns {
			return
		}
	}
	g.namespaces = append(g.namespaces, NamespaceDecl{Prefix: prefix, Namespace: ns})
}

// Namespaces returns the recorded prefix bindings in insertion order.
func (g *Graph) Namespaces() []NamespaceDecl {
	return slices.Clone(g.namespaces)
}

// PrefixFor returns the conventional prefix of ns.
func (g *Graph) PrefixFor(ns Namespace) (string, bool) {
	for _, d := range g.namespaces {
		if d.Namespace == ns {
			return d.Prefix, true
		}
	}
	return "", false
}

// Clone returns a mutable deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		items:      make(map[Ident]*MetaType, len(g.items)),
		namespaces: slices.Clone(g.namespaces),
	}
	for id, m := range g.items {
		out.items[id] = m.Clone()
	}
	return out
}

// Freeze makes the graph read-only.
func (g *Graph) Freeze() { g.frozen = true }

// Frozen reports whether the graph is read-only.
func (g *Graph) Frozen() bool { return g.frozen }

func (g *Graph) mustBeMutable() {
	if g.frozen {
		panic("schema: mutation of a frozen graph")
	}
}

// RenameReferences applies renames to every node and returns the number of
// nodes that changed.
func (g *Graph) RenameReferences(renames map[Ident]Ident) int {
	g.mustBeMutable()
	if len(renames) == 0 {
		return 0
	}
	n := 0
	for _, m := range g.items {
		if m.Rename(renames) {
			n++
		}
	}
	return n
}

// ReferrersOf returns the idents of nodes that point at target.
func (g *Graph) ReferrersOf(target Ident) []Ident {
	var out []Ident
	for id, m := range g.items {
		if slices.Contains(m.References(), target) {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, Ident.Compare)
	return out
}

// Validate checks that every node has a variant and that every reference
// resolves inside the graph. All defects are reported together.
func (g *Graph) Validate() error {
	var errs []error
	for _, id := range g.Idents() {
		m := g.items[id]
		if m.Variant() == VariantNone {
			errs = append(errs, fmt.Errorf("%s: %w", id, ErrEmptyVariant))
			continue
		}
		for _, ref := range m.References() {
			if !g.Has(ref) {
				errs = append(errs, fmt.Errorf("%s -> %s: %w", id, ref, ErrDanglingReference))
			}
		}
	}
	return errors.Join(errs...)
}

// Source yields the graph in effect for a call.
type Source interface {
	Graph() *Graph
}

type fixedSource struct{ g *Graph }

func (s fixedSource) Graph() *Graph { return s.g }

// Fixed returns a Source that always yields g.
func Fixed(g *Graph) Source {
	return fixedSource{g: g}
}
