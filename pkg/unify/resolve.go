package unify

import (
	"errors"
	"fmt"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

// Lookup errors. Both are fatal: Unify returns no graph when it meets one.
var (
	ErrUnresolvedIdent   = errors.New("unresolved ident")
	ErrUnexpectedVariant = errors.New("unexpected variant")
)

// resolver looks up version-scoped declarations before they are re-keyed.
type resolver struct {
	g *schema.Graph
}

func (r resolver) resolve(id schema.Ident) (*schema.MetaType, error) {
	m, ok := r.g.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnresolvedIdent)
	}
	return m, nil
}

// first resolves the first candidate present in the graph. The error names
// the first candidate.
func (r resolver) first(candidates ...schema.Ident) (schema.Ident, *schema.MetaType, error) {
	for _, id := range candidates {
		if m, ok := r.g.Get(id); ok {
			return id, m, nil
		}
	}
	return schema.Ident{}, nil, fmt.Errorf("%s: %w", candidates[0], ErrUnresolvedIdent)
}

func (r resolver) expect(id schema.Ident, m *schema.MetaType, want ...schema.Variant) error {
	got := m.Variant()
	for _, w := range want {
		if got == w {
			return nil
		}
	}
	return fmt.Errorf("%s: want %v, have %s: %w", id, want, got, ErrUnexpectedVariant)
}

func (r resolver) complexType(id schema.Ident) (*schema.MetaType, error) {
	m, err := r.resolve(id)
	if err != nil {
		return nil, err
	}
	if err := r.expect(id, m, schema.VariantComplexType); err != nil {
		return nil, err
	}
	return m, nil
}

// content returns the ident of a complex type's content group and checks
// that it is a Sequence or Choice.
func (r resolver) content(id schema.Ident) (*schema.MetaType, schema.Ident, error) {
	m, err := r.complexType(id)
	if err != nil {
		return nil, schema.Ident{}, err
	}
	if m.Complex.Content == nil {
		return nil, schema.Ident{}, fmt.Errorf("%s: no content: %w", id, ErrUnexpectedVariant)
	}
	contentID := *m.Complex.Content
	group, err := r.resolve(contentID)
	if err != nil {
		return nil, schema.Ident{}, err
	}
	if err := r.expect(contentID, group, schema.VariantSequence, schema.VariantChoice); err != nil {
		return nil, schema.Ident{}, err
	}
	return m, contentID, nil
}
