package unify

import (
	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
)

// Names of synthesized canonical declarations.
const (
	faultName         = "Fault"
	methodListName    = "MethodList"
	methodListContent = "MethodListContent"
)

// headers copies every planned header onto a namespace-less element and
// element type, and turns the Header content into a choice over them.
func headers(r resolver, p Plan) (*rewrite, error) {
	rw := newRewrite()

	containerID := schema.NewIdent(schema.KindType, p.Envelope, "Header")
	container, contentID, err := r.content(containerID)
	if err != nil {
		return nil, err
	}

	alts := make([]schema.ElementMeta, 0, len(p.Headers))
	for _, h := range p.Headers {
		elemID := schema.CanonicalIdent(schema.KindElement, h.Name)
		typeID := schema.CanonicalIdent(schema.KindElementType, h.Name)

		srcElemID, srcElem, err := r.first(schema.NewIdent(schema.KindElement, h.Namespace, h.Name), elemID)
		if err != nil {
			return nil, err
		}
		if err := r.expect(srcElemID, srcElem, schema.VariantReference); err != nil {
			return nil, err
		}
		srcTypeID, srcType, err := r.first(schema.NewIdent(schema.KindElementType, h.Namespace, h.Name), typeID)
		if err != nil {
			return nil, err
		}
		if err := r.expect(srcTypeID, srcType, schema.VariantComplexType); err != nil {
			return nil, err
		}

		elem := srcElem.Clone()
		elem.Reference.Type = typeID
		rw.set(typeID, srcType.Clone())
		rw.set(elemID, elem)
		alts = append(alts, schema.NewElementMeta(elemID, typeID))
	}

	hdr := container.Clone()
	hdr.Complex.MinOccurs = 0
	hdr.Complex.MaxOccurs = schema.OccursUnbounded
	rw.set(containerID, hdr)
	rw.set(contentID, schema.NewChoice(alts...))
	return rw, nil
}

// body makes one namespace-less copy of every RPC element, collapses the
// versioned duplicates onto it and turns the Body content into a choice over
// the RPC elements plus the SOAP Fault.
func body(r resolver, p Plan) (*rewrite, error) {
	rw := newRewrite()

	containerID := schema.NewIdent(schema.KindType, p.Envelope, "Body")
	container, contentID, err := r.content(containerID)
	if err != nil {
		return nil, err
	}

	alts := make([]schema.ElementMeta, 0, len(p.Elements)+1)
	for _, name := range p.Elements {
		canonical := schema.CanonicalIdent(schema.KindElement, name)
		_, src, err := r.first(schema.NewIdent(schema.KindElement, p.Canonical, name), canonical)
		if err != nil {
			return nil, err
		}
		rw.set(canonical, src.Clone())
		for _, ns := range p.Versions {
			rw.collapse(schema.NewIdent(schema.KindElement, ns, name), canonical)
		}
		alts = append(alts, schema.NewElementMeta(canonical, canonical))
	}

	soapFault := schema.NewIdent(schema.KindElement, p.Envelope, faultName)
	if _, err := r.resolve(soapFault); err != nil {
		return nil, err
	}
	alts = append(alts, schema.NewElementMeta(soapFault, soapFault))

	b := container.Clone()
	b.Complex.MaxOccurs = schema.OccursUnbounded
	rw.set(containerID, b)
	rw.set(contentID, schema.NewChoice(alts...))
	return rw, nil
}

// methodList restricts every MethodList array type to a sequence of one or
// more string elements.
func methodList(r resolver, p Plan) (*rewrite, error) {
	rw := newRewrite()

	xsString := schema.NewIdent(schema.KindType, schema.XSDNamespace, "string")
	if _, err := r.resolve(xsString); err != nil {
		return nil, err
	}
	contentID := schema.CanonicalIdent(schema.KindType, methodListContent)
	item := schema.NewElementMeta(schema.CanonicalIdent(schema.KindElement, "string"), xsString)
	item.MaxOccurs = schema.OccursUnbounded
	rw.set(contentID, schema.NewSequence(item))

	for _, ns := range p.Versions {
		id := schema.NewIdent(schema.KindType, ns, methodListName)
		if ns != p.Canonical && !r.g.Has(id) {
			continue
		}
		m, err := r.complexType(id)
		if err != nil {
			return nil, err
		}
		ml := m.Clone()
		ml.Complex.Derivation = schema.DerivationRestriction
		ml.Complex.Base = contentID
		rw.set(id, ml)
	}
	return rw, nil
}

// faults collapses every versioned CWMP Fault element and element type onto
// namespace-less ones and makes the SOAP detail hold exactly that Fault.
func faults(r resolver, p Plan) (*rewrite, error) {
	rw := newRewrite()

	elemID := schema.CanonicalIdent(schema.KindElement, faultName)
	typeID := schema.CanonicalIdent(schema.KindElementType, faultName)

	srcTypeID, srcType, err := r.first(schema.NewIdent(schema.KindElementType, p.Canonical, faultName), typeID)
	if err != nil {
		return nil, err
	}
	if err := r.expect(srcTypeID, srcType, schema.VariantComplexType); err != nil {
		return nil, err
	}
	rw.set(typeID, srcType.Clone())
	rw.set(elemID, schema.NewReference(typeID))

	for _, ns := range p.Versions {
		versioned := schema.NewIdent(schema.KindElement, ns, faultName)
		if m, ok := r.g.Get(versioned); ok {
			if err := r.expect(versioned, m, schema.VariantReference); err != nil {
				return nil, err
			}
		}
		rw.collapse(versioned, elemID)
		rw.collapse(schema.NewIdent(schema.KindElementType, ns, faultName), typeID)
	}

	detailID := schema.NewIdent(schema.KindType, p.Envelope, "detail")
	_, contentID, err := r.content(detailID)
	if err != nil {
		return nil, err
	}
	rw.set(contentID, schema.NewSequence(schema.NewElementMeta(elemID, typeID)))
	return rw, nil
}
