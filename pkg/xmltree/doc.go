// Package xmltree is a small, namespace-aware XML tree used as the
// intermediate form between SOAP envelopes on the wire and the typed CWMP
// model.
//
// A document is a tree of *Element values. Each element has a fully
// resolved Name (namespace URI plus local part), an attribute bag and an
// ordered list of children, where every child is either another *Element
// or a Text run. Mixed content is therefore represented directly.
//
// Parsing resolves element and attribute prefixes against the in-scope
// namespace declarations and remembers those declarations so that
// QName-valued attributes such as xsi:type can be resolved later. Writing
// takes an explicit set of prefix bindings, declared once on the root.
//
// Equivalent compares two trees the way SOAP peers do: prefixes, attribute
// order and insignificant whitespace are ignored.
package xmltree
