// Package soap binds SOAP 1.1 envelopes to a canonical CWMP schema graph.
//
// A Binder reads the Header and Body content of the canonical graph, whose
// content groups are choices over the recognized header and body elements,
// and sorts the children of a parsed envelope into recognized entries and
// dropped elements. Canonical alternatives carry no namespace and match an
// element of the same local name in any of the CWMP namespaces the Binder
// was given; namespaced alternatives, such as the SOAP Fault, match only
// their own namespace.
//
// The Binder also answers structural questions used when encoding: the
// members of an RPC element and the item type of a SOAP-encoded array.
//
// A Binder holds a frozen graph and is safe for concurrent use.
package soap
