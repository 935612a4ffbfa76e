// Package schema defines the in-memory schema graph shared by every CWMP
// dialect.
//
// A Graph maps an Ident (kind, namespace, name) to a MetaType node. Raw
// graphs hold one copy of each concept per CWMP namespace; the unify
// package collapses them into a canonical graph whose shared concepts live
// under namespace-less idents.
//
// # Variants
//
// A MetaType carries exactly one payload:
//   - ComplexType: optional content node, attributes, occurrence bounds
//   - Sequence / Choice: ordered or alternative groups of ElementMeta
//   - Reference: alias to another ident
//   - Simple / Union / BuiltIn: leaf value types
//
// # Lifecycle
//
// Graphs are built once and then frozen. A frozen graph is read-only and
// may be shared between goroutines without locking; mutating methods panic
// on a frozen graph.
//
// # Documents and Snapshots
//
// Raw graphs are loaded from YAML schema documents (ParseDocument). Built
// graphs can be serialized as deterministic CBOR snapshots, which also
// back Equal and Fingerprint.
package schema
