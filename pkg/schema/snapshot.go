package schema

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// snapEncMode encodes snapshots deterministically so that equal graphs
// produce equal bytes.
var snapEncMode cbor.EncMode

var snapDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	snapEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	snapDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

// snapshot is the wire form of a Graph.
//
// CBOR encoding:
//
//	{
//	  1: version,     // uint8
//	  2: namespaces,  // array of {1: prefix, 2: uri}
//	  3: nodes        // array of {1: ident, 2: node}, sorted by ident
//	}
type snapshot struct {
	Version    uint8           `cbor:"1,keyasint"`
	Namespaces []NamespaceDecl `cbor:"2,keyasint,omitempty"`
	Nodes      []snapshotNode  `cbor:"3,keyasint"`
}

type snapshotNode struct {
	Ident Ident     `cbor:"1,keyasint"`
	Type  *MetaType `cbor:"2,keyasint"`
}

const snapshotVersion = 1

func (g *Graph) snapshot() snapshot {
	ids := g.Idents()
	s := snapshot{
		Version:    snapshotVersion,
		Namespaces: g.Namespaces(),
		Nodes:      make([]snapshotNode, 0, len(ids)),
	}
	for _, id := range ids {
		s.Nodes = append(s.Nodes, snapshotNode{Ident: id, Type: g.items[id]})
	}
	return s
}

// MarshalSnapshot encodes the graph as a deterministic CBOR snapshot.
func MarshalSnapshot(g *Graph) ([]byte, error) {
	return snapEncMode.Marshal(g.snapshot())
}

// UnmarshalSnapshot decodes a snapshot into a new mutable graph.
func UnmarshalSnapshot(data []byte) (*Graph, error) {
	var s snapshot
	if err := snapDecMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	g := NewGraph()
	for _, d := range s.Namespaces {
		g.AddNamespace(d.Prefix, d.Namespace)
	}
	for _, n := range s.Nodes {
		if n.Type == nil {
			return nil, fmt.Errorf("snapshot node %s: %w", n.Ident, ErrEmptyVariant)
		}
		g.items[n.Ident] = n.Type
	}
	return g, nil
}

// Equal compares two graphs by their snapshot encoding.
func Equal(a, b *Graph) bool {
	dataA, errA := MarshalSnapshot(a)
	dataB, errB := MarshalSnapshot(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(dataA, dataB)
}

// Fingerprint returns the hex SHA-256 of the graph's snapshot.
func Fingerprint(g *Graph) (string, error) {
	data, err := MarshalSnapshot(g)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
