// Package inspect explores the canonical schema graph the codec works
// against.
//
// The inspect package offers a unified interface for:
//   - Parsing path expressions (e.g., "Body/SetParameterValues/ParameterList")
//   - Resolving them through element references, content groups and array
//     item types
//   - Formatting the result as an indented tree for display
package inspect

import (
	"errors"
	"fmt"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrUnknownHolder = errors.New("path must start with Header or Body")
)

// Holder is the envelope part a path starts in.
type Holder uint8

const (
	HolderBody Holder = iota
	HolderHeader
)

// String returns the holder element name.
func (h Holder) String() string {
	if h == HolderHeader {
		return "Header"
	}
	return "Body"
}

// Path is a parsed inspection path.
// Format: Header|Body[/element[/member...]]
type Path struct {
	Holder Holder

	// Element is the header or body alternative, empty to list them all.
	Element string

	// Members descends into nested members. An array member continues with
	// its item element.
	Members []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string. The holder is matched case-insensitively;
// element and member names are case-sensitive like the schema.
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}
	input = strings.TrimSuffix(input, "/")
	if strings.HasPrefix(input, "/") || strings.Contains(input, "//") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, input)
	}

	parts := strings.Split(input, "/")
	p := &Path{Raw: input}
	switch strings.ToLower(parts[0]) {
	case "body":
		p.Holder = HolderBody
	case "header":
		p.Holder = HolderHeader
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHolder, parts[0])
	}

	if len(parts) > 1 {
		p.Element = parts[1]
	}
	if len(parts) > 2 {
		p.Members = parts[2:]
	}
	return p, nil
}

// IsPartial reports whether the path stops at the holder.
func (p *Path) IsPartial() bool { return p.Element == "" }

// String returns the path in canonical form.
func (p *Path) String() string {
	parts := []string{p.Holder.String()}
	if p.Element != "" {
		parts = append(parts, p.Element)
	}
	parts = append(parts, p.Members...)
	return strings.Join(parts, "/")
}
