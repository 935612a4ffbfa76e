package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// Parse errors.
var (
	ErrMalformed     = errors.New("malformed XML")
	ErrNoRoot        = errors.New("document has no root element")
	ErrMultipleRoots = errors.New("document has more than one root element")
	ErrTooDeep       = errors.New("document nesting too deep")
	ErrTooLarge      = errors.New("document too large")
	ErrTooManyNodes  = errors.New("document has too many elements")
)

// Limits bounds the resources a single Parse may consume.
type Limits struct {
	// MaxBytes is the largest accepted document.
	MaxBytes int64

	// MaxDepth is the deepest accepted element nesting.
	MaxDepth int

	// MaxElements is the largest accepted element count.
	MaxElements int
}

// DefaultLimits returns limits suited to CWMP envelopes.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:    8 * 1024 * 1024,
		MaxDepth:    64,
		MaxElements: 200000,
	}
}

// Parse parses a complete document with DefaultLimits.
func Parse(data []byte) (*Element, error) {
	return ParseLimited(bytes.NewReader(data), DefaultLimits())
}

// ParseLimited reads and parses a complete document from r.
func ParseLimited(r io.Reader, limits Limits) (*Element, error) {
	if limits.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, limits.MaxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		if int64(len(data)) > limits.MaxBytes {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limits.MaxBytes)
		}
		r = bytes.NewReader(data)
	}

	p := parser{
		dec:    xml.NewDecoder(r),
		limits: limits,
	}
	p.dec.Strict = true
	return p.parse()
}

type parser struct {
	dec    *xml.Decoder
	limits Limits
	count  int
}

func (p *parser) parse() (*Element, error) {
	var (
		root  *Element
		stack []*Element
	)
	scope := map[string]string{"xml": xmlNamespace}

	for {
		tok, err := p.dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.count++
			if p.limits.MaxElements > 0 && p.count > p.limits.MaxElements {
				return nil, fmt.Errorf("%w: more than %d", ErrTooManyNodes, p.limits.MaxElements)
			}
			if p.limits.MaxDepth > 0 && len(stack) >= p.limits.MaxDepth {
				return nil, fmt.Errorf("%w: more than %d levels", ErrTooDeep, p.limits.MaxDepth)
			}

			parent := scope
			if len(stack) > 0 {
				parent = stack[len(stack)-1].scope
			}
			el := newParsedElement(t, parent)

			if len(stack) == 0 {
				if root != nil {
					return nil, ErrMultipleRoots
				}
				root = el
			} else {
				top := stack[len(stack)-1]
				top.Children = append(top.Children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			top.Children = appendText(top.Children, string(t))
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// newParsedElement converts a start token. Namespace declarations extend a
// copy of the parent scope and are not kept as attributes.
func newParsedElement(t xml.StartElement, parent map[string]string) *Element {
	el := &Element{
		Name:  Name{Space: t.Name.Space, Local: t.Name.Local},
		scope: parent,
	}
	copied := false
	declare := func(prefix, ns string) {
		if !copied {
			el.scope = maps.Clone(parent)
			copied = true
		}
		el.scope[prefix] = ns
	}

	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "xmlns":
			declare(a.Name.Local, a.Value)
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			declare("", a.Value)
		default:
			el.Attrs = append(el.Attrs, Attr{
				Name:  Name{Space: a.Name.Space, Local: a.Name.Local},
				Value: a.Value,
			})
		}
	}
	return el
}

// appendText merges adjacent character data runs.
func appendText(children []Node, s string) []Node {
	if n := len(children); n > 0 {
		if prev, ok := children[n-1].(Text); ok {
			children[n-1] = prev + Text(s)
			return children
		}
	}
	return append(children, Text(s))
}
