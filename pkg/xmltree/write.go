package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"maps"
	"strconv"
)

// ErrInvalidName is returned when an element or attribute has no local name.
var ErrInvalidName = errors.New("invalid XML name")

// Binding declares a namespace prefix on the root element.
type Binding struct {
	Prefix string
	Space  string
}

const header = `<?xml version="1.0" encoding="UTF-8"?>`

// Marshal writes root as a complete document and returns the bytes.
func Marshal(root *Element, bindings ...Binding) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, root, bindings...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes root as a complete document to w. Every binding is declared
// on the root. Namespaces without a binding get a generated prefix on the
// element that first needs them.
func Encode(w io.Writer, root *Element, bindings ...Binding) error {
	bw := bufio.NewWriter(w)
	enc := &encoder{w: bw}

	scope := make(map[string]string, len(bindings))
	decls := make([]Binding, 0, len(bindings))
	for _, b := range bindings {
		if _, dup := scope[b.Space]; dup {
			continue
		}
		scope[b.Space] = b.Prefix
		decls = append(decls, b)
	}

	bw.WriteString(header)
	if err := enc.element(root, scope, decls); err != nil {
		return err
	}
	return bw.Flush()
}

type encoder struct {
	w   *bufio.Writer
	gen int
}

// element writes e. scope maps namespaces to prefixes; decls are written on
// this element.
func (enc *encoder) element(e *Element, scope map[string]string, decls []Binding) error {
	if e.Name.Local == "" {
		return fmt.Errorf("%w: element without local name", ErrInvalidName)
	}

	var extra []Binding
	qualify := func(n Name) string {
		if n.Space == "" {
			return n.Local
		}
		if n.Space == xmlNamespace {
			return "xml:" + n.Local
		}
		prefix, ok := scope[n.Space]
		if !ok {
			prefix = enc.nextPrefix(scope)
			if len(extra) == 0 {
				scope = maps.Clone(scope)
			}
			scope[n.Space] = prefix
			extra = append(extra, Binding{Prefix: prefix, Space: n.Space})
		}
		if prefix == "" {
			return n.Local
		}
		return prefix + ":" + n.Local
	}

	tag := qualify(e.Name)
	attrs := make([]string, 0, len(e.Attrs))
	for _, a := range e.Attrs {
		if a.Name.Local == "" {
			return fmt.Errorf("%w: attribute without local name on %s", ErrInvalidName, e.Name)
		}
		attrs = append(attrs, qualify(a.Name))
	}

	enc.w.WriteByte('<')
	enc.w.WriteString(tag)
	for _, d := range append(decls, extra...) {
		if d.Prefix == "" {
			enc.w.WriteString(` xmlns="`)
		} else {
			enc.w.WriteString(` xmlns:` + d.Prefix + `="`)
		}
		enc.escape(d.Space)
		enc.w.WriteByte('"')
	}
	for i, a := range e.Attrs {
		enc.w.WriteString(" " + attrs[i] + `="`)
		enc.escape(a.Value)
		enc.w.WriteByte('"')
	}

	if len(e.Children) == 0 {
		enc.w.WriteString("/>")
		return nil
	}
	enc.w.WriteByte('>')
	for _, c := range e.Children {
		switch c := c.(type) {
		case Text:
			enc.escape(string(c))
		case *Element:
			if err := enc.element(c, scope, nil); err != nil {
				return err
			}
		}
	}
	enc.w.WriteString("</" + tag + ">")
	return nil
}

func (enc *encoder) escape(s string) {
	// bufio.Writer never fails before Flush reports it.
	_ = xml.EscapeText(enc.w, []byte(s))
}

func (enc *encoder) nextPrefix(scope map[string]string) string {
	for {
		enc.gen++
		p := "ns" + strconv.Itoa(enc.gen)
		taken := false
		for _, used := range scope {
			if used == p {
				taken = true
				break
			}
		}
		if !taken {
			return p
		}
	}
}
