package xmltree

import "strings"

// Name is a namespace-qualified XML name. An empty Space means the name is
// not in any namespace.
type Name struct {
	Space string
	Local string
}

// String returns the name in Clark notation, "{space}local".
func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Attr is an attribute of an element. Namespace declarations are not
// attributes.
type Attr struct {
	Name  Name
	Value string
}

// Node is a child of an element: either *Element or Text.
type Node interface {
	isNode()
}

// Text is a run of character data.
type Text string

func (Text) isNode() {}

// Element is an XML element.
type Element struct {
	Name     Name
	Attrs    []Attr
	Children []Node

	// scope maps prefixes to namespaces for a parsed element. Nil for
	// elements built in memory.
	scope map[string]string
}

func (*Element) isNode() {}

// NewElement returns an element with the given children.
func NewElement(name Name, children ...Node) *Element {
	return &Element{Name: name, Children: children}
}

// NewTextElement returns an element whose only child is text. An empty
// text yields an element without children.
func NewTextElement(name Name, text string) *Element {
	e := &Element{Name: name}
	if text != "" {
		e.Children = []Node{Text(text)}
	}
	return e
}

// SetAttr sets an attribute, replacing an existing one with the same name.
func (e *Element) SetAttr(name Name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// Append adds children and returns e.
func (e *Element) Append(children ...Node) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name Name) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrLocal returns the first attribute with the given local name whose
// namespace is one of spaces. Without spaces any namespace matches.
func (e *Element) AttrLocal(local string, spaces ...string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local != local {
			continue
		}
		if len(spaces) == 0 {
			return a.Value, true
		}
		for _, s := range spaces {
			if a.Name.Space == s {
				return a.Value, true
			}
		}
	}
	return "", false
}

// Elements returns the element children in document order.
func (e *Element) Elements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Child returns the first element child with the given name.
func (e *Element) Child(name Name) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name == name {
			return el
		}
	}
	return nil
}

// ChildLocal returns the first element child with the given local name in
// any namespace.
func (e *Element) ChildLocal(local string) *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name.Local == local {
			return el
		}
	}
	return nil
}

// ChildrenLocal returns every element child with the given local name.
func (e *Element) ChildrenLocal(local string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok && el.Name.Local == local {
			out = append(out, el)
		}
	}
	return out
}

// Text returns the concatenated character data of the direct children.
func (e *Element) Text() string {
	var b strings.Builder
	for _, c := range e.Children {
		if t, ok := c.(Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

// LookupPrefix returns the namespace bound to prefix where e was parsed.
func (e *Element) LookupPrefix(prefix string) (string, bool) {
	ns, ok := e.scope[prefix]
	return ns, ok
}

// ResolveQName resolves a "prefix:local" value against the namespaces in
// scope at e. An unbound prefix is kept as the Space so that callers can
// still inspect it.
func (e *Element) ResolveQName(value string) Name {
	value = strings.TrimSpace(value)
	prefix, local, ok := strings.Cut(value, ":")
	if !ok {
		ns := e.scope[""]
		return Name{Space: ns, Local: value}
	}
	if ns, bound := e.scope[prefix]; bound {
		return Name{Space: ns, Local: local}
	}
	return Name{Space: prefix, Local: local}
}
