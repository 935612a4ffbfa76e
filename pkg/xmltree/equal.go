package xmltree

import (
	"fmt"
	"slices"
	"strings"
)

// Equivalent reports whether a and b carry the same information: the same
// element and attribute names, the same text content and the same nesting.
// Prefixes, attribute order and whitespace-only text are ignored, and
// QName-valued attributes are compared by their resolved names.
func Equivalent(a, b *Element) bool {
	return Diff(a, b) == ""
}

// Diff describes the first difference between a and b, or returns the empty
// string when they are equivalent.
func Diff(a, b *Element) string {
	return diff(a, b, "")
}

func diff(a, b *Element, path string) string {
	switch {
	case a == nil && b == nil:
		return ""
	case a == nil || b == nil:
		return fmt.Sprintf("%s: element missing on one side", path)
	}

	path += "/" + a.Name.String()
	if a.Name != b.Name {
		return fmt.Sprintf("%s: name differs from %s", path, b.Name)
	}

	aa, ba := normalizedAttrs(a), normalizedAttrs(b)
	if !slices.Equal(aa, ba) {
		return fmt.Sprintf("%s: attributes %v != %v", path, aa, ba)
	}

	if at, bt := strings.TrimSpace(a.Text()), strings.TrimSpace(b.Text()); at != bt {
		return fmt.Sprintf("%s: text %q != %q", path, at, bt)
	}

	ac, bc := a.Elements(), b.Elements()
	if len(ac) != len(bc) {
		return fmt.Sprintf("%s: %d child elements != %d", path, len(ac), len(bc))
	}
	for i := range ac {
		if d := diff(ac[i], bc[i], path); d != "" {
			return d
		}
	}
	return ""
}

// normalizedAttrs returns "name=value" strings in sorted order.
func normalizedAttrs(e *Element) []string {
	out := make([]string, 0, len(e.Attrs))
	for _, a := range e.Attrs {
		out = append(out, a.Name.String()+"="+normalizeValue(e, a.Value))
	}
	slices.Sort(out)
	return out
}

// normalizeValue resolves a value of the form "prefix:rest" when prefix is
// a bound namespace prefix, so that "xsd:string" and "xs:string" compare
// equal when both prefixes name the same namespace.
func normalizeValue(e *Element, v string) string {
	prefix, rest, ok := strings.Cut(v, ":")
	if !ok || prefix == "" || strings.ContainsAny(prefix, " /") {
		return v
	}
	if ns, bound := e.LookupPrefix(prefix); bound {
		return "{" + ns + "}" + rest
	}
	return v
}
