package soap

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwmp-protocol/cwmp-go/pkg/xmltree"
)

// ErrBadArrayType is returned for an arrayType value that is not of the
// form "type[n]".
var ErrBadArrayType = errors.New("malformed arrayType")

// ArrayType is the value of a soapenc:arrayType attribute, for example
// "cwmp:ParameterValueStruct[3]".
type ArrayType struct {
	// Item is the qualified item type as written.
	Item string

	// Length is the declared element count.
	Length int
}

// String formats the attribute value.
func (a ArrayType) String() string {
	return a.Item + "[" + strconv.Itoa(a.Length) + "]"
}

// ParseArrayType parses a one-dimensional arrayType value.
func ParseArrayType(v string) (ArrayType, error) {
	v = strings.TrimSpace(v)
	open := strings.LastIndexByte(v, '[')
	if open <= 0 || !strings.HasSuffix(v, "]") {
		return ArrayType{}, fmt.Errorf("%q: %w", v, ErrBadArrayType)
	}
	n, err := strconv.Atoi(v[open+1 : len(v)-1])
	if err != nil || n < 0 {
		return ArrayType{}, fmt.Errorf("%q: %w", v, ErrBadArrayType)
	}
	return ArrayType{Item: v[:open], Length: n}, nil
}

// ArrayMismatch is an array element whose declared length differs from its
// element children, or whose arrayType cannot be parsed.
type ArrayMismatch struct {
	Element  *xmltree.Element
	Declared string
	Actual   int
}

func (m ArrayMismatch) String() string {
	return fmt.Sprintf("%s: arrayType %q with %d items", m.Element.Name.Local, m.Declared, m.Actual)
}

// CheckArrays walks the tree under root and reports every element whose
// soapenc:arrayType disagrees with its element children.
func CheckArrays(root *xmltree.Element) []ArrayMismatch {
	var out []ArrayMismatch
	var walk func(*xmltree.Element)
	walk = func(e *xmltree.Element) {
		children := e.Elements()
		if v, ok := e.AttrLocal("arrayType", EncodingNamespace, EncodingPrefix); ok {
			at, err := ParseArrayType(v)
			if err != nil || at.Length != len(children) {
				out = append(out, ArrayMismatch{Element: e, Declared: v, Actual: len(children)})
			}
		}
		for _, c := range children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}
