package cwmp

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cwmp-protocol/cwmp-go/pkg/schema"
	"github.com/cwmp-protocol/cwmp-go/pkg/soap"
	"github.com/cwmp-protocol/cwmp-go/pkg/xmltree"
)

// encoder carries the state of one Encode call.
type encoder struct {
	binder *soap.Binder
	ns     string
	items  *int
	err    error
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// qualify renders a type ident with the prefixes declared on the envelope.
func (e *encoder) qualify(id schema.Ident) string {
	switch {
	case id.Namespace == schema.XSDNamespace:
		return soap.XSDPrefix + ":" + id.Name
	case e.binder.IsCWMPNamespace(string(id.Namespace)):
		return "cwmp:" + id.Name
	}
	e.fail(fmt.Errorf("%w: no prefix for %s", ErrEncodingMismatch, id))
	return id.Name
}

// node is an element under construction together with the members the
// schema allows in it.
type node struct {
	enc     *encoder
	el      *xmltree.Element
	members []schema.ElementMeta
}

func (n *node) member(name string) (schema.ElementMeta, bool) {
	for _, m := range n.members {
		if m.Ident.Name == name {
			return m, true
		}
	}
	n.enc.fail(fmt.Errorf("%w: %s has no member %s", soap.ErrUnknownMember, n.el.Name.Local, name))
	return schema.ElementMeta{}, false
}

func (n *node) child(name string) *xmltree.Element {
	n.member(name)
	el := xmltree.NewElement(xmltree.Name{Local: name})
	n.el.Append(el)
	return el
}

func (n *node) text(name, v string) {
	el := n.child(name)
	if v != "" {
		el.Append(xmltree.Text(v))
	}
}

func (n *node) uint(name string, v uint32) { n.text(name, strconv.FormatUint(uint64(v), 10)) }

func (n *node) int(name string, v int64) { n.text(name, strconv.FormatInt(v, 10)) }

func (n *node) bool(name string, v bool) { n.text(name, formatBool(v)) }

func (n *node) time(name string, t time.Time) { n.text(name, formatTime(t)) }

// value writes a parameter value tagged with its xsi:type.
func (n *node) value(name string, v Value) {
	typ := v.Type
	if typ == "" {
		typ = TypeString
	}
	el := n.child(name)
	el.SetAttr(soap.TypeName, soap.XSDPrefix+":"+typ)
	if v.Data != "" {
		el.Append(xmltree.Text(v.Data))
	}
}

// array writes a SOAP-encoded array member. Item element names and the
// arrayType come from the schema.
func (n *node) array(name string, count int, fill func(i int, item *node)) {
	m, ok := n.member(name)
	if !ok {
		return
	}
	item, err := n.enc.binder.ArrayItem(m.Type)
	if err != nil {
		n.enc.fail(err)
		return
	}
	var itemMembers []schema.ElementMeta
	if t, ok := n.enc.binder.Graph().Get(item.Type); ok && t.Complex != nil {
		if itemMembers, err = n.enc.binder.TypeMembers(item.Type); err != nil {
			n.enc.fail(err)
			return
		}
	}

	arr := xmltree.NewElement(xmltree.Name{Local: name})
	arr.SetAttr(soap.ArrayTypeName, soap.ArrayType{Item: n.enc.qualify(item.Type), Length: count}.String())
	for i := 0; i < count; i++ {
		child := &node{
			enc:     n.enc,
			el:      xmltree.NewElement(xmltree.Name{Local: item.Ident.Name}),
			members: itemMembers,
		}
		fill(i, child)
		arr.Append(child.el)
	}
	n.el.Append(arr)
	if n.enc.items == nil {
		n.enc.items = &count
	}
}

func (n *node) strings(name string, items []string) {
	n.array(name, len(items), func(i int, item *node) {
		item.setText(items[i])
	})
}

func (n *node) setText(v string) {
	if v != "" {
		n.el.Append(xmltree.Text(v))
	}
}

// typed writes a member whose concrete type, named in xsi:type, derives from
// the declared type.
func (n *node) typed(name, typeName string, fill func(item *node)) {
	m, ok := n.member(name)
	if !ok {
		return
	}
	concrete := schema.NewIdent(schema.KindType, m.Type.Namespace, typeName)
	members, err := n.enc.binder.TypeMembers(concrete)
	if err != nil {
		n.enc.fail(err)
		return
	}
	child := &node{
		enc:     n.enc,
		el:      xmltree.NewElement(xmltree.Name{Local: name}),
		members: members,
	}
	child.el.SetAttr(soap.TypeName, n.enc.qualify(concrete))
	fill(child)
	n.el.Append(child.el)
}

// decoder carries the state of one Decode call.
type decoder struct {
	items *int
	err   error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// reader reads the members of a decoded element. Missing members read as
// zero values.
type reader struct {
	dec *decoder
	el  *xmltree.Element
}

func (r *reader) child(name string) *xmltree.Element {
	if r.el == nil {
		return nil
	}
	return r.el.ChildLocal(name)
}

func (r *reader) malformed(name, v string, err error) {
	r.dec.fail(fmt.Errorf("%w: %s/%s %q: %v", ErrMalformed, r.el.Name.Local, name, v, err))
}

func (r *reader) text(name string) string {
	if el := r.child(name); el != nil {
		return el.Text()
	}
	return ""
}

// name reads a member holding a parameter or object name. Surrounding
// whitespace from pretty-printed documents is not part of the name.
func (r *reader) name(name string) string {
	return strings.TrimSpace(r.text(name))
}

func (r *reader) trimmed(name string) (string, bool) {
	el := r.child(name)
	if el == nil {
		return "", false
	}
	v := strings.TrimSpace(el.Text())
	return v, v != ""
}

func (r *reader) uint(name string) uint32 {
	v, ok := r.trimmed(name)
	if !ok {
		return 0
	}
	n, err := parseUint(v)
	if err != nil {
		r.malformed(name, v, err)
	}
	return n
}

func (r *reader) int(name string) int64 {
	v, ok := r.trimmed(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		r.malformed(name, v, err)
	}
	return n
}

func (r *reader) bool(name string) bool {
	v, ok := r.trimmed(name)
	if !ok {
		return false
	}
	b, err := parseBool(v)
	if err != nil {
		r.malformed(name, v, err)
	}
	return b
}

func (r *reader) time(name string) time.Time {
	v, ok := r.trimmed(name)
	if !ok {
		return time.Time{}
	}
	t, err := parseTime(v)
	if err != nil {
		r.malformed(name, v, err)
	}
	return t
}

// value reads a parameter value. A missing xsi:type reads as a string.
func (r *reader) value(name string) Value {
	el := r.child(name)
	if el == nil {
		return Value{}
	}
	return Value{Type: xsiType(el, TypeString), Data: el.Text()}
}

// array calls fn for every item of an array member.
func (r *reader) array(name string, fn func(item *reader)) {
	el := r.child(name)
	if el == nil {
		return
	}
	items := el.Elements()
	for _, item := range items {
		fn(&reader{dec: r.dec, el: item})
	}
	if r.dec.items == nil {
		n := len(items)
		r.dec.items = &n
	}
}

// strings reads an array of names, trimming each item.
func (r *reader) strings(name string) []string {
	var out []string
	r.array(name, func(item *reader) {
		out = append(out, strings.TrimSpace(item.el.Text()))
	})
	return out
}

// each calls fn for every occurrence of a repeated member.
func (r *reader) each(name string, fn func(item *reader)) {
	if r.el == nil {
		return
	}
	for _, el := range r.el.ChildrenLocal(name) {
		fn(&reader{dec: r.dec, el: el})
	}
}

// xsiType returns the local part of the element's xsi:type, or def.
func xsiType(el *xmltree.Element, def string) string {
	v, ok := el.AttrLocal("type", soap.XSINamespace, soap.XSIPrefix)
	if !ok {
		return def
	}
	return el.ResolveQName(v).Local
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func parseUint(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint32(n), err
}

// unknownTime is the dateTime sent when a time is not known.
var unknownTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = unknownTime
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime accepts RFC 3339 times and the local-time form without a zone
// that some devices send.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
