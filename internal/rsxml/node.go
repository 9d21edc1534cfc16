// Package rsxml implements the generic attributed tree that sits at the
// song compiler's input boundary: a Node is either a coerced scalar, a
// homogeneous list, or a record whose fields blend XML attributes and
// child elements, with repeated child tags collapsing into a list. Real
// XML parsing is out of scope; Build consumes the minimal element shape an
// external parser is assumed to already produce.
package rsxml

import (
	"strconv"
	"strings"
)

// Node is one value in the attributed tree. The zero Node is an empty
// record.
type Node struct {
	kind   kind
	scalar any // int64, float64, or string, valid when kind == kindScalar
	list   []*Node
	fields map[string]*Node
}

type kind int

const (
	kindRecord kind = iota
	kindScalar
	kindList
)

// Element is the shape a parser hands to Build: an XML element already
// split into its tag, trimmed text, attributes, and children.
type Element struct {
	Tag      string
	Text     string
	Attrs    map[string]string
	Children []Element
}

// Build folds a parsed element into a tree value: an element with
// non-blank text becomes a coerced scalar; an element carrying a "count"
// attribute becomes a list of its children's built values (the count
// itself is redundant and ignored); otherwise it becomes a record, with
// attributes coerced and child elements folded in by tag, repeated tags
// collapsing into a list.
func Build(el Element) *Node {
	if text := strings.TrimSpace(el.Text); text != "" {
		return coerce(text)
	}

	if _, ok := el.Attrs["count"]; ok {
		items := make([]*Node, len(el.Children))
		for i, c := range el.Children {
			items[i] = Build(c)
		}
		return NewList(items)
	}

	fields := make(map[string]*Node, len(el.Attrs)+len(el.Children))
	for k, v := range el.Attrs {
		fields[k] = coerce(v)
	}
	for _, c := range el.Children {
		v := Build(c)
		existing, ok := fields[c.Tag]
		switch {
		case !ok:
			fields[c.Tag] = v
		case existing.kind == kindList:
			existing.list = append(existing.list, v)
		default:
			fields[c.Tag] = NewList([]*Node{existing, v})
		}
	}
	return NewRecord(fields)
}

// coerce tries integer, then float, then leaves the value as a string.
func coerce(s string) *Node {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return NewInt(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NewFloat(f)
	}
	return NewString(s)
}

func NewInt(v int64) *Node     { return &Node{kind: kindScalar, scalar: v} }
func NewFloat(v float64) *Node { return &Node{kind: kindScalar, scalar: v} }
func NewString(v string) *Node { return &Node{kind: kindScalar, scalar: v} }

func NewList(items []*Node) *Node { return &Node{kind: kindList, list: items} }

func NewRecord(fields map[string]*Node) *Node {
	return &Node{kind: kindRecord, fields: fields}
}

// Has reports whether key is present on a record node.
func (n *Node) Has(key string) bool {
	if n == nil || n.fields == nil {
		return false
	}
	_, ok := n.fields[key]
	return ok
}

// Field returns the child named key, or nil if absent or n is not a
// record.
func (n *Node) Field(key string) *Node {
	if n == nil || n.fields == nil {
		return nil
	}
	return n.fields[key]
}

// List returns n's items when n is a list node, or a single-element slice
// wrapping a record/scalar node, so a repeated element that happened to
// occur once reads the same as a proper list.
func (n *Node) List() []*Node {
	if n == nil {
		return nil
	}
	if n.kind == kindList {
		return n.list
	}
	return []*Node{n}
}

// FieldList returns the list at key, defaulting to an empty slice when
// absent.
func (n *Node) FieldList(key string) []*Node {
	f := n.Field(key)
	if f == nil {
		return nil
	}
	return f.List()
}

// Int returns key's value coerced to int, or 0 when absent.
func (n *Node) Int(key string) int {
	return int(n.Field(key).AsInt())
}

// IntOr returns key's value coerced to int, or def when absent.
func (n *Node) IntOr(key string, def int) int {
	f := n.Field(key)
	if f == nil {
		return def
	}
	return int(f.AsInt())
}

// Float returns key's value coerced to float64, or 0 when absent.
func (n *Node) Float(key string) float64 {
	return n.Field(key).AsFloat()
}

// Str returns key's value coerced to string, or "" when absent.
func (n *Node) Str(key string) string {
	return n.Field(key).AsString()
}

// AsInt coerces a scalar node to int64; non-scalar or nil nodes are 0.
func (n *Node) AsInt() int64 {
	if n == nil || n.kind != kindScalar {
		return 0
	}
	switch v := n.scalar.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// AsFloat coerces a scalar node to float64; non-scalar or nil nodes are 0.
func (n *Node) AsFloat() float64 {
	if n == nil || n.kind != kindScalar {
		return 0
	}
	switch v := n.scalar.(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

// AsString renders a scalar node as a string; non-scalar or nil nodes are
// "".
func (n *Node) AsString() string {
	if n == nil || n.kind != kindScalar {
		return ""
	}
	switch v := n.scalar.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return ""
	}
}

// Set assigns a field on a record node, creating the fields map if needed.
// It is how the song compiler's decode step stages values before they are
// lifted into typed structs; the compiler itself works in typed Go, not on
// Node, once decoding is done.
func (n *Node) Set(key string, v *Node) {
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	n.fields[key] = v
}
