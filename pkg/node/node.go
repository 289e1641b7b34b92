// Package node provides the builder tree: typed nodes with an attribute
// store, ordered children, and chainable accessors generated from their
// class's descriptor table.
//
// Setters return the receiver so calls chain:
//
//	interval := chart.Append("interval").
//	    Set("data", rows).
//	    SetKey("encode", "x", "genre").
//	    SetKey("encode", "y", "sold")
//
// A setter that fails (unknown attribute, wrong value shape) leaves the
// store untouched and records the failure on the node; Err reports it and
// flattening refuses a tree that holds one. Getters return their error
// directly.
package node

import (
	"maps"
	"slices"
	"time"

	"github.com/go-drift/chart/pkg/attr"
	"github.com/go-drift/chart/pkg/errors"
)

// Node is one element of the builder tree.
type Node struct {
	class    *Class
	typ      string
	virtual  bool
	value    attr.Store
	children []*Node
	parent   *Node
	err      error
}

// New returns an empty node of class with type tag typ.
func New(class *Class, typ string) *Node {
	return &Node{class: class, typ: typ, value: attr.Store{}}
}

// NewVirtual returns a virtual root of class: a transparent wrapper that owns
// canvas-level sizing and delegates its rendered identity to its last child.
func NewVirtual(class *Class) *Node {
	return &Node{class: class, virtual: true, value: attr.Store{}}
}

// Class returns the node's class.
func (n *Node) Class() *Class { return n.class }

// Type returns the node's type tag, or "" for a virtual root.
func (n *Node) Type() string { return n.typ }

// IsVirtual reports whether n is a virtual root.
func (n *Node) IsVirtual() bool { return n.virtual }

// Parent returns the node that owns n, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of n's children in insertion order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// LastChild returns the most recently appended child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Err returns the first error recorded by a chaining call on n.
func (n *Node) Err() error { return n.err }

func (n *Node) fail(op string, kind errors.ErrorKind, err error) {
	if n.err != nil {
		return
	}
	n.err = &errors.ChartError{Op: op, Kind: kind, Err: err, Timestamp: time.Now()}
}

// AddChild appends child to n's children. It fails with InvalidChildError
// if child is n, is already owned by a parent, is an ancestor of n, or is a
// virtual root. On failure neither tree changes.
func (n *Node) AddChild(child *Node) error {
	if err := n.checkChild(child); err != nil {
		return &errors.ChartError{Op: "node.AddChild", Kind: errors.KindStructure, Err: err, Timestamp: time.Now()}
	}
	n.children = append(slices.Clip(n.children), child)
	child.parent = n
	return nil
}

func (n *Node) checkChild(child *Node) error {
	switch {
	case child == nil:
		return &errors.InvalidChildError{Reason: "nil node"}
	case child == n:
		return &errors.InvalidChildError{Reason: "node cannot be its own child"}
	case child.parent != nil:
		return &errors.InvalidChildError{Reason: "node already has a parent"}
	case child.virtual:
		return &errors.InvalidChildError{Reason: "virtual root cannot be a child"}
	}
	for p := n.parent; p != nil; p = p.parent {
		if p == child {
			return &errors.InvalidChildError{Reason: "node is an ancestor of the parent"}
		}
	}
	return nil
}

// Remove detaches n from its parent and returns n, which may then be added
// to another parent. Removing a root is a no-op.
func (n *Node) Remove() *Node {
	p := n.parent
	if p == nil {
		return n
	}
	i := slices.Index(p.children, n)
	if i >= 0 {
		p.children = slices.Delete(slices.Clone(p.children), i, i+1)
	}
	n.parent = nil
	return n
}

// Append creates a child through the factory registered as name on n's
// class and returns it. Unknown names record an UnknownAttributeError on n
// and return a detached node carrying the same error, so a chain that
// continues from it stays harmless.
func (n *Node) Append(name string) *Node {
	f, ok := n.class.Factory(name)
	if !ok {
		err := &errors.UnknownAttributeError{Class: n.class.Name(), Name: name}
		n.fail("node.Append", errors.KindAttribute, err)
		orphan := New(n.class, name)
		orphan.fail("node.Append", errors.KindAttribute, err)
		return orphan
	}
	if f.Container && n.parent != nil {
		err := &errors.InvalidRootError{Reason: "container " + name + " can only be appended to a tree root"}
		n.fail("node.Append", errors.KindRoot, err)
		orphan := New(f.Class, f.Type)
		orphan.fail("node.Append", errors.KindRoot, err)
		return orphan
	}
	child := New(f.Class, f.Type)
	if f.Container {
		n.virtual = true
		n.typ = ""
	}
	n.children = append(slices.Clip(n.children), child)
	child.parent = n
	return child
}

func (n *Node) accessor(name string) (attr.Accessor, error) {
	a, ok := n.class.Table().Lookup(name)
	if !ok {
		return nil, &errors.UnknownAttributeError{Class: n.class.Name(), Name: name}
	}
	return a, nil
}

// Get returns the value of attribute name, or nil when unset.
func (n *Node) Get(name string) (any, error) {
	a, err := n.accessor(name)
	if err != nil {
		return nil, err
	}
	return a.Get(n.value), nil
}

// GetKey returns one entry of Object attribute name.
func (n *Node) GetKey(name, key string) (any, error) {
	a, err := n.accessor(name)
	if err != nil {
		return nil, err
	}
	return a.GetKey(n.value, key)
}

// Set writes attribute name and returns n. Value attributes are replaced,
// Array attributes are replaced by a slice or extended by any other value,
// Object attributes are replaced by a map. A nil v clears the attribute.
func (n *Node) Set(name string, v any) *Node {
	a, err := n.accessor(name)
	if err != nil {
		n.fail("node.Set", errors.KindAttribute, err)
		return n
	}
	if err := a.Set(n.value, v); err != nil {
		n.fail("node.Set", errors.KindAttribute, err)
	}
	return n
}

// SetKey upserts entry key of Object attribute name and returns n.
func (n *Node) SetKey(name, key string, v any) *Node {
	a, err := n.accessor(name)
	if err != nil {
		n.fail("node.SetKey", errors.KindAttribute, err)
		return n
	}
	if err := a.SetKey(n.value, key, v); err != nil {
		n.fail("node.SetKey", errors.KindAttribute, err)
	}
	return n
}

// Attr returns the raw stored value of name without descriptor checks.
func (n *Node) Attr(name string) any { return n.value[name] }

// SetAttr writes the raw store without descriptor checks and returns n.
// A nil v removes the entry.
func (n *Node) SetAttr(name string, v any) *Node {
	if v == nil {
		delete(n.value, name)
		return n
	}
	n.value[name] = v
	return n
}

// Attributes returns a shallow copy of n's attribute store.
func (n *Node) Attributes() map[string]any {
	return maps.Clone(map[string]any(n.value))
}
