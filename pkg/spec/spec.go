// Package spec flattens a builder tree into the nested specification the
// rendering runtime consumes.
//
// A Spec is plain data: a map holding the node's attributes, its "type", and
// a "children" list when the node has children. It carries no node identity
// and no virtual-root artifacts. Specs share leaf values with the tree they
// came from; treat them as read-only and Clone before modifying.
package spec

import (
	"time"

	"github.com/go-drift/chart/pkg/errors"
	"github.com/go-drift/chart/pkg/node"
)

const (
	// KeyType holds the node type tag at every level.
	KeyType = "type"
	// KeyChildren holds the ordered child specs, present only when non-empty.
	KeyChildren = "children"
)

// LayoutKeys are copied from a virtual root onto the node it delegates to.
var LayoutKeys = []string{
	"width",
	"height",
	"paddingLeft",
	"paddingTop",
	"paddingBottom",
	"paddingRight",
}

// Spec is one level of a flattened tree.
type Spec map[string]any

// Type returns the type tag.
func (s Spec) Type() string {
	t, _ := s[KeyType].(string)
	return t
}

// Children returns the child specs in order.
func (s Spec) Children() []Spec {
	c, _ := s[KeyChildren].([]Spec)
	return c
}

// Number returns attribute key as a float64 when it holds a number.
func (s Spec) Number(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// Clone returns a deep copy of s. Nested maps and slices of the common
// decoded shapes are copied; other values are shared.
func (s Spec) Clone() Spec {
	if s == nil {
		return nil
	}
	return cloneValue(s).(Spec)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Spec:
		out := make(Spec, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []Spec:
		out := make([]Spec, len(t))
		for i, e := range t {
			out[i] = cloneValue(e).(Spec)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func valueOf(n *node.Node) Spec {
	s := Spec(n.Attributes())
	s[KeyType] = n.Type()
	return s
}

func rootError(reason string) error {
	return &errors.ChartError{
		Op:        "spec.Flatten",
		Kind:      errors.KindRoot,
		Err:       &errors.InvalidRootError{Reason: reason},
		Timestamp: time.Now(),
	}
}

// normalizeRoot resolves the virtual-root indirection. For a virtual root it
// returns the last child and the wrapper's layout values, which override the
// child's own in the emitted spec.
func normalizeRoot(root *node.Node) (*node.Node, map[string]any, error) {
	if !root.IsVirtual() {
		return root, nil, nil
	}
	if err := root.Err(); err != nil {
		return nil, nil, err
	}
	last := root.LastChild()
	if last == nil {
		return nil, nil, rootError("virtual root has no children")
	}
	layout := make(map[string]any, len(LayoutKeys))
	for _, key := range LayoutKeys {
		layout[key] = root.Attr(key)
	}
	return last, layout, nil
}

// Flatten walks the tree under root and returns its spec.
//
// If root is virtual, the spec describes root's last child, with root's
// layout attributes (LayoutKeys) replacing the child's; a layout attribute
// absent on root is absent from the result. The walk uses an explicit work
// list, so depth is bounded only by memory. Child order is preserved at
// every level.
//
// Flatten never mutates the tree. It fails without returning a partial
// spec when root is nil, a virtual root has no children, a virtual node
// appears below the root, or any node carries a recorded accessor error.
func Flatten(root *node.Node) (Spec, error) {
	if root == nil {
		return nil, rootError("nil root")
	}
	resolved, layout, err := normalizeRoot(root)
	if err != nil {
		return nil, err
	}

	rootValue := valueOf(resolved)
	for key, v := range layout {
		if v == nil {
			delete(rootValue, key)
			continue
		}
		rootValue[key] = v
	}

	values := map[*node.Node]Spec{resolved: rootValue}
	discovered := []*node.Node{resolved}
	for len(discovered) > 0 {
		n := discovered[len(discovered)-1]
		discovered = discovered[:len(discovered)-1]
		if err := n.Err(); err != nil {
			return nil, err
		}

		value := values[n]
		for _, child := range n.Children() {
			if child.IsVirtual() {
				return nil, rootError("virtual node below the root")
			}
			if _, seen := values[child]; seen {
				return nil, rootError("node reachable twice")
			}
			childValue := valueOf(child)
			children, _ := value[KeyChildren].([]Spec)
			value[KeyChildren] = append(children, childValue)
			discovered = append(discovered, child)
			values[child] = childValue
		}
	}
	return rootValue, nil
}
