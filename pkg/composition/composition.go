// Package composition provides the composition capability: the attribute
// set of container nodes and the catalog of composition type tags.
//
// Compositions can be used two ways. Nested inside another composition they
// are ordinary children (Nodes). Appended to a tree root through a container
// factory (Factories) they take over the root's rendered identity: the root
// becomes a virtual wrapper that only contributes canvas size and padding.
package composition

import (
	"github.com/go-drift/chart/pkg/attr"
	"github.com/go-drift/chart/pkg/mark"
	"github.com/go-drift/chart/pkg/node"
)

// Props is the composition capability mixin.
var Props = attr.NewSet("composition",
	attr.Value("data"),
	attr.Value("key"),
	attr.Value("direction"),
	attr.Value("padding"),
	attr.Value("margin"),
	attr.Value("inset"),
	attr.Object("theme"),
	attr.Object("title"),
	attr.Object("encode"),
	attr.Object("scale"),
	attr.Object("style"),
	attr.Array("ratio"),
	attr.Array("coordinate"),
	attr.Array("interaction"),
	attr.Array("transform"),
)

// Types is the catalog of composition type tags.
var Types = []string{
	"view",
	"spaceLayer",
	"spaceFlex",
	"facetRect",
	"facetCircle",
	"repeatMatrix",
	"timingKeyframe",
}

// Class is the node class of every composition.
var Class = node.NewClass("composition", mark.Layout, Props)

func init() {
	Class.Provide(mark.Factories()...)
	Class.Provide(Nodes()...)
}

// Nodes returns one plain child factory per composition type, for nesting
// compositions inside compositions.
func Nodes() []node.Factory {
	fs := make([]node.Factory, 0, len(Types))
	for _, t := range Types {
		fs = append(fs, node.Factory{Name: t, Type: t, Class: Class})
	}
	return fs
}

// Factories returns one container factory per composition type, for
// registration on root classes.
func Factories() []node.Factory {
	fs := Nodes()
	for i := range fs {
		fs[i].Container = true
	}
	return fs
}

// New returns a detached composition node of type typ.
func New(typ string) *node.Node {
	return node.New(Class, typ)
}
