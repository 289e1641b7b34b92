// Package mark provides the mark capability: the attribute set every mark
// node carries and the catalog of mark type tags.
//
// The catalog is data. Adding a mark type means adding its tag to Types;
// rendering it is the runtime's concern.
package mark

import (
	"github.com/go-drift/chart/pkg/attr"
	"github.com/go-drift/chart/pkg/node"
)

// Layout lists the per-node layout attributes shared by marks and
// compositions.
var Layout = attr.NewSet("layout",
	attr.Value("width"),
	attr.Value("height"),
	attr.Value("paddingLeft"),
	attr.Value("paddingTop"),
	attr.Value("paddingRight"),
	attr.Value("paddingBottom"),
)

// Props is the mark capability mixin.
var Props = attr.NewSet("mark",
	attr.Value("data"),
	attr.Value("key"),
	attr.Value("class"),
	attr.Value("facet"),
	attr.Value("frame"),
	attr.Value("stack"),
	attr.Value("tooltip"),
	attr.Object("adjust"),
	attr.Object("encode"),
	attr.Object("scale"),
	attr.Object("style"),
	attr.Object("theme"),
	attr.Object("animate"),
	attr.Object("axis"),
	attr.Object("legend"),
	attr.Array("transform"),
	attr.Array("coordinate"),
	attr.Array("interaction"),
	attr.Array("labels"),
)

// Types is the catalog of mark type tags.
var Types = []string{
	"interval",
	"line",
	"point",
	"text",
	"grid",
	"area",
	"node",
	"edge",
	"link",
	"image",
	"polygon",
	"box",
	"vector",
	"lineX",
	"lineY",
	"connector",
	"range",
	"rangeX",
	"rangeY",
}

// Class is the node class of every mark.
var Class = node.NewClass("mark", Layout, Props)

// Factories returns one child factory per mark type. Registering them on a
// class lets its nodes call Append("interval") and so on.
func Factories() []node.Factory {
	fs := make([]node.Factory, 0, len(Types))
	for _, t := range Types {
		fs = append(fs, node.Factory{Name: t, Type: t, Class: Class})
	}
	return fs
}

// New returns a detached mark node of type typ.
func New(typ string) *node.Node {
	return node.New(Class, typ)
}
