package node_test

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/go-drift/chart/pkg/attr"
	"github.com/go-drift/chart/pkg/errors"
	"github.com/go-drift/chart/pkg/node"
)

var (
	testMarkProps = attr.NewSet("mark",
		attr.Value("data"),
		attr.Array("transform"),
		attr.Object("encode"),
	)
	testContainerProps = attr.NewSet("container",
		attr.Value("width"),
		attr.Value("height"),
		attr.Object("theme"),
	)

	markClass      = node.NewClass("mark", testMarkProps)
	containerClass = node.NewClass("container", testContainerProps).
			Provide(node.Factory{Name: "interval", Type: "interval", Class: markClass})
	rootClass = node.NewClass("root", testContainerProps, testMarkProps).
			Provide(
			node.Factory{Name: "interval", Type: "interval", Class: markClass},
			node.Factory{Name: "spaceFlex", Type: "spaceFlex", Class: containerClass, Container: true},
		)
)

func TestChaining_ReturnsSameNode(t *testing.T) {
	n := node.New(markClass, "interval")

	if got := n.Set("data", []int{1, 2}); got != n {
		t.Error("Set should return the receiver")
	}
	if got := n.Set("transform", "stackY"); got != n {
		t.Error("Set on array should return the receiver")
	}
	if got := n.SetKey("encode", "x", "genre"); got != n {
		t.Error("SetKey should return the receiver")
	}
	if err := n.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetAfterSet_ReturnsLastValue(t *testing.T) {
	n := node.New(markClass, "interval")
	n.Set("data", "first").Set("data", "second")

	got, err := n.Get("data")
	if err != nil {
		t.Fatal(err)
	}
	if got != "second" {
		t.Errorf("Get(data) = %v, want second", got)
	}

	n.SetKey("encode", "x", "genre").SetKey("encode", "y", "sold")
	entry, err := n.GetKey("encode", "y")
	if err != nil {
		t.Fatal(err)
	}
	if entry != "sold" {
		t.Errorf("GetKey(encode, y) = %v, want sold", entry)
	}
}

func TestArrayAccumulation(t *testing.T) {
	n := node.New(markClass, "interval")
	n.Set("transform", "a").Set("transform", "b").Set("transform", "c")

	got, _ := n.Get("transform")
	if !reflect.DeepEqual(got, []any{"a", "b", "c"}) {
		t.Errorf("transform = %v, want [a b c]", got)
	}

	n.Set("transform", []any{"z"})
	got, _ = n.Get("transform")
	if !reflect.DeepEqual(got, []any{"z"}) {
		t.Errorf("replacement should discard accumulation, got %v", got)
	}
}

func TestUnknownAttribute(t *testing.T) {
	n := node.New(markClass, "interval")

	_, err := n.Get("colour")
	var unknown *errors.UnknownAttributeError
	if !stderrors.As(err, &unknown) {
		t.Fatalf("Get(colour) err = %v, want UnknownAttributeError", err)
	}
	if unknown.Class != "mark" || unknown.Name != "colour" {
		t.Errorf("unexpected error fields: %+v", unknown)
	}

	if got := n.Set("colour", "red"); got != n {
		t.Error("failed Set should still return the receiver")
	}
	if !stderrors.As(n.Err(), &unknown) {
		t.Errorf("Err() = %v, want UnknownAttributeError", n.Err())
	}
	if _, ok := n.Attributes()["colour"]; ok {
		t.Error("failed Set must not write the store")
	}
}

func TestErr_KeepsFirstFailure(t *testing.T) {
	n := node.New(markClass, "interval")
	n.Set("first", 1).Set("second", 2)

	var unknown *errors.UnknownAttributeError
	if !stderrors.As(n.Err(), &unknown) || unknown.Name != "first" {
		t.Errorf("Err() = %v, want failure for first", n.Err())
	}
}

func TestAddChild_PreservesOrder(t *testing.T) {
	parent := node.New(containerClass, "view")
	a := node.New(markClass, "interval")
	b := node.New(markClass, "line")
	c := node.New(markClass, "point")

	for _, child := range []*node.Node{a, b, c} {
		if err := parent.AddChild(child); err != nil {
			t.Fatal(err)
		}
	}

	children := parent.Children()
	if len(children) != 3 || children[0] != a || children[1] != b || children[2] != c {
		t.Errorf("children out of order: %v", children)
	}
	if a.Parent() != parent {
		t.Error("child parent not set")
	}
	if a.Depth() != 1 || parent.Depth() != 0 {
		t.Errorf("depths = %d, %d", a.Depth(), parent.Depth())
	}
}

func TestAddChild_OwnershipExclusive(t *testing.T) {
	first := node.New(containerClass, "view")
	second := node.New(containerClass, "view")
	child := node.New(markClass, "interval")

	if err := first.AddChild(child); err != nil {
		t.Fatal(err)
	}

	err := second.AddChild(child)
	var invalid *errors.InvalidChildError
	if !stderrors.As(err, &invalid) {
		t.Fatalf("AddChild err = %v, want InvalidChildError", err)
	}
	if first.NumChildren() != 1 || second.NumChildren() != 0 {
		t.Errorf("trees changed: first=%d second=%d", first.NumChildren(), second.NumChildren())
	}
	if child.Parent() != first {
		t.Error("child parent should be unchanged")
	}
}

func TestAddChild_RejectsSelfAndCycles(t *testing.T) {
	root := node.New(containerClass, "view")
	mid := node.New(containerClass, "view")
	leaf := node.New(containerClass, "view")
	root.AddChild(mid)
	mid.AddChild(leaf)

	var invalid *errors.InvalidChildError
	if err := leaf.AddChild(leaf); !stderrors.As(err, &invalid) {
		t.Errorf("self add err = %v", err)
	}
	if err := leaf.AddChild(root); !stderrors.As(err, &invalid) {
		t.Errorf("ancestor add err = %v", err)
	}
	if err := root.AddChild(nil); !stderrors.As(err, &invalid) {
		t.Errorf("nil add err = %v", err)
	}
	if err := root.AddChild(node.NewVirtual(rootClass)); !stderrors.As(err, &invalid) {
		t.Errorf("virtual add err = %v", err)
	}
}

func TestRemove_AllowsReparenting(t *testing.T) {
	first := node.New(containerClass, "view")
	second := node.New(containerClass, "view")
	child := node.New(markClass, "interval")
	first.AddChild(child)

	if got := child.Remove(); got != child {
		t.Error("Remove should return the receiver")
	}
	if first.NumChildren() != 0 || child.Parent() != nil {
		t.Fatal("child still attached")
	}
	if err := second.AddChild(child); err != nil {
		t.Fatalf("re-adding removed child: %v", err)
	}
}

func TestAppend_Factory(t *testing.T) {
	root := node.New(rootClass, "view")
	iv := root.Append("interval").Set("data", 1)

	if iv.Type() != "interval" || iv.Class() != markClass {
		t.Errorf("Append created %s/%s", iv.Class().Name(), iv.Type())
	}
	if root.LastChild() != iv || iv.Parent() != root {
		t.Error("appended child not attached")
	}
	if root.IsVirtual() {
		t.Error("plain factory must not virtualize the root")
	}
}

func TestAppend_ContainerVirtualizesRoot(t *testing.T) {
	root := node.New(rootClass, "view")
	flex := root.Append("spaceFlex")

	if !root.IsVirtual() || root.Type() != "" {
		t.Errorf("root should be virtual, type=%q", root.Type())
	}
	if flex.Type() != "spaceFlex" || flex.Class() != containerClass {
		t.Errorf("container child = %s/%s", flex.Class().Name(), flex.Type())
	}
	flex.Append("interval")
	if flex.NumChildren() != 1 {
		t.Error("container child should accept marks")
	}
}

func TestAppend_ContainerOnlyOnRoot(t *testing.T) {
	root := node.New(rootClass, "view")
	nested := node.New(rootClass, "view")
	root.AddChild(nested)

	orphan := nested.Append("spaceFlex")
	var invalid *errors.InvalidRootError
	if !stderrors.As(nested.Err(), &invalid) {
		t.Errorf("Err() = %v, want InvalidRootError", nested.Err())
	}
	if orphan.Parent() != nil || nested.NumChildren() != 0 || nested.IsVirtual() {
		t.Error("failed container append must not change the tree")
	}
}

func TestAppend_UnknownFactory(t *testing.T) {
	root := node.New(rootClass, "view")
	orphan := root.Append("sankey").Set("data", 1)

	var unknown *errors.UnknownAttributeError
	if !stderrors.As(root.Err(), &unknown) {
		t.Errorf("root Err() = %v, want UnknownAttributeError", root.Err())
	}
	if orphan.Err() == nil || orphan.Parent() != nil {
		t.Error("orphan should carry the error and stay detached")
	}
	if root.NumChildren() != 0 {
		t.Error("root should have no children")
	}
}

func TestRawAttr(t *testing.T) {
	n := node.New(markClass, "interval")
	n.SetAttr("width", 600)
	if n.Attr("width") != 600 {
		t.Errorf("Attr(width) = %v", n.Attr("width"))
	}
	n.SetAttr("width", nil)
	if _, ok := n.Attributes()["width"]; ok {
		t.Error("SetAttr(nil) should delete")
	}
}

func TestClass_FactoriesOrder(t *testing.T) {
	fs := rootClass.Factories()
	if len(fs) != 2 || fs[0].Name != "interval" || fs[1].Name != "spaceFlex" {
		t.Errorf("Factories = %v", fs)
	}
	if _, ok := rootClass.Factory("spaceFlex"); !ok {
		t.Error("expected spaceFlex factory")
	}
}
