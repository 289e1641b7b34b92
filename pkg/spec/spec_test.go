package spec_test

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/chart/pkg/composition"
	"github.com/go-drift/chart/pkg/errors"
	"github.com/go-drift/chart/pkg/mark"
	"github.com/go-drift/chart/pkg/node"
	"github.com/go-drift/chart/pkg/spec"
)

var rootClass = node.NewClass("root", mark.Layout, composition.Props).
	Provide(mark.Factories()...).
	Provide(composition.Factories()...)

func newRoot() *node.Node {
	return node.New(rootClass, "view")
}

func TestFlatten_SimpleTree(t *testing.T) {
	root := newRoot().Set("width", 640).Set("height", 480)
	root.Append("interval").
		Set("data", []int{1, 2, 3}).
		SetKey("encode", "x", "genre")
	root.Append("line").Set("transform", "stackY")

	got, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}

	want := spec.Spec{
		"type":   "view",
		"width":  640,
		"height": 480,
		"children": []spec.Spec{
			{
				"type":   "interval",
				"data":   []int{1, 2, 3},
				"encode": map[string]any{"x": "genre"},
			},
			{
				"type":      "line",
				"transform": []any{"stackY"},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
}

func TestFlatten_LeafHasNoChildrenKey(t *testing.T) {
	got, err := spec.Flatten(newRoot())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got[spec.KeyChildren]; ok {
		t.Errorf("leaf spec has children key: %v", got)
	}
	if got.Type() != "view" {
		t.Errorf("Type() = %q", got.Type())
	}
}

func TestFlatten_PreservesOrderAtDepth(t *testing.T) {
	root := newRoot()
	flex := root.Append("interval")
	for _, typ := range []string{"a", "b", "c", "d"} {
		flex.AddChild(mark.New(typ))
	}
	sibling := root.Append("point")
	sibling.AddChild(mark.New("x"))

	got, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}

	var types []string
	for _, c := range got.Children()[0].Children() {
		types = append(types, c.Type())
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, types); diff != "" {
		t.Errorf("child order (-want +got):\n%s", diff)
	}
	if got.Children()[1].Children()[0].Type() != "x" {
		t.Error("second subtree lost its child")
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	root := newRoot().Set("width", 100)
	layer := composition.New("spaceLayer")
	root.AddChild(layer)
	layer.AddChild(mark.New("interval").Set("data", "x"))
	layer.AddChild(mark.New("line"))

	first, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("two flattens differ:\n%s", diff)
	}
}

func TestFlatten_DeepTree(t *testing.T) {
	root := newRoot()
	cur := root
	const depth = 2000
	for i := 0; i < depth; i++ {
		next := composition.New("spaceLayer")
		if err := cur.AddChild(next); err != nil {
			t.Fatalf("AddChild at depth %d: %v", i, err)
		}
		cur = next
	}

	got, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for s := got; len(s.Children()) > 0; s = s.Children()[0] {
		n++
	}
	if n != depth {
		t.Errorf("depth = %d, want %d", n, depth)
	}
}

func TestFlatten_VirtualRootDelegatesToLastChild(t *testing.T) {
	root := newRoot().
		Set("width", 800).
		Set("height", 600).
		Set("paddingLeft", 10)
	flex := root.Append("spaceFlex").
		Set("width", 1).
		Set("paddingTop", 20).
		Set("direction", "col")
	flex.Append("interval")

	if !root.IsVirtual() {
		t.Fatal("container factory should virtualize the root")
	}

	got, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	want := spec.Spec{
		"type":        "spaceFlex",
		"width":       800,
		"height":      600,
		"paddingLeft": 10,
		"direction":   "col",
		"children":    []spec.Spec{{"type": "interval"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("virtual root (-want +got):\n%s", diff)
	}

	// The live child keeps its own layout values.
	if flex.Attr("width") != 1 || flex.Attr("paddingTop") != 20 {
		t.Errorf("flatten mutated the tree: width=%v paddingTop=%v",
			flex.Attr("width"), flex.Attr("paddingTop"))
	}
}

func TestFlatten_VirtualRootUsesLastChild(t *testing.T) {
	root := node.NewVirtual(rootClass)
	root.AddChild(composition.New("spaceLayer"))
	root.AddChild(composition.New("facetRect"))

	got, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type() != "facetRect" {
		t.Errorf("Type() = %q, want facetRect", got.Type())
	}
}

func TestFlatten_InvalidRoots(t *testing.T) {
	tests := []struct {
		name string
		root *node.Node
	}{
		{"nil", nil},
		{"empty virtual", node.NewVirtual(rootClass)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := spec.Flatten(tt.root)
			if got != nil {
				t.Errorf("expected no spec, got %v", got)
			}
			var invalid *errors.InvalidRootError
			if !stderrors.As(err, &invalid) {
				t.Errorf("err = %v, want InvalidRootError", err)
			}
		})
	}
}

func TestFlatten_AbortsOnRecordedError(t *testing.T) {
	root := newRoot()
	root.Append("interval").Set("colour", "red")

	got, err := spec.Flatten(root)
	if got != nil {
		t.Errorf("expected no partial spec, got %v", got)
	}
	var unknown *errors.UnknownAttributeError
	if !stderrors.As(err, &unknown) {
		t.Errorf("err = %v, want UnknownAttributeError", err)
	}
}

func TestFlatten_SpecIsSnapshot(t *testing.T) {
	root := newRoot()
	iv := root.Append("interval").Set("transform", "a")

	got, err := spec.Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	iv.Set("transform", "b").Set("data", 1)
	root.Append("line")

	if len(got.Children()) != 1 {
		t.Errorf("spec gained children: %d", len(got.Children()))
	}
	if diff := cmp.Diff(spec.Spec{"type": "interval", "transform": []any{"a"}}, got.Children()[0]); diff != "" {
		t.Errorf("spec changed after tree edit:\n%s", diff)
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := spec.Spec{
		"type":     "view",
		"encode":   map[string]any{"x": "a"},
		"children": []spec.Spec{{"type": "interval", "labels": []any{"l"}}},
	}
	c := s.Clone()
	c["encode"].(map[string]any)["x"] = "b"
	c.Children()[0]["type"] = "line"
	c.Children()[0]["labels"].([]any)[0] = "m"

	if s["encode"].(map[string]any)["x"] != "a" || s.Children()[0].Type() != "interval" ||
		s.Children()[0]["labels"].([]any)[0] != "l" {
		t.Errorf("Clone shared state: %v", s)
	}
}

func TestNumber(t *testing.T) {
	s := spec.Spec{"width": 640, "height": 480.5, "title": "x"}
	if v, ok := s.Number("width"); !ok || v != 640 {
		t.Errorf("width = %v, %v", v, ok)
	}
	if v, ok := s.Number("height"); !ok || v != 480.5 {
		t.Errorf("height = %v, %v", v, ok)
	}
	if _, ok := s.Number("title"); ok {
		t.Error("title should not be a number")
	}
	if _, ok := s.Number("missing"); ok {
		t.Error("missing should not be a number")
	}
}

func TestEncode(t *testing.T) {
	s := spec.Spec{
		"type":     "view",
		"width":    640,
		"children": []spec.Spec{{"type": "interval"}},
	}

	js, err := s.Marshal(spec.FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(js), `"type": "interval"`) || !strings.Contains(string(js), `"width": 640`) {
		t.Errorf("json output:\n%s", js)
	}

	ym, err := s.Marshal(spec.FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(ym), "- type: interval") || !strings.Contains(string(ym), "width: 640") {
		t.Errorf("yaml output:\n%s", ym)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    spec.Format
		wantErr bool
	}{
		{"", spec.FormatJSON, false},
		{"JSON", spec.FormatJSON, false},
		{"yaml", spec.FormatYAML, false},
		{" yml ", spec.FormatYAML, false},
		{"toml", spec.FormatJSON, true},
	}
	for _, tt := range tests {
		got, err := spec.ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() == "" {
			t.Errorf("empty String() for %v", got)
		}
	}
}
