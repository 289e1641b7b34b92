package composition

import (
	"testing"

	"github.com/go-drift/chart/pkg/attr"
	"github.com/go-drift/chart/pkg/mark"
)

func TestClassCombinesLayoutAndProps(t *testing.T) {
	for _, name := range []string{"width", "paddingLeft", "theme", "ratio", "title"} {
		if _, ok := Class.Table().Lookup(name); !ok {
			t.Errorf("composition class missing %q", name)
		}
	}
	if got := Class.Table().Sets(); len(got) != 2 || got[0] != "layout" || got[1] != "composition" {
		t.Errorf("Sets = %v", got)
	}
}

func TestNestedCompositionAcceptsMarks(t *testing.T) {
	flex := New("spaceFlex")
	layer := flex.Append("spaceLayer")
	line := layer.Append("line").Set("data", []float64{1, 2})

	if flex.Err() != nil || layer.Err() != nil || line.Err() != nil {
		t.Fatalf("unexpected errors: %v %v %v", flex.Err(), layer.Err(), line.Err())
	}
	if flex.IsVirtual() {
		t.Error("nested composition factories must not virtualize")
	}
	if line.Class() != mark.Class {
		t.Errorf("line class = %s", line.Class().Name())
	}
}

func TestFactoriesAreContainers(t *testing.T) {
	fs := Factories()
	if len(fs) != len(Types) {
		t.Fatalf("len = %d, want %d", len(fs), len(Types))
	}
	for _, f := range fs {
		if !f.Container || f.Class != Class {
			t.Errorf("factory %s: container=%v class=%s", f.Name, f.Container, f.Class.Name())
		}
	}
	for _, f := range Nodes() {
		if f.Container {
			t.Errorf("Nodes() factory %s should not be a container", f.Name)
		}
	}
}

func TestMarkPropsShapes(t *testing.T) {
	want := map[string]attr.Kind{
		"data":      attr.KindValue,
		"encode":    attr.KindObject,
		"transform": attr.KindArray,
		"labels":    attr.KindArray,
	}
	for name, kind := range want {
		a, ok := mark.Class.Table().Lookup(name)
		if !ok {
			t.Errorf("mark class missing %q", name)
			continue
		}
		if a.Descriptor().Kind != kind {
			t.Errorf("%s kind = %v, want %v", name, a.Descriptor().Kind, kind)
		}
	}
}
