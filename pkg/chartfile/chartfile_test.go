package chartfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/chart/pkg/chart"
	"github.com/go-drift/chart/pkg/chartfile"
	"github.com/go-drift/chart/pkg/errors"
	"github.com/go-drift/chart/pkg/spec"
)

func loadSpec(t *testing.T, path string) spec.Spec {
	t.Helper()
	root := chart.NewRoot()
	require.NoError(t, chartfile.Load(path, root))
	s, err := spec.Flatten(root)
	require.NoError(t, err)
	return s
}

func TestLoad_YAML(t *testing.T) {
	s := loadSpec(t, "testdata/bar.yaml")

	want := spec.Spec{
		"type":   "view",
		"width":  800,
		"height": 400,
		"title":  map[string]any{"text": "Games sold"},
		"children": []spec.Spec{
			{
				"type": "interval",
				"data": []any{
					map[string]any{"genre": "Sports", "sold": 275},
					map[string]any{"genre": "Strategy", "sold": 115},
				},
				"encode":    map[string]any{"x": "genre", "y": "sold"},
				"transform": []any{map[string]any{"type": "sortX"}},
			},
			{
				"type":  "text",
				"style": map[string]any{"fontSize": 12},
			},
		},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("YAML spec mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_HCLMatchesYAML(t *testing.T) {
	fromYAML, err := loadSpec(t, "testdata/bar.yaml").Marshal(spec.FormatJSON)
	require.NoError(t, err)
	fromHCL, err := loadSpec(t, "testdata/bar.hcl").Marshal(spec.FormatJSON)
	require.NoError(t, err)

	require.JSONEq(t, string(fromYAML), string(fromHCL))
}

func TestLoad_JSONContainerRoot(t *testing.T) {
	s := loadSpec(t, "testdata/flex.json")

	require.Equal(t, "spaceFlex", s.Type())
	require.Equal(t, 600, s["width"])
	require.Equal(t, "row", s["direction"])
	require.Len(t, s.Children(), 2)
	require.Equal(t, "line", s.Children()[1].Type())
}

func TestDecodeHCL_BlockLabelSetsKey(t *testing.T) {
	root := chart.NewRoot()
	src := []byte(`
point "sales" {
  encode = { x = "month" }
}
`)
	require.NoError(t, chartfile.DecodeHCL(src, "inline.hcl", root))
	s, err := spec.Flatten(root)
	require.NoError(t, err)
	require.Equal(t, "sales", s.Children()[0]["key"])
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
	}{
		{"yaml unknown attribute", func() error {
			return chartfile.DecodeYAML([]byte("chart: {colour: red}"), chart.NewRoot())
		}},
		{"yaml unknown factory", func() error {
			return chartfile.DecodeYAML([]byte("chart: {children: [{type: sankey}]}"), chart.NewRoot())
		}},
		{"yaml child without type", func() error {
			return chartfile.DecodeYAML([]byte("chart: {children: [{data: 1}]}"), chart.NewRoot())
		}},
		{"yaml root type mismatch", func() error {
			return chartfile.DecodeYAML([]byte("chart: {type: line}"), chart.NewRoot())
		}},
		{"yaml syntax", func() error {
			return chartfile.DecodeYAML([]byte("chart: [unclosed"), chart.NewRoot())
		}},
		{"hcl syntax", func() error {
			return chartfile.DecodeHCL([]byte("interval {"), "bad.hcl", chart.NewRoot())
		}},
		{"hcl variable reference", func() error {
			return chartfile.DecodeHCL([]byte("data = var.rows"), "bad.hcl", chart.NewRoot())
		}},
		{"hcl two labels", func() error {
			return chartfile.DecodeHCL([]byte(`interval "a" "b" {}`), "bad.hcl", chart.NewRoot())
		}},
		{"hcl unknown block", func() error {
			return chartfile.DecodeHCL([]byte("sankey {}"), "bad.hcl", chart.NewRoot())
		}},
		{"major version", func() error {
			return chartfile.DecodeYAML([]byte("version: v2.0.0\nchart: {}"), chart.NewRoot())
		}},
		{"hcl major version", func() error {
			return chartfile.DecodeHCL([]byte(`version = "3.1.0"`), "bad.hcl", chart.NewRoot())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			var ce *errors.ChartError
			require.ErrorAs(t, err, &ce)
			require.Equal(t, errors.KindConfig, ce.Kind)
		})
	}
}

func TestDecode_UnknownAttributeKeepsType(t *testing.T) {
	err := chartfile.DecodeYAML([]byte("chart: {colour: red}"), chart.NewRoot())
	var unknown *errors.UnknownAttributeError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "colour", unknown.Name)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"v1.0.0", false},
		{"1.4.2", false},
		{"v1", false},
		{"v2.0.0", true},
		{"v0.9.0", true},
		{"banana", true},
	}
	for _, tt := range tests {
		err := chartfile.CheckVersion(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
		} else {
			require.NoError(t, err, tt.in)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	err := chartfile.Load(filepath.Join(t.TempDir(), "nope.yaml"), chart.NewRoot())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeYAML_EmptyDocument(t *testing.T) {
	root := chart.NewRoot()
	require.NoError(t, chartfile.DecodeYAML([]byte("version: v1.0.0\n"), root))
	require.Zero(t, root.NumChildren())
}
