package cmd

import (
	"fmt"

	"github.com/go-drift/chart/pkg/chart"
	"github.com/go-drift/chart/pkg/spec"
)

func init() {
	RegisterCommand(&Command{
		Name:  "flatten",
		Short: "Print the flattened spec of a document",
		Long: `Load a chart document and print its flattened spec.

The document is read as HCL when the file ends in .hcl and as YAML (which
includes JSON) otherwise. The output format defaults to output.format in
chart.yaml, then JSON.`,
		Usage: "chart flatten <file> [--format json|yaml]",
		Run:   runFlatten,
	})
}

func runFlatten(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	var path string
	format := cfg.Format
	for i := 0; i < len(args); i++ {
		v, ok, err := flagValue(args, &i, "--format", "-f")
		if err != nil {
			return err
		}
		switch {
		case ok:
			if format, err = spec.ParseFormat(v); err != nil {
				return err
			}
		case path == "":
			path = args[i]
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}
	if path == "" {
		return fmt.Errorf("flatten requires a document path")
	}

	c, err := loadChart(path, chart.Options{Width: cfg.Width, Height: cfg.Height})
	if err != nil {
		return err
	}
	defer c.Destroy()

	s, err := c.Options()
	if err != nil {
		return err
	}
	return s.Encode(stdout, format)
}
