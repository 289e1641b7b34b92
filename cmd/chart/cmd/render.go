package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/chart/pkg/chart"
	"github.com/go-drift/chart/pkg/spec"
	"github.com/go-drift/chart/pkg/surface"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render a PNG preview of a document",
		Long: `Load a chart document, render it onto a raster surface and write the
result as PNG.

The preview shows the chart's background and title. Size comes from
--width/--height, then output.width/height in chart.yaml, then the
document's own width and height.`,
		Usage: "chart render <file> -o <out.png> [--width N] [--height N]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	var path, out string
	width, height := cfg.Width, cfg.Height
	for i := 0; i < len(args); i++ {
		if v, ok, err := flagValue(args, &i, "--out", "-o"); err != nil {
			return err
		} else if ok {
			out = v
			continue
		}
		if v, ok, err := flagValue(args, &i, "--width"); err != nil {
			return err
		} else if ok {
			if width, err = parseSize("--width", v); err != nil {
				return err
			}
			continue
		}
		if v, ok, err := flagValue(args, &i, "--height"); err != nil {
			return err
		} else if ok {
			if height, err = parseSize("--height", v); err != nil {
				return err
			}
			continue
		}
		if path != "" {
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
		path = args[i]
	}
	if path == "" {
		return fmt.Errorf("render requires a document path")
	}
	if out == "" {
		return fmt.Errorf("render requires --out")
	}

	c, err := loadChart(path, chart.Options{
		Plugins: []surface.Plugin{surface.Background{}},
		Runtime: chart.RuntimeFunc(drawTitle),
	})
	if err != nil {
		return err
	}
	defer c.Destroy()

	if width > 0 {
		c.Set("width", width)
	}
	if height > 0 {
		c.Set("height", height)
	}
	if err := c.Render(); err != nil {
		return err
	}

	raster, ok := c.Surface().(*surface.Raster)
	if !ok {
		return fmt.Errorf("render produced %T, want a raster surface", c.Surface())
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := raster.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	w, h := raster.Size()
	fmt.Fprintf(stdout, "Wrote %s (%gx%g)\n", out, w, h)
	return nil
}

// drawTitle captions the surface with the spec's title text, if any.
func drawTitle(s spec.Spec, surf surface.Surface) error {
	title, _ := s["title"].(map[string]any)
	text, _ := title["text"].(string)
	if text == "" {
		return nil
	}
	return surface.Caption{Text: text}.Apply(surf)
}
