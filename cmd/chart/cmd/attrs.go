package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-drift/chart/pkg/chart"
	"github.com/go-drift/chart/pkg/node"
)

func init() {
	RegisterCommand(&Command{
		Name:  "attrs",
		Short: "Print the attribute reference as Markdown",
		Long: `Print the attributes and child factories of the chart root class, and
of every class reachable through its factories, as Markdown tables.`,
		Usage: "chart attrs",
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("attrs takes no arguments")
			}
			return writeReference(stdout, chart.Class)
		},
	})
}

// writeReference documents root and each class reachable from it, in
// discovery order.
func writeReference(w io.Writer, root *node.Class) error {
	seen := map[*node.Class]bool{root: true}
	queue := []*node.Class{root}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		var b strings.Builder
		fmt.Fprintf(&b, "## %s\n\n", c.Name())
		fmt.Fprintln(&b, "| Attribute | Kind |")
		fmt.Fprintln(&b, "|---|---|")
		for _, d := range c.Table().Descriptors() {
			fmt.Fprintf(&b, "| `%s` | %s |\n", d.Name, d.Kind)
		}

		if fs := c.Factories(); len(fs) > 0 {
			fmt.Fprintln(&b)
			fmt.Fprintln(&b, "| Factory | Type | Class | Container |")
			fmt.Fprintln(&b, "|---|---|---|---|")
			for _, f := range fs {
				container := ""
				if f.Container {
					container = "yes"
				}
				fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", f.Name, f.Type, f.Class.Name(), container)
				if !seen[f.Class] {
					seen[f.Class] = true
					queue = append(queue, f.Class)
				}
			}
		}
		fmt.Fprintln(&b)

		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
