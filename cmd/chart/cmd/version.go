package cmd

import (
	"fmt"

	"github.com/go-drift/chart/pkg/chartfile"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Print the CLI version and the chart document format version it reads.",
		Usage: "chart version",
		Run: func(args []string) error {
			fmt.Fprintf(stdout, "chart CLI version %s (built %s)\n", Version, BuildTime)
			fmt.Fprintf(stdout, "document format %s\n", chartfile.FormatVersion)
			return nil
		},
	})
}
