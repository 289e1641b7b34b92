package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-drift/chart/cmd/chart/internal/config"
	"github.com/go-drift/chart/pkg/chart"
	"github.com/go-drift/chart/pkg/chartfile"
)

// flagValue returns the value of the flag at args[*i], accepting both
// "--name value" and "--name=value". ok is false when args[*i] is not one
// of names.
func flagValue(args []string, i *int, names ...string) (value string, ok bool, err error) {
	arg := args[*i]
	for _, name := range names {
		if arg == name {
			if *i+1 >= len(args) {
				return "", true, fmt.Errorf("%s requires a value", name)
			}
			*i++
			return args[*i], true, nil
		}
		if strings.HasPrefix(arg, name+"=") {
			return strings.TrimPrefix(arg, name+"="), true, nil
		}
	}
	return "", false, nil
}

func parseSize(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", name, s)
	}
	return v, nil
}

// resolveConfig loads chart.yaml from the working directory.
func resolveConfig() (*config.Resolved, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Resolve(dir)
}

// loadChart creates a chart of the given size and loads the document at
// path into its root.
func loadChart(path string, opts chart.Options) (*chart.Chart, error) {
	c, err := chart.New(opts)
	if err != nil {
		return nil, err
	}
	if err := chartfile.Load(path, c.Node); err != nil {
		c.Destroy()
		return nil, err
	}
	return c, nil
}
