package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-drift/chart/pkg/chart"
	"github.com/go-drift/chart/pkg/inspect"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Serve a document's spec and node tree over HTTP",
		Long: `Load a chart document and start the inspect server.

Endpoints:
  /spec     flattened spec (JSON, or YAML with ?format=yaml)
  /tree     node tree with classes, types and attribute names
  /health   liveness check

The address defaults to serve.addr in chart.yaml, then localhost:9273.
The server runs until interrupted.`,
		Usage: "chart serve <file> [--addr host:port]",
		Run:   runServe,
	})
}

// waitForInterrupt blocks until the process receives SIGINT or SIGTERM.
var waitForInterrupt = func() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

func runServe(args []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	var path string
	addr := cfg.Addr
	for i := 0; i < len(args); i++ {
		v, ok, err := flagValue(args, &i, "--addr")
		if err != nil {
			return err
		}
		switch {
		case ok:
			addr = v
		case path == "":
			path = args[i]
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}
	if path == "" {
		return fmt.Errorf("serve requires a document path")
	}

	c, err := loadChart(path, chart.Options{Width: cfg.Width, Height: cfg.Height})
	if err != nil {
		return err
	}
	defer c.Destroy()

	if _, err := c.Options(); err != nil {
		return err
	}

	bound, err := inspect.Start(addr, c)
	if err != nil {
		return err
	}
	defer inspect.Stop()

	slog.Info("inspect server listening", "addr", bound, "document", path)
	fmt.Fprintf(stdout, "Serving %s on http://%s\n", path, bound)
	waitForInterrupt()
	return nil
}
