package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/chart/pkg/spec"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestResolve_Defaults(t *testing.T) {
	got, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Format != spec.FormatJSON || got.Addr != DefaultAddr || got.Width != 0 {
		t.Errorf("Resolve() = %+v", got)
	}
}

func TestResolve_FromFile(t *testing.T) {
	dir := writeConfig(t, `
output:
  format: YAML
  width: 1024
  height: 768
serve:
  addr: ":8080"
`)
	got, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := Resolved{Format: spec.FormatYAML, Width: 1024, Height: 768, Addr: ":8080"}
	if *got != want {
		t.Errorf("Resolve() = %+v, want %+v", *got, want)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "output: [1"},
		{"format", "output: {format: toml}"},
		{"negative size", "output: {width: -1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Resolve(writeConfig(t, tt.body)); err == nil {
				t.Error("Resolve() error = nil, want error")
			}
		})
	}
}
