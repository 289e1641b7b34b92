// Package config loads the optional chart.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/chart/pkg/spec"
)

// FileName is the project configuration file looked up by the CLI.
const FileName = "chart.yaml"

// Config represents the optional chart.yaml configuration.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Serve  ServeConfig  `yaml:"serve"`
}

// OutputConfig contains defaults for flatten and render.
type OutputConfig struct {
	Format string  `yaml:"format,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// ServeConfig contains inspect server settings.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Format spec.Format
	Width  float64
	Height float64
	Addr   string
}

// DefaultAddr is the inspect server address when none is configured.
const DefaultAddr = "localhost:9273"

// LoadOptional reads chart.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads chart.yaml (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	format, err := spec.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: output.format: %w", FileName, err)
	}

	if cfg.Output.Width < 0 || cfg.Output.Height < 0 {
		return nil, fmt.Errorf("%s: output size must not be negative", FileName)
	}

	addr := strings.TrimSpace(cfg.Serve.Addr)
	if addr == "" {
		addr = DefaultAddr
	}

	return &Resolved{
		Format: format,
		Width:  cfg.Output.Width,
		Height: cfg.Output.Height,
		Addr:   addr,
	}, nil
}
