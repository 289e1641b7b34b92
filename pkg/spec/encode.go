package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects a spec encoding.
type Format int

const (
	// FormatJSON encodes as indented JSON.
	FormatJSON Format = iota
	// FormatYAML encodes as YAML.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// ParseFormat maps "json", "yaml" or "yml" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("unknown spec format %q (use json or yaml)", s)
	}
}

// Encode writes s to w in format f.
func (s Spec) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode spec as yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode spec as json: %w", err)
		}
		return nil
	}
}

// Marshal returns s encoded in format f.
func (s Spec) Marshal(f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
