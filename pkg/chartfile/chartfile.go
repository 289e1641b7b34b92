// Package chartfile decodes declarative chart documents into node trees.
//
// Two document syntaxes are supported. YAML (and therefore JSON) documents
// carry a top-level "chart" mapping whose keys are root attributes, with an
// ordered "children" list of mappings that each name their factory in
// "type":
//
//	version: v1.0.0
//	chart:
//	  width: 800
//	  children:
//	    - type: interval
//	      encode: {x: genre, y: sold}
//
// HCL documents put root attributes at the top level and use one block per
// child, named after its factory. A block label becomes the child's key:
//
//	version = "v1.0.0"
//	width   = 800
//	interval "sales" {
//	  encode = { x = "genre", y = "sold" }
//	}
//
// Children are created through the parent's factories and attributes are
// written through the node accessors, so documents obey the same rules as
// code: unknown names fail, and a composition appended to the root takes it
// over as a virtual wrapper.
package chartfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/go-drift/chart/pkg/errors"
	"github.com/go-drift/chart/pkg/node"
)

// FormatVersion is the document format version this package writes and
// reads. Documents declaring a different major version are rejected.
const FormatVersion = "v1.0.0"

const (
	keyVersion  = "version"
	keyType     = "type"
	keyChildren = "children"
)

// Load reads the document at path into root, choosing the syntax from the
// file extension: .hcl for HCL, anything else as YAML/JSON.
func Load(path string, root *node.Node) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return configError("chartfile.Load", fmt.Errorf("read %s: %w", path, err))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return DecodeHCL(data, path, root)
	default:
		return DecodeYAML(data, root)
	}
}

// CheckVersion validates a declared document version. An empty version is
// accepted as FormatVersion; a missing "v" prefix is tolerated.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid document version %q", v)
	}
	if semver.Major(v) != semver.Major(FormatVersion) {
		return fmt.Errorf("unsupported document version %s (this build reads %s.x)", v, semver.Major(FormatVersion))
	}
	return nil
}

func configError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &errors.ChartError{
		Op:        op,
		Kind:      errors.KindConfig,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// setAttr writes one attribute and returns the node's recorded error, if
// any.
func setAttr(n *node.Node, name string, v any) error {
	if err := n.Set(name, v).Err(); err != nil {
		return err
	}
	return nil
}

// appendChild creates a child of parent through the factory named typ.
func appendChild(parent *node.Node, typ string) (*node.Node, error) {
	if typ == "" {
		return nil, fmt.Errorf("child of %s has no %s", describe(parent), keyType)
	}
	child := parent.Append(typ)
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return child, nil
}

func describe(n *node.Node) string {
	if n.IsVirtual() {
		return n.Class().Name() + "(virtual)"
	}
	return n.Class().Name() + "(" + n.Type() + ")"
}
