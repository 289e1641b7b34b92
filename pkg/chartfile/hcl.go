package chartfile

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/go-drift/chart/pkg/node"
)

// DecodeHCL decodes an HCL document into root. filename is used in
// diagnostics only.
func DecodeHCL(data []byte, filename string, root *node.Node) error {
	const op = "chartfile.DecodeHCL"
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return configError(op, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags))
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return configError(op, fmt.Errorf("%s: unexpected body type %T", filename, file.Body))
	}

	if attr, ok := body.Attributes[keyVersion]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return configError(op, fmt.Errorf("invalid version in %s: %w", filename, diags))
		}
		if val.Type() != cty.String || val.IsNull() {
			return configError(op, fmt.Errorf("%s: version must be a string", attr.SrcRange))
		}
		if err := CheckVersion(val.AsString()); err != nil {
			return configError(op, err)
		}
	}
	return configError(op, applyBody(root, body, true))
}

// applyBody writes the attributes of body onto n, then appends one child
// per block in source order.
func applyBody(n *node.Node, body *hclsyntax.Body, isRoot bool) error {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		if isRoot && name == keyVersion {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr := body.Attributes[name]
		v, err := attributeValue(attr)
		if err != nil {
			return err
		}
		if err := setAttr(n, name, v); err != nil {
			return fmt.Errorf("%s: %w", attr.SrcRange, err)
		}
	}

	for _, block := range body.Blocks {
		if len(block.Labels) > 1 {
			return fmt.Errorf("%s: block %s takes at most one label", block.DefRange(), block.Type)
		}
		child, err := appendChild(n, block.Type)
		if err != nil {
			return fmt.Errorf("%s: %w", block.DefRange(), err)
		}
		if len(block.Labels) == 1 {
			if err := setAttr(child, "key", block.Labels[0]); err != nil {
				return fmt.Errorf("%s: %w", block.DefRange(), err)
			}
		}
		if err := applyBody(child, block.Body, false); err != nil {
			return err
		}
	}
	return nil
}

func attributeValue(attr *hclsyntax.Attribute) (any, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid value for attribute %q: %w", attr.Name, diags)
	}
	v, err := ctyToNative(val)
	if err != nil {
		return nil, fmt.Errorf("%s: attribute %q: %w", attr.SrcRange, attr.Name, err)
	}
	return v, nil
}
