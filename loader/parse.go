package loader

import (
	"context"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/internal/ctxlog"
	"github.com/vk/eventgraph/registry"
)

var documentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "node", LabelNames: []string{"name"}},
	},
}

var nodeSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "kind", Required: true},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "connect", LabelNames: []string{"input"}},
		{Type: "default", LabelNames: []string{"input"}},
	},
}

var connectSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "node", Required: true},
		{Name: "output"},
	},
}

var defaultSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "value", Required: true},
	},
}

// ParseData populates g from an HCL graph document and finalizes it.
// Failures (syntax errors, unknown module or node names, bad edge indices,
// unconvertible defaults, cycles, type mismatches) are logged and reported
// as a false return; the graph must then be discarded.
func ParseData(ctx context.Context, reg *registry.Registry, g *graph.Graph, data []byte, filename string) bool {
	logger := ctxlog.FromContext(ctx)

	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		logger.Error("failed to parse graph document", "file", filename, "error", diags.Error())
		return false
	}
	content, diags := file.Body.Content(documentSchema)
	if diags.HasErrors() {
		logger.Error("invalid graph document", "file", filename, "error", diags.Error())
		return false
	}

	// First pass: create every node so connections can refer to any node
	// regardless of declaration order. Node labels map to graph indices.
	type nodeBlock struct {
		label   string
		index   int
		content *hcl.BodyContent
	}
	indices := make(map[string]int)
	blocks := make([]nodeBlock, 0, len(content.Blocks))

	for _, block := range content.Blocks {
		label := block.Labels[0]
		if _, dup := indices[label]; dup {
			logger.Error("duplicate node name", "file", filename, "node", label)
			return false
		}
		body, diags := block.Body.Content(nodeSchema)
		if diags.HasErrors() {
			logger.Error("invalid node block", "file", filename, "node", label, "error", diags.Error())
			return false
		}

		kind, ok := stringAttr(ctx, body.Attributes["kind"], filename, label)
		if !ok {
			return false
		}
		moduleName, nodeName, ok := strings.Cut(kind, "/")
		if !ok {
			logger.Error("node kind must be module/node", "file", filename, "node", label, "kind", kind)
			return false
		}
		sig, err := reg.Signature(moduleName, nodeName)
		if err != nil {
			logger.Error("unknown node kind", "file", filename, "node", label, "error", err)
			return false
		}

		index := g.AddNode(sig)
		indices[label] = index
		blocks = append(blocks, nodeBlock{label: label, index: index, content: body})
	}

	// Second pass: wire connections.
	for _, nb := range blocks {
		for _, block := range nb.content.Blocks {
			if block.Type != "connect" {
				continue
			}
			inputIndex, ok := edgeIndex(ctx, block.Labels[0], filename, nb.label)
			if !ok {
				return false
			}
			body, diags := block.Body.Content(connectSchema)
			if diags.HasErrors() {
				logger.Error("invalid connect block", "file", filename, "node", nb.label, "error", diags.Error())
				return false
			}
			srcName, ok := stringAttr(ctx, body.Attributes["node"], filename, nb.label)
			if !ok {
				return false
			}
			srcIndex, ok := indices[srcName]
			if !ok {
				logger.Error("connect refers to unknown node", "file", filename, "node", nb.label, "source", srcName)
				return false
			}
			srcOutput := 0
			if attr, exists := body.Attributes["output"]; exists {
				srcOutput, ok = intAttr(ctx, attr, filename, nb.label)
				if !ok {
					return false
				}
			}
			if err := g.ConnectInput(nb.index, inputIndex, srcIndex, srcOutput); err != nil {
				logger.Error("failed to connect edge", "file", filename, "node", nb.label, "error", err)
				return false
			}
		}
	}

	if !g.FinalizeNodes(ctx) {
		return false
	}

	// Third pass: defaults. These require a finalized graph because the
	// default buffer is laid out during finalize.
	for _, nb := range blocks {
		node := &g.Nodes()[nb.index]
		for _, block := range nb.content.Blocks {
			if block.Type != "default" {
				continue
			}
			inputIndex, ok := edgeIndex(ctx, block.Labels[0], filename, nb.label)
			if !ok {
				return false
			}
			if inputIndex >= len(node.Inputs()) {
				logger.Error("default refers to missing input", "file", filename, "node", nb.label, "input", inputIndex)
				return false
			}
			body, diags := block.Body.Content(defaultSchema)
			if diags.HasErrors() {
				logger.Error("invalid default block", "file", filename, "node", nb.label, "error", diags.Error())
				return false
			}
			value, diags := body.Attributes["value"].Expr.Value(nil)
			if diags.HasErrors() {
				logger.Error("invalid default value", "file", filename, "node", nb.label, "error", diags.Error())
				return false
			}
			declared := node.InputType(inputIndex)
			if declared.IsSignal() {
				logger.Error("default on a signal input", "file", filename, "node", nb.label, "input", inputIndex)
				return false
			}
			converted, err := convert.Convert(value, declared.CtyType())
			if err != nil {
				logger.Error("default value does not fit declared type",
					"file", filename, "node", nb.label, "input", inputIndex,
					"type", declared.Name(), "error", err)
				return false
			}
			g.SetDefault(ctx, nb.index, inputIndex, converted)
		}
	}

	return true
}

// stringAttr evaluates an attribute as a literal string.
func stringAttr(ctx context.Context, attr *hcl.Attribute, filename, node string) (string, bool) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() || value.Type() != cty.String || value.IsNull() {
		ctxlog.FromContext(ctx).Error("attribute must be a string",
			"file", filename, "node", node, "attribute", attr.Name)
		return "", false
	}
	return value.AsString(), true
}

// intAttr evaluates an attribute as a literal whole number.
func intAttr(ctx context.Context, attr *hcl.Attribute, filename, node string) (int, bool) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() || value.Type() != cty.Number || value.IsNull() {
		ctxlog.FromContext(ctx).Error("attribute must be a number",
			"file", filename, "node", node, "attribute", attr.Name)
		return 0, false
	}
	i, _ := value.AsBigFloat().Int64()
	return int(i), true
}

// edgeIndex parses a positional block label like "0" or "2".
func edgeIndex(ctx context.Context, label, filename, node string) (int, bool) {
	i, err := strconv.Atoi(label)
	if err != nil || i < 0 {
		ctxlog.FromContext(ctx).Error("edge label must be a non-negative index",
			"file", filename, "node", node, "label", label)
		return 0, false
	}
	return i, true
}
