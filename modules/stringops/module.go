// Package stringops provides the "string" module: comparison,
// concatenation and number formatting nodes.
package stringops

import (
	"context"
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/registry"
)

// equalsNode compares its two string inputs.
type equalsNode struct{}

func (equalsNode) Initialize(ctx context.Context, args *graph.Arguments) {
	equalsNode{}.Execute(ctx, args)
}

func (equalsNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[string](args, 0)
	b := graph.InputAs[string](args, 1)
	v := cty.False
	if a == b {
		v = cty.True
	}
	args.SetOutput(0, v)
}

// concatNode joins its two string inputs.
type concatNode struct {
	graph.NopBehavior
}

func (concatNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[string](args, 0)
	b := graph.InputAs[string](args, 1)
	args.SetOutput(0, cty.StringVal(a+b))
}

// fromNumberNode formats its number input as a string.
type fromNumberNode struct {
	graph.NopBehavior
}

func (fromNumberNode) Execute(_ context.Context, args *graph.Arguments) {
	n := graph.InputAs[float64](args, 0)
	args.SetOutput(0, cty.StringVal(strconv.FormatFloat(n, 'g', -1, 64)))
}

// Register registers the "string" module.
func Register(types *graph.TypeRegistry, reg *registry.Registry) error {
	number := types.MustGet("number")
	str := types.MustGet("string")
	boolean := types.MustGet("bool")

	m, err := reg.RegisterModule("string")
	if err != nil {
		return err
	}

	if _, err := m.RegisterNode("equals", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(str)
			s.AddInput(str)
			s.AddOutput(boolean)
		},
		New: func() graph.Behavior { return equalsNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("concat", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(str)
			s.AddInput(str)
			s.AddOutput(str)
		},
		New: func() graph.Behavior { return concatNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("from_number", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(number)
			s.AddOutput(str)
		},
		New: func() graph.Behavior { return fromNumberNode{} },
	}); err != nil {
		return err
	}

	return nil
}
