// Package mathops provides the "math" module: arithmetic and comparison
// nodes over numbers. Comparisons and arithmetic compute during instance
// setup as well as on every dirty evaluation, so downstream defaults are
// populated before the first tick.
package mathops

import (
	"context"
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/registry"
)

// arithmeticNode computes op(A, B) into its number output.
type arithmeticNode struct {
	op func(a, b float64) float64
}

func (n *arithmeticNode) Initialize(ctx context.Context, args *graph.Arguments) {
	n.Execute(ctx, args)
}

func (n *arithmeticNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[float64](args, 0)
	b := graph.InputAs[float64](args, 1)
	args.SetOutput(0, cty.NumberFloatVal(n.op(a, b)))
}

// comparisonNode computes op(A, B) into its bool output.
type comparisonNode struct {
	op func(a, b float64) bool
}

func (n *comparisonNode) Initialize(ctx context.Context, args *graph.Arguments) {
	n.Execute(ctx, args)
}

func (n *comparisonNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[float64](args, 0)
	b := graph.InputAs[float64](args, 1)
	v := cty.False
	if n.op(a, b) {
		v = cty.True
	}
	args.SetOutput(0, v)
}

// Register registers the "math" module.
func Register(types *graph.TypeRegistry, reg *registry.Registry) error {
	number := types.MustGet("number")
	boolean := types.MustGet("bool")

	m, err := reg.RegisterModule("math")
	if err != nil {
		return err
	}

	arithmetic := map[string]func(a, b float64) float64{
		"add":      func(a, b float64) float64 { return a + b },
		"subtract": func(a, b float64) float64 { return a - b },
		"multiply": func(a, b float64) float64 { return a * b },
		"divide":   func(a, b float64) float64 { return a / b },
		"min":      math.Min,
		"max":      math.Max,
	}
	for name, op := range arithmetic {
		op := op
		def := &registry.NodeDef{
			Declare: func(s *graph.Signature) {
				s.AddInput(number)
				s.AddInput(number)
				s.AddOutput(number)
			},
			New: func() graph.Behavior { return &arithmeticNode{op: op} },
		}
		if _, err := m.RegisterNode(name, def); err != nil {
			return err
		}
	}

	comparisons := map[string]func(a, b float64) bool{
		"equals":                 func(a, b float64) bool { return a == b },
		"not_equals":             func(a, b float64) bool { return a != b },
		"greater_than":           func(a, b float64) bool { return a > b },
		"greater_than_or_equals": func(a, b float64) bool { return a >= b },
		"less_than":              func(a, b float64) bool { return a < b },
		"less_than_or_equals":    func(a, b float64) bool { return a <= b },
	}
	for name, op := range comparisons {
		op := op
		def := &registry.NodeDef{
			Declare: func(s *graph.Signature) {
				s.AddInput(number)
				s.AddInput(number)
				s.AddOutput(boolean)
			},
			New: func() graph.Behavior { return &comparisonNode{op: op} },
		}
		if _, err := m.RegisterNode(name, def); err != nil {
			return err
		}
	}

	return nil
}
