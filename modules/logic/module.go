// Package logic provides the "logic" module: boolean operators, branching
// on signal edges, and a signal-driven latch.
package logic

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/registry"
)

func boolVal(b bool) cty.Value {
	if b {
		return cty.True
	}
	return cty.False
}

// booleanNode computes op(A, B) into its bool output.
type booleanNode struct {
	op func(a, b bool) bool
}

func (n *booleanNode) Initialize(ctx context.Context, args *graph.Arguments) {
	n.Execute(ctx, args)
}

func (n *booleanNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[bool](args, 0)
	b := graph.InputAs[bool](args, 1)
	args.SetOutput(0, boolVal(n.op(a, b)))
}

// notNode inverts its bool input.
type notNode struct{}

func (notNode) Initialize(ctx context.Context, args *graph.Arguments) {
	notNode{}.Execute(ctx, args)
}

func (notNode) Execute(_ context.Context, args *graph.Arguments) {
	args.SetOutput(0, boolVal(!graph.InputAs[bool](args, 0)))
}

// ifNode pulses its "true" or "false" signal output depending on the
// condition, every time it runs.
type ifNode struct {
	graph.NopBehavior
}

func (ifNode) Execute(_ context.Context, args *graph.Arguments) {
	if graph.InputAs[bool](args, 0) {
		args.Signal(0)
	} else {
		args.Signal(1)
	}
}

// ifGateNode is ifNode behind a trigger: it only pulses when the trigger
// signal fired this evaluation.
type ifGateNode struct {
	graph.NopBehavior
}

func (ifGateNode) Execute(_ context.Context, args *graph.Arguments) {
	if !args.InputDirty(0) {
		return
	}
	if graph.InputAs[bool](args, 1) {
		args.Signal(0)
	} else {
		args.Signal(1)
	}
}

// stayLatchNode holds a boolean that a "true" signal sets and a "false"
// signal clears.
type stayLatchNode struct{}

func (stayLatchNode) Initialize(_ context.Context, args *graph.Arguments) {
	args.SetOutput(0, cty.False)
}

func (stayLatchNode) Execute(_ context.Context, args *graph.Arguments) {
	if args.InputDirty(0) {
		args.SetOutput(0, cty.True)
	} else if args.InputDirty(1) {
		args.SetOutput(0, cty.False)
	}
}

// Register registers the "logic" module.
func Register(types *graph.TypeRegistry, reg *registry.Registry) error {
	boolean := types.MustGet("bool")
	signal := types.MustGet("signal")

	m, err := reg.RegisterModule("logic")
	if err != nil {
		return err
	}

	operators := map[string]func(a, b bool) bool{
		"and": func(a, b bool) bool { return a && b },
		"or":  func(a, b bool) bool { return a || b },
		"xor": func(a, b bool) bool { return a != b },
	}
	for name, op := range operators {
		op := op
		def := &registry.NodeDef{
			Declare: func(s *graph.Signature) {
				s.AddInput(boolean)
				s.AddInput(boolean)
				s.AddOutput(boolean)
			},
			New: func() graph.Behavior { return &booleanNode{op: op} },
		}
		if _, err := m.RegisterNode(name, def); err != nil {
			return err
		}
	}

	if _, err := m.RegisterNode("not", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(boolean)
			s.AddOutput(boolean)
		},
		New: func() graph.Behavior { return notNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("if", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(boolean)
			s.AddOutput(signal)
			s.AddOutput(signal)
		},
		New: func() graph.Behavior { return ifNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("if_gate", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(signal)
			s.AddInput(boolean)
			s.AddOutput(signal)
			s.AddOutput(signal)
		},
		New: func() graph.Behavior { return ifGateNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("stay_latch", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(signal)
			s.AddInput(signal)
			s.AddOutput(boolean)
		},
		New: func() graph.Behavior { return stayLatchNode{} },
	}); err != nil {
		return err
	}

	return nil
}
