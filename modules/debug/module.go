// Package debug provides the "debug" module: nodes that surface graph
// values through the process logger.
package debug

import (
	"context"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/internal/ctxlog"
	"github.com/vk/eventgraph/registry"
)

// printNode logs its string input when its trigger signal fires and
// forwards the string so the log tap can sit inline on an edge.
type printNode struct {
	graph.NopBehavior
}

func (printNode) Execute(ctx context.Context, args *graph.Arguments) {
	if !args.InputDirty(0) {
		return
	}
	s := graph.InputAs[string](args, 1)
	ctxlog.FromContext(ctx).Info("debug/print", "value", s)
	args.SetOutput(0, args.Input(1))
}

// Register registers the "debug" module.
func Register(types *graph.TypeRegistry, reg *registry.Registry) error {
	str := types.MustGet("string")
	signal := types.MustGet("signal")

	m, err := reg.RegisterModule("debug")
	if err != nil {
		return err
	}

	_, err = m.RegisterNode("print", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(signal)
			s.AddInput(str)
			s.AddOutput(str)
		},
		New: func() graph.Behavior { return printNode{} },
	})
	return err
}
