package main

import (
	"context"
	"strconv"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/internal/ctxlog"
	"github.com/vk/eventgraph/registry"
)

// TickEvent is the event the demo broadcasts to drive its graph.
const TickEvent graph.EventID = "sample/tick"

// captureEvent listens for TickEvent and emits 1 whenever it fires.
type captureEvent struct {
	graph.NopBehavior
	broadcaster *graph.Broadcaster
}

func (n *captureEvent) Initialize(_ context.Context, args *graph.Arguments) {
	args.BindListener(0, n.broadcaster)
}

func (n *captureEvent) Execute(_ context.Context, args *graph.Arguments) {
	args.SetOutput(0, cty.NumberIntVal(1))
}

// countEvent accumulates its input and emits the running total as a
// string. The count lives on the behavior object, so it is shared by
// every instance of the graph; the demo only ever creates one.
type countEvent struct {
	graph.NopBehavior
	count float64
}

func (n *countEvent) Execute(ctx context.Context, args *graph.Arguments) {
	n.count += graph.InputAs[float64](args, 0)
	args.SetOutput(0, cty.StringVal(strconv.FormatFloat(n.count, 'g', -1, 64)))
}

// printEvent logs its string input on every run.
type printEvent struct {
	graph.NopBehavior
}

func (printEvent) Execute(ctx context.Context, args *graph.Arguments) {
	ctxlog.FromContext(ctx).Info("event counter", "count", graph.InputAs[string](args, 0))
}

// registerSampleModule registers the "sample" module used by
// samples/event_counter.hcl.
func registerSampleModule(reg *registry.Registry, types *graph.TypeRegistry, b *graph.Broadcaster) error {
	number := types.MustGet("number")
	str := types.MustGet("string")

	m, err := reg.RegisterModule("sample")
	if err != nil {
		return err
	}

	if _, err := m.RegisterNode("capture_event", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddOutput(number)
			s.AddListener(TickEvent)
		},
		New: func() graph.Behavior { return &captureEvent{broadcaster: b} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("count_event", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(number)
			s.AddOutput(str)
		},
		New: func() graph.Behavior { return &countEvent{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("print_event", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(str)
		},
		New: func() graph.Behavior { return printEvent{} },
	}); err != nil {
		return err
	}

	return nil
}
