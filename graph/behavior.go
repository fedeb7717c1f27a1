package graph

import "context"

// Behavior is the executable part of a node. One behavior object is
// constructed per Node when the node is added to its graph, and that same
// object is shared by every Instance of the graph. Mutable fields on a behavior are
// therefore visible across instances; per-instance state belongs in output
// edges.
type Behavior interface {
	// Initialize runs once per instance, in evaluation order, when the
	// instance is initialized.
	Initialize(ctx context.Context, args *Arguments)

	// Execute runs on every evaluation in which the node is dirty.
	Execute(ctx context.Context, args *Arguments)
}

// NopBehavior is an embeddable Behavior with no-op lifecycle methods.
type NopBehavior struct{}

func (NopBehavior) Initialize(context.Context, *Arguments) {}
func (NopBehavior) Execute(context.Context, *Arguments)    {}
