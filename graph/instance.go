package graph

import (
	"context"

	"github.com/vk/eventgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Generation is a monotonically increasing evaluation counter. A stamp
// equal to an instance's current generation means "changed this
// evaluation"; anything older is clean.
type Generation uint64

// Instance is one executable realization of a finalized Graph. It owns the
// live output values, the change stamps and the listener objects for its
// run of the graph; the topology, default values and layout stay on the
// Graph and are shared. An Instance is single-threaded: Initialize,
// Execute, Broadcast on its listeners and Close must be serialized by the
// caller.
type Instance struct {
	graph *Graph

	values    []cty.Value
	stamps    []Generation
	listeners []*Listener

	generation Generation
	closed     bool
}

// NewInstance creates an uninitialized instance.
func NewInstance() *Instance {
	return &Instance{}
}

// Initialized reports whether Initialize has run.
func (in *Instance) Initialized() bool { return in.graph != nil }

// Generation returns the instance's current generation counter.
func (in *Instance) Generation() Generation { return in.generation }

// Initialize binds the instance to a finalized graph, constructs its value
// and listener storage, runs every node's one-time setup in evaluation
// order, and advances the generation so that values written during setup
// are not mistaken for changes on the first Execute. Initializing twice,
// or initializing with an unfinalized graph, is a fatal precondition
// violation.
func (in *Instance) Initialize(ctx context.Context, g *Graph) {
	logger := ctxlog.FromContext(ctx)
	if in.graph != nil {
		fatalf(logger, "instance of graph %q initialized twice", in.graph.name)
	}
	if !g.finalized {
		fatalf(logger, "graph %q must be finalized before instantiation", g.name)
	}
	in.graph = g
	in.stamps = make([]Generation, g.stampSlots)
	in.values = make([]cty.Value, g.valueSlots)
	in.listeners = make([]*Listener, g.listenerSlots)

	// Construct the connected output values and the listener objects.
	for i := range g.nodes {
		node := &g.nodes[i]
		for j := range node.outputs {
			edge := &node.outputs[j]
			if edge.connected && edge.valueSlot != invalidSlot {
				in.values[edge.valueSlot] = node.OutputType(j).Default()
			}
		}
		for k, slot := range node.listenerSlots {
			in.listeners[slot] = &Listener{
				instance: in,
				event:    node.signature.listeners[k],
			}
		}
	}

	for _, index := range g.order {
		node := &g.nodes[index]
		args := newArguments(node, g, in, logger)
		node.behavior.Initialize(ctx, args)
	}
	in.generation++
}

// Execute runs one evaluation pass. Nodes run in the precomputed
// topological order; a node runs only if it is dirty, meaning its own
// stamp, one of its listener stamps, or the stamp of a connected upstream
// output equals the current generation. Because every dirty test compares
// against the same not-yet-advanced counter and producers run before their
// consumers, a change made during this call cascades to the end of the
// order in this same call. The generation advances after the pass.
func (in *Instance) Execute(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if in.graph == nil {
		fatalf(logger, "instance executed before Initialize")
	}
	if in.closed {
		fatalf(logger, "instance of graph %q executed after Close", in.graph.name)
	}
	for _, index := range in.graph.order {
		node := &in.graph.nodes[index]
		if in.isDirty(node) {
			args := newArguments(node, in.graph, in, logger)
			node.behavior.Execute(ctx, args)
		}
	}
	in.generation++
}

// isDirty reports whether the node changed this generation: stamped
// directly, stamped through a listener, or fed by an output that was
// stamped this generation.
func (in *Instance) isDirty(node *Node) bool {
	if in.stamps[node.stampSlot] == in.generation {
		return true
	}
	for _, slot := range node.listenerSlots {
		if in.listeners[slot].stamp == in.generation {
			return true
		}
	}
	for i := range node.inputs {
		edge := &node.inputs[i]
		if !edge.connected {
			continue
		}
		target := &in.graph.nodes[edge.target.nodeIndex].outputs[edge.target.edgeIndex]
		if in.stamps[target.stampSlot] == in.generation {
			return true
		}
	}
	return false
}

// MarkDirty stamps a node directly so it runs on the next Execute. This is
// the edge-free analog of an upstream write, used by hosts that mutate
// node behavior state out of band.
func (in *Instance) MarkDirty(nodeIndex int) {
	node := &in.graph.nodes[nodeIndex]
	in.stamps[node.stampSlot] = in.generation
}

// Close unregisters the instance's listeners from any broadcaster they
// were bound to and retires the instance. Execute after Close panics.
func (in *Instance) Close() {
	for _, l := range in.listeners {
		if l != nil && l.owner != nil {
			l.owner.remove(l)
		}
	}
	in.closed = true
}
