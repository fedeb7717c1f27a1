package graph

import (
	"context"
	"fmt"

	"github.com/vk/eventgraph/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Graph is an ordered collection of nodes and the wiring between their
// edges. Construction happens in two phases: nodes are added and inputs
// connected, then FinalizeNodes is called exactly once. Finalize validates
// the wiring, lays out the shared default-value buffer and the per-instance
// slot layout, and computes the topological evaluation order. A finalized
// graph is immutable and may back any number of Instances concurrently.
type Graph struct {
	name  string
	nodes []Node

	// order holds node indices in dependency-first evaluation order.
	order []int

	// defaults holds one constructed value per disconnected non-signal
	// input, shared by every instance of the graph.
	defaults []cty.Value

	// Per-instance layout totals, computed at finalize.
	stampSlots    int
	valueSlots    int
	listenerSlots int

	finalized bool
}

// NewGraph creates an empty graph. The name is used in diagnostics only.
func NewGraph(name string) *Graph {
	return &Graph{name: name}
}

// Name returns the graph's diagnostic name.
func (g *Graph) Name() string { return g.name }

// Finalized reports whether FinalizeNodes has succeeded.
func (g *Graph) Finalized() bool { return g.finalized }

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []Node { return g.nodes }

// EvaluationOrder returns node indices in topological order. It is empty
// until FinalizeNodes succeeds.
func (g *Graph) EvaluationOrder() []int { return g.order }

// AddNode appends a node built from the given signature and returns its
// index. All of the node's inputs start out disconnected. Adding nodes to
// a finalized graph is a violation of the construction contract.
func (g *Graph) AddNode(signature *Signature) int {
	if g.finalized {
		panic("graph: AddNode called on a finalized graph")
	}
	g.nodes = append(g.nodes, newNode(signature))
	return len(g.nodes) - 1
}

// ConnectInput wires input edge inputIndex of node nodeIndex to output
// edge srcOutput of node srcNode. Inputs may be wired at most once, and
// only before the graph is finalized. Bad indices are reported as errors
// so loaders can reject malformed documents; type compatibility is checked
// later, during finalize.
func (g *Graph) ConnectInput(nodeIndex, inputIndex, srcNode, srcOutput int) error {
	if g.finalized {
		return fmt.Errorf("graph %q: cannot connect edges after finalize", g.name)
	}
	if nodeIndex < 0 || nodeIndex >= len(g.nodes) {
		return fmt.Errorf("graph %q: node index %d out of range", g.name, nodeIndex)
	}
	if srcNode < 0 || srcNode >= len(g.nodes) {
		return fmt.Errorf("graph %q: source node index %d out of range", g.name, srcNode)
	}
	node := &g.nodes[nodeIndex]
	if inputIndex < 0 || inputIndex >= len(node.inputs) {
		return fmt.Errorf("graph %q: node %d has %d inputs, no input %d",
			g.name, nodeIndex, len(node.inputs), inputIndex)
	}
	src := &g.nodes[srcNode]
	if srcOutput < 0 || srcOutput >= len(src.outputs) {
		return fmt.Errorf("graph %q: node %d has %d outputs, no output %d",
			g.name, srcNode, len(src.outputs), srcOutput)
	}
	edge := &node.inputs[inputIndex]
	if edge.connected {
		return fmt.Errorf("graph %q: input %d of node %d is already connected",
			g.name, inputIndex, nodeIndex)
	}
	edge.connected = true
	edge.target = OutputEdgeTarget{nodeIndex: srcNode, edgeIndex: srcOutput}
	return nil
}

// FinalizeNodes transitions the graph from mutable construction to its
// immutable, instantiable form. It marks targeted outputs as connected,
// lays out and constructs the shared default-value buffer, computes the
// per-instance slot layout, and topologically sorts the nodes while
// validating producer/consumer types. On a cycle or a type mismatch it
// logs the reason and returns false, leaving the graph unusable.
func (g *Graph) FinalizeNodes(ctx context.Context) bool {
	logger := ctxlog.FromContext(ctx)
	if g.finalized {
		logger.Error("graph already finalized", "graph", g.name)
		return false
	}

	// Mark every output that some input targets as connected, and lay out
	// a default slot for every input that stayed disconnected. Signal
	// inputs carry no value and get no slot.
	for i := range g.nodes {
		node := &g.nodes[i]
		for j := range node.inputs {
			edge := &node.inputs[j]
			if edge.connected {
				target := &g.nodes[edge.target.nodeIndex].outputs[edge.target.edgeIndex]
				target.connected = true
				continue
			}
			t := node.InputType(j)
			if t.IsSignal() {
				continue
			}
			edge.defaultSlot = len(g.defaults)
			g.defaults = append(g.defaults, t.Default())
		}
	}

	// Lay out the per-instance slots: a stamp per node, a stamp plus (for
	// non-signal types) a value per connected output, and a listener slot
	// per listener declaration. Every instance allocates this same shape.
	for i := range g.nodes {
		node := &g.nodes[i]
		node.stampSlot = g.stampSlots
		g.stampSlots++

		for j := range node.outputs {
			edge := &node.outputs[j]
			if !edge.connected {
				continue
			}
			edge.stampSlot = g.stampSlots
			g.stampSlots++
			if !node.OutputType(j).IsSignal() {
				edge.valueSlot = g.valueSlots
				g.valueSlots++
			}
		}

		for range node.signature.listeners {
			node.listenerSlots = append(node.listenerSlots, g.listenerSlots)
			g.listenerSlots++
		}
	}

	if !g.sortNodes(ctx) {
		return false
	}

	g.finalized = true
	logger.Debug("graph finalized",
		"graph", g.name,
		"nodes", len(g.nodes),
		"default_slots", len(g.defaults),
		"stamp_slots", g.stampSlots,
		"value_slots", g.valueSlots,
		"listener_slots", g.listenerSlots)
	return true
}

// sortNodes produces a dependency-first ordering of the node indices using
// a depth-first insertion. See
// https://en.wikipedia.org/wiki/Topological_sorting.
func (g *Graph) sortNodes(ctx context.Context) bool {
	g.order = make([]int, 0, len(g.nodes))
	for i := range g.nodes {
		if !g.insertNode(ctx, i) {
			g.order = nil
			return false
		}
	}
	return true
}

// insertNode recursively inserts the connected dependencies of node index
// before the node itself, validating type identity on every edge it
// follows. A dependency that is already on the recursion stack means the
// graph has a cycle.
func (g *Graph) insertNode(ctx context.Context, index int) bool {
	node := &g.nodes[index]
	if node.inserted {
		return true
	}
	node.visiting = true
	defer func() { node.visiting = false }()

	for i := range node.inputs {
		edge := &node.inputs[i]
		if !edge.connected {
			continue
		}
		depIndex := edge.target.nodeIndex
		dep := &g.nodes[depIndex]

		inputType := node.InputType(i)
		outputType := dep.OutputType(edge.target.edgeIndex)
		if inputType != outputType {
			ctxlog.FromContext(ctx).Error("type mismatch on edge",
				"graph", g.name,
				"node", index,
				"input", i,
				"input_type", inputType.Name(),
				"source_node", depIndex,
				"source_output", edge.target.edgeIndex,
				"output_type", outputType.Name())
			return false
		}
		if dep.visiting {
			ctxlog.FromContext(ctx).Error("circular dependency",
				"graph", g.name, "node", index, "dependency", depIndex)
			return false
		}
		if !dep.inserted {
			if !g.insertNode(ctx, depIndex) {
				return false
			}
		}
	}

	node.inserted = true
	g.order = append(g.order, index)
	return true
}

// SetDefault assigns a default value to a disconnected input edge after
// the graph has been finalized. Violations (unfinalized graph, bad index,
// connected input, type mismatch) are logged and ignored; SetDefault never
// fails loudly because graph documents routinely carry stale defaults.
func (g *Graph) SetDefault(ctx context.Context, nodeIndex, inputIndex int, value cty.Value) {
	logger := ctxlog.FromContext(ctx)
	if !g.finalized {
		logger.Error("SetDefault before finalize", "graph", g.name)
		return
	}
	if nodeIndex < 0 || nodeIndex >= len(g.nodes) {
		logger.Error("SetDefault node index out of range", "graph", g.name, "node", nodeIndex)
		return
	}
	node := &g.nodes[nodeIndex]
	if inputIndex < 0 || inputIndex >= len(node.inputs) {
		logger.Error("SetDefault input index out of range",
			"graph", g.name, "node", nodeIndex, "input", inputIndex)
		return
	}
	edge := &node.inputs[inputIndex]
	if edge.connected {
		logger.Error("SetDefault on a connected input",
			"graph", g.name, "node", nodeIndex, "input", inputIndex)
		return
	}
	t := node.InputType(inputIndex)
	if t.IsSignal() {
		logger.Error("SetDefault on a signal input",
			"graph", g.name, "node", nodeIndex, "input", inputIndex)
		return
	}
	if !value.Type().Equals(t.CtyType()) {
		logger.Error("SetDefault type mismatch",
			"graph", g.name,
			"node", nodeIndex,
			"input", inputIndex,
			"want", t.Name(),
			"got", value.Type().FriendlyName())
		return
	}
	g.defaults[edge.defaultSlot] = value
}

// defaultValue reads the shared default for a disconnected input slot.
func (g *Graph) defaultValue(slot int) cty.Value {
	return g.defaults[slot]
}

// Close releases every node's behavior object through its signature's
// destructor. Instances of the graph must be closed first.
func (g *Graph) Close() {
	for i := range g.nodes {
		node := &g.nodes[i]
		if node.signature.destruct != nil && node.behavior != nil {
			node.signature.destruct(node.behavior)
		}
		node.behavior = nil
	}
}
