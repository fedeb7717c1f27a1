package graph

// invalidSlot marks a slot index that was never laid out.
const invalidSlot = -1

// OutputEdgeTarget names a specific output edge on a specific node by
// index. Nodes live in a growable slice until the graph is finalized, so
// edges refer to their producer by position rather than by pointer.
type OutputEdgeTarget struct {
	nodeIndex int
	edgeIndex int
}

// NodeIndex returns the producer node's position in the graph.
func (t OutputEdgeTarget) NodeIndex() int { return t.nodeIndex }

// EdgeIndex returns the output's position on the producer node.
func (t OutputEdgeTarget) EdgeIndex() int { return t.edgeIndex }

// InputEdge is one input of a node. It is either connected, in which case
// it names the producing output, or disconnected, in which case it refers
// to a slot in the graph's shared default-value buffer. An input is wired
// at most once, during construction.
type InputEdge struct {
	connected   bool
	target      OutputEdgeTarget
	defaultSlot int
}

// Connected reports whether the input is wired to a producer output.
func (e *InputEdge) Connected() bool { return e.connected }

// Target returns the producing output for a connected input.
func (e *InputEdge) Target() OutputEdgeTarget { return e.target }

// OutputEdge is one output of a node. An output is connected when at least
// one input targets it; finalize then assigns it a stamp slot and, for
// non-signal types, a value slot in the per-instance layout. Unconnected
// outputs consume no instance memory and writes to them are discarded.
type OutputEdge struct {
	connected bool
	stampSlot int
	valueSlot int
}

// Connected reports whether any input targets this output.
func (e *OutputEdge) Connected() bool { return e.connected }

// Node is one vertex of a graph: a signature reference, the behavior
// object built from it, the node's edges and the slot bookkeeping assigned
// during finalize. Nodes are identified by their position in the graph's
// node list, which is stable once the graph is finalized.
type Node struct {
	signature *Signature
	behavior  Behavior

	inputs  []InputEdge
	outputs []OutputEdge

	listenerSlots []int
	stampSlot     int

	// DFS bookkeeping for the topological sort.
	visiting bool
	inserted bool
}

func newNode(signature *Signature) Node {
	n := Node{
		signature: signature,
		behavior:  signature.construct(),
		inputs:    make([]InputEdge, len(signature.inputs)),
		outputs:   make([]OutputEdge, len(signature.outputs)),
		stampSlot: invalidSlot,
	}
	for i := range n.inputs {
		n.inputs[i].defaultSlot = invalidSlot
	}
	for i := range n.outputs {
		n.outputs[i].stampSlot = invalidSlot
		n.outputs[i].valueSlot = invalidSlot
	}
	return n
}

// Signature returns the node's signature.
func (n *Node) Signature() *Signature { return n.signature }

// Behavior returns the behavior object shared by all instances.
func (n *Node) Behavior() Behavior { return n.behavior }

// Inputs returns the node's input edges.
func (n *Node) Inputs() []InputEdge { return n.inputs }

// Outputs returns the node's output edges.
func (n *Node) Outputs() []OutputEdge { return n.outputs }

// InputType returns the declared type of input edge i.
func (n *Node) InputType(i int) *Type { return n.signature.inputs[i] }

// OutputType returns the declared type of output edge i.
func (n *Node) OutputType(i int) *Type { return n.signature.outputs[i] }
