package graph

import (
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Arguments is the view a behavior gets of its node during one invocation:
// typed reads of the input edges, typed writes to the output edges, dirty
// tests, and listener binding. Reads resolve through the producing
// instance's slots when the input is connected, and through the graph's
// shared default buffer when it is not. The view is stamped at the
// generation the evaluation pass is running under.
type Arguments struct {
	node   *Node
	graph  *Graph
	inst   *Instance
	gen    Generation
	logger *slog.Logger
}

func newArguments(node *Node, g *Graph, inst *Instance, logger *slog.Logger) *Arguments {
	return &Arguments{node: node, graph: g, inst: inst, gen: inst.generation, logger: logger}
}

// fatalf reports a violation of the graph's static contract. The contract
// was broken when the graph was constructed, so there is nothing sensible
// to continue with.
func fatalf(logger *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error(msg)
	panic("graph: " + msg)
}

// Input returns the current value of input edge index. Signal inputs carry
// no value and cannot be read; use InputDirty to observe them.
func (a *Arguments) Input(index int) cty.Value {
	t := a.inputType(index)
	if t.IsSignal() {
		fatalf(a.logger, "node %s/%s: input %d is a signal and carries no value",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	edge := &a.node.inputs[index]
	if edge.connected {
		target := &a.graph.nodes[edge.target.nodeIndex].outputs[edge.target.edgeIndex]
		return a.inst.values[target.valueSlot]
	}
	return a.graph.defaultValue(edge.defaultSlot)
}

// InputAs reads input edge index converted to a Go value of type T. A
// value that does not fit T means the behavior disagrees with its declared
// signature, which is fatal.
func InputAs[T any](a *Arguments, index int) T {
	v := a.Input(index)
	var out T
	if err := gocty.FromCtyValue(v, &out); err != nil {
		fatalf(a.logger, "node %s/%s: input %d: %v",
			a.node.signature.moduleName, a.node.signature.nodeName, index, err)
	}
	return out
}

// SetOutput writes value to output edge index and stamps it at the current
// generation. Writes to outputs no input targets are silently discarded.
// The value's type must equal the edge's declared type.
func (a *Arguments) SetOutput(index int, value cty.Value) {
	t := a.outputType(index)
	if t.IsSignal() {
		fatalf(a.logger, "node %s/%s: output %d is a signal, use Signal",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	if !value.Type().Equals(t.CtyType()) {
		fatalf(a.logger, "node %s/%s: output %d declared %q, got %s",
			a.node.signature.moduleName, a.node.signature.nodeName,
			index, t.Name(), value.Type().FriendlyName())
	}
	edge := &a.node.outputs[index]
	if !edge.connected {
		return
	}
	a.inst.stamps[edge.stampSlot] = a.gen
	a.inst.values[edge.valueSlot] = value
}

// Signal stamps signal output index without writing a value.
func (a *Arguments) Signal(index int) {
	t := a.outputType(index)
	if !t.IsSignal() {
		fatalf(a.logger, "node %s/%s: output %d carries a value, use SetOutput",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	edge := &a.node.outputs[index]
	if !edge.connected {
		return
	}
	a.inst.stamps[edge.stampSlot] = a.gen
}

// InputDirty reports whether the output feeding input edge index was
// stamped this generation. Disconnected inputs are never dirty.
func (a *Arguments) InputDirty(index int) bool {
	a.inputType(index)
	edge := &a.node.inputs[index]
	if !edge.connected {
		return false
	}
	target := &a.graph.nodes[edge.target.nodeIndex].outputs[edge.target.edgeIndex]
	return a.inst.stamps[target.stampSlot] == a.gen
}

// ListenerDirty reports whether listener index was stamped this
// generation.
func (a *Arguments) ListenerDirty(index int) bool {
	if index < 0 || index >= len(a.node.listenerSlots) {
		fatalf(a.logger, "node %s/%s: listener index %d out of range",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	return a.inst.listeners[a.node.listenerSlots[index]].stamp == a.gen
}

// BindListener registers the instance's listener index with the given
// broadcaster, so that broadcasting the listener's event marks this node
// dirty. Typically called from a behavior's Initialize.
func (a *Arguments) BindListener(index int, b *Broadcaster) {
	if index < 0 || index >= len(a.node.listenerSlots) {
		fatalf(a.logger, "node %s/%s: listener index %d out of range",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	b.Register(a.inst.listeners[a.node.listenerSlots[index]])
}

func (a *Arguments) inputType(index int) *Type {
	if index < 0 || index >= len(a.node.inputs) {
		fatalf(a.logger, "node %s/%s: input index %d out of range",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	return a.node.InputType(index)
}

func (a *Arguments) outputType(index int) *Type {
	if index < 0 || index >= len(a.node.outputs) {
		fatalf(a.logger, "node %s/%s: output index %d out of range",
			a.node.signature.moduleName, a.node.signature.nodeName, index)
	}
	return a.node.OutputType(index)
}
