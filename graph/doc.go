// Package graph implements an incrementally evaluated node graph.
//
// Hosts describe node kinds with a Signature (typed inputs, typed outputs,
// event listeners and a behavior factory), assemble nodes and edges into a
// Graph, and call FinalizeNodes exactly once. Finalize validates the wiring,
// computes a topological evaluation order and lays out the value slots that
// every Instance of the graph shares.
//
// An Instance holds the live output values for one run of the graph along
// with a generation counter. Execute walks the evaluation order and runs
// only the nodes whose own stamp, listener stamp or upstream output stamp
// matches the current generation, so a change made by a producer during the
// call is observed by every downstream consumer in the same call. The
// Broadcaster lets code outside the graph mark listener-bearing nodes dirty
// between evaluations.
package graph
