// Package registry maps module and node names to their signatures, so
// loaders can resolve the node kinds named in a serialized graph document.
package registry

import (
	"fmt"

	"github.com/vk/eventgraph/graph"
)

// NodeDef describes how one node kind is registered: Declare populates the
// signature with its edges and listeners, New builds the behavior object
// (once per graph node), and Close optionally tears it down when the
// owning graph is closed.
type NodeDef struct {
	Declare func(*graph.Signature)
	New     graph.Constructor
	Close   graph.Destructor
}

// Registry holds every registered module for one application instance.
type Registry struct {
	modules map[string]*Module
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// RegisterModule creates and returns a module with the given name. A
// second registration under the same name is an error.
func (r *Registry) RegisterModule(name string) (*Module, error) {
	if _, exists := r.modules[name]; exists {
		return nil, fmt.Errorf("registry: module %q already registered", name)
	}
	m := &Module{name: name, signatures: make(map[string]*graph.Signature)}
	r.modules[name] = m
	return m, nil
}

// Module returns the module registered under name.
func (r *Registry) Module(name string) (*Module, error) {
	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("registry: module %q is not registered", name)
	}
	return m, nil
}

// Signature resolves a module/node pair in one step.
func (r *Registry) Signature(moduleName, nodeName string) (*graph.Signature, error) {
	m, err := r.Module(moduleName)
	if err != nil {
		return nil, err
	}
	return m.Signature(nodeName)
}

// Module is a named collection of node signatures.
type Module struct {
	name       string
	signatures map[string]*graph.Signature
}

// Name returns the module's registered name.
func (m *Module) Name() string { return m.name }

// RegisterNode registers a node kind under the given name and returns its
// signature. Registering the same name twice is an error.
func (m *Module) RegisterNode(name string, def *NodeDef) (*graph.Signature, error) {
	if _, exists := m.signatures[name]; exists {
		return nil, fmt.Errorf("registry: node %q already registered in module %q", name, m.name)
	}
	if def.New == nil {
		return nil, fmt.Errorf("registry: node %q in module %q has no behavior factory", name, m.name)
	}
	sig := graph.NewSignature(m.name, name, def.New, def.Close)
	if def.Declare != nil {
		def.Declare(sig)
	}
	m.signatures[name] = sig
	return sig, nil
}

// Signature returns the signature registered under name.
func (m *Module) Signature(name string) (*graph.Signature, error) {
	sig, ok := m.signatures[name]
	if !ok {
		return nil, fmt.Errorf("registry: node %q is not registered in module %q", name, m.name)
	}
	return sig, nil
}
