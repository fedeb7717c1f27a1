// Package modules bundles the stock node libraries: math, logic, string,
// debug and vec. Hosts embedding the engine with their own node kinds can
// register individual libraries instead of RegisterAll.
package modules

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/modules/debug"
	"github.com/vk/eventgraph/modules/logic"
	"github.com/vk/eventgraph/modules/mathops"
	"github.com/vk/eventgraph/modules/stringops"
	"github.com/vk/eventgraph/modules/vec"
	"github.com/vk/eventgraph/registry"
)

// RegisterTypes registers the builtin value kinds the stock modules edge
// their nodes with: "number", "string", "bool" and the valueless "signal".
// It must run exactly once per type registry.
func RegisterTypes(types *graph.TypeRegistry) {
	types.Register("number", cty.Number)
	types.Register("string", cty.String)
	types.Register("bool", cty.Bool)
	types.Register("signal", cty.NilType)
}

// RegisterAll registers the builtin types and every stock module.
func RegisterAll(types *graph.TypeRegistry, reg *registry.Registry) error {
	RegisterTypes(types)
	for _, register := range []func(*graph.TypeRegistry, *registry.Registry) error{
		mathops.Register,
		logic.Register,
		stringops.Register,
		debug.Register,
		vec.Register,
	} {
		if err := register(types, reg); err != nil {
			return err
		}
	}
	return nil
}
