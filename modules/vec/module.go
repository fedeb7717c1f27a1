// Package vec provides the "vec" module: a three-component vector type
// and arithmetic over it.
package vec

import (
	"context"
	"math"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/registry"
)

// Vec3 is the Go view of the "vec3" edge type.
type Vec3 struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
	Z float64 `cty:"z"`
}

// CtyType is the declared value type of "vec3" edges.
var CtyType = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
	"z": cty.Number,
})

// Val converts a Vec3 into its edge value.
func Val(v Vec3) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberFloatVal(v.X),
		"y": cty.NumberFloatVal(v.Y),
		"z": cty.NumberFloatVal(v.Z),
	})
}

// binaryVecNode computes op(A, B) into its vec3 output.
type binaryVecNode struct {
	op func(a, b Vec3) Vec3
}

func (n *binaryVecNode) Initialize(ctx context.Context, args *graph.Arguments) {
	n.Execute(ctx, args)
}

func (n *binaryVecNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[Vec3](args, 0)
	b := graph.InputAs[Vec3](args, 1)
	args.SetOutput(0, Val(n.op(a, b)))
}

// makeNode assembles a vec3 from three numbers.
type makeNode struct {
	graph.NopBehavior
}

func (makeNode) Execute(_ context.Context, args *graph.Arguments) {
	args.SetOutput(0, Val(Vec3{
		X: graph.InputAs[float64](args, 0),
		Y: graph.InputAs[float64](args, 1),
		Z: graph.InputAs[float64](args, 2),
	}))
}

// scaleNode multiplies a vec3 by a number.
type scaleNode struct {
	graph.NopBehavior
}

func (scaleNode) Execute(_ context.Context, args *graph.Arguments) {
	v := graph.InputAs[Vec3](args, 0)
	s := graph.InputAs[float64](args, 1)
	args.SetOutput(0, Val(Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}))
}

// lengthNode computes the euclidean length of a vec3.
type lengthNode struct {
	graph.NopBehavior
}

func (lengthNode) Execute(_ context.Context, args *graph.Arguments) {
	v := graph.InputAs[Vec3](args, 0)
	args.SetOutput(0, cty.NumberFloatVal(math.Sqrt(v.X*v.X+v.Y*v.Y+v.Z*v.Z)))
}

// lerpNode interpolates between two vec3 inputs by a number in [0, 1].
type lerpNode struct {
	graph.NopBehavior
}

func (lerpNode) Execute(_ context.Context, args *graph.Arguments) {
	a := graph.InputAs[Vec3](args, 0)
	b := graph.InputAs[Vec3](args, 1)
	t := graph.InputAs[float64](args, 2)
	args.SetOutput(0, Val(Vec3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}))
}

// Register registers the "vec3" type and the "vec" module.
func Register(types *graph.TypeRegistry, reg *registry.Registry) error {
	number := types.MustGet("number")
	vec3 := types.RegisterWithDefault("vec3", CtyType, func() cty.Value {
		return Val(Vec3{})
	})

	m, err := reg.RegisterModule("vec")
	if err != nil {
		return err
	}

	binary := map[string]func(a, b Vec3) Vec3{
		"add":      func(a, b Vec3) Vec3 { return Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} },
		"subtract": func(a, b Vec3) Vec3 { return Vec3{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} },
	}
	for name, op := range binary {
		op := op
		def := &registry.NodeDef{
			Declare: func(s *graph.Signature) {
				s.AddInput(vec3)
				s.AddInput(vec3)
				s.AddOutput(vec3)
			},
			New: func() graph.Behavior { return &binaryVecNode{op: op} },
		}
		if _, err := m.RegisterNode(name, def); err != nil {
			return err
		}
	}

	if _, err := m.RegisterNode("make", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(number)
			s.AddInput(number)
			s.AddInput(number)
			s.AddOutput(vec3)
		},
		New: func() graph.Behavior { return makeNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("scale", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(vec3)
			s.AddInput(number)
			s.AddOutput(vec3)
		},
		New: func() graph.Behavior { return scaleNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("length", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(vec3)
			s.AddOutput(number)
		},
		New: func() graph.Behavior { return lengthNode{} },
	}); err != nil {
		return err
	}

	if _, err := m.RegisterNode("lerp", &registry.NodeDef{
		Declare: func(s *graph.Signature) {
			s.AddInput(vec3)
			s.AddInput(vec3)
			s.AddInput(number)
			s.AddOutput(vec3)
		},
		New: func() graph.Behavior { return lerpNode{} },
	}); err != nil {
		return err
	}

	return nil
}
