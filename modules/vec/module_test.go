package vec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/eventgraph/graph"
	"github.com/vk/eventgraph/modules"
	"github.com/vk/eventgraph/modules/vec"
	"github.com/vk/eventgraph/registry"
)

// probe records the value on its single input whenever it runs.
type probe struct {
	graph.NopBehavior
	value cty.Value
}

func (p *probe) Execute(_ context.Context, a *graph.Arguments) {
	p.value = a.Input(0)
}

// evalNode drives one node of the "vec" module through a single forced
// evaluation with the given input defaults.
func evalNode(t *testing.T, node string, defaults ...cty.Value) cty.Value {
	t.Helper()
	ctx := context.Background()

	types := graph.NewTypeRegistry()
	reg := registry.New()
	require.NoError(t, modules.RegisterAll(types, reg))
	sig, err := reg.Signature("vec", node)
	require.NoError(t, err)

	p := &probe{}
	probeSig := graph.NewSignature("test", "probe", func() graph.Behavior { return p }, nil)
	probeSig.AddInput(sig.Outputs()[0])

	g := graph.NewGraph(node)
	n := g.AddNode(sig)
	pn := g.AddNode(probeSig)
	require.NoError(t, g.ConnectInput(pn, 0, n, 0))
	require.True(t, g.FinalizeNodes(ctx))
	for i, v := range defaults {
		g.SetDefault(ctx, n, i, v)
	}

	inst := graph.NewInstance()
	inst.Initialize(ctx, g)
	inst.MarkDirty(n)
	inst.Execute(ctx)
	return p.value
}

func asVec(t *testing.T, v cty.Value) vec.Vec3 {
	t.Helper()
	var out vec.Vec3
	require.NoError(t, gocty.FromCtyValue(v, &out))
	return out
}

func TestBinaryOps(t *testing.T) {
	a := vec.Val(vec.Vec3{X: 1, Y: 2, Z: 3})
	b := vec.Val(vec.Vec3{X: 4, Y: 5, Z: 6})

	assert.Equal(t, vec.Vec3{X: 5, Y: 7, Z: 9}, asVec(t, evalNode(t, "add", a, b)))
	assert.Equal(t, vec.Vec3{X: -3, Y: -3, Z: -3}, asVec(t, evalNode(t, "subtract", a, b)))
}

func TestMake(t *testing.T) {
	got := evalNode(t, "make",
		cty.NumberFloatVal(1), cty.NumberFloatVal(2), cty.NumberFloatVal(3))
	assert.Equal(t, vec.Vec3{X: 1, Y: 2, Z: 3}, asVec(t, got))
}

func TestScale(t *testing.T) {
	got := evalNode(t, "scale",
		vec.Val(vec.Vec3{X: 1, Y: -2, Z: 3}), cty.NumberFloatVal(2))
	assert.Equal(t, vec.Vec3{X: 2, Y: -4, Z: 6}, asVec(t, got))
}

func TestLength(t *testing.T) {
	got := evalNode(t, "length", vec.Val(vec.Vec3{X: 3, Y: 4, Z: 0}))
	f, _ := got.AsBigFloat().Float64()
	assert.Equal(t, float64(5), f)
}

func TestLerp(t *testing.T) {
	a := vec.Val(vec.Vec3{X: 0, Y: 0, Z: 0})
	b := vec.Val(vec.Vec3{X: 10, Y: 20, Z: -4})

	got := evalNode(t, "lerp", a, b, cty.NumberFloatVal(0.5))
	assert.Equal(t, vec.Vec3{X: 5, Y: 10, Z: -2}, asVec(t, got))

	got = evalNode(t, "lerp", a, b, cty.NumberFloatVal(0))
	assert.Equal(t, vec.Vec3{}, asVec(t, got))
}

func TestVec3TypeDefaultsToZeroVector(t *testing.T) {
	types := graph.NewTypeRegistry()
	reg := registry.New()
	require.NoError(t, modules.RegisterAll(types, reg))

	vt := types.MustGet("vec3")
	assert.Equal(t, vec.Vec3{}, asVec(t, vt.Default()))
}
