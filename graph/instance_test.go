package graph

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// emitBehavior writes a fixed number whenever it runs. With a broadcaster
// set it also binds its first listener slot during setup.
type emitBehavior struct {
	value       float64
	runs        int
	inits       int
	broadcaster *Broadcaster
}

func (b *emitBehavior) Initialize(_ context.Context, a *Arguments) {
	b.inits++
	if b.broadcaster != nil {
		a.BindListener(0, b.broadcaster)
	}
}

func (b *emitBehavior) Execute(_ context.Context, a *Arguments) {
	b.runs++
	a.SetOutput(0, cty.NumberFloatVal(b.value))
}

// accumulateBehavior sums its number input into behavior state and
// forwards the running total as a string.
type accumulateBehavior struct {
	total float64
}

func (b *accumulateBehavior) Initialize(context.Context, *Arguments) {}

func (b *accumulateBehavior) Execute(_ context.Context, a *Arguments) {
	b.total += InputAs[float64](a, 0)
	a.SetOutput(0, cty.StringVal(strconv.FormatFloat(b.total, 'g', -1, 64)))
}

// recordBehavior collects every string its input carries when it runs.
type recordBehavior struct {
	seen []string
}

func (b *recordBehavior) Initialize(context.Context, *Arguments) {}

func (b *recordBehavior) Execute(_ context.Context, a *Arguments) {
	b.seen = append(b.seen, InputAs[string](a, 0))
}

// traceBehavior appends its name to a shared log on setup and on every run.
type traceBehavior struct {
	name string
	log  *[]string
}

func (b *traceBehavior) Initialize(_ context.Context, _ *Arguments) {
	*b.log = append(*b.log, b.name+".init")
}

func (b *traceBehavior) Execute(_ context.Context, _ *Arguments) {
	*b.log = append(*b.log, b.name+".run")
}

// counterGraph is the canonical event chain: a listener-driven source
// emits 1, an accumulator sums it and stringifies the total, a recorder
// captures the totals it observes.
func counterGraph(t *testing.T, broadcaster *Broadcaster, event EventID) (*Graph, *emitBehavior, *accumulateBehavior, *recordBehavior) {
	t.Helper()
	number, str, _ := testTypes(t)

	emit := &emitBehavior{value: 1, broadcaster: broadcaster}
	acc := &accumulateBehavior{}
	rec := &recordBehavior{}

	emitSig := testSig("emit", func(s *Signature) {
		s.AddOutput(number)
		s.AddListener(event)
	}, func() Behavior { return emit })
	accSig := testSig("accumulate", func(s *Signature) {
		s.AddInput(number)
		s.AddOutput(str)
	}, func() Behavior { return acc })
	recSig := testSig("record", func(s *Signature) {
		s.AddInput(str)
	}, func() Behavior { return rec })

	g := NewGraph("counter")
	a := g.AddNode(emitSig)
	b := g.AddNode(accSig)
	c := g.AddNode(recSig)
	require.NoError(t, g.ConnectInput(b, 0, a, 0))
	require.NoError(t, g.ConnectInput(c, 0, b, 0))
	require.True(t, g.FinalizeNodes(context.Background()))
	return g, emit, acc, rec
}

func TestInitializeRunsEveryNodeInOrder(t *testing.T) {
	number, _, _ := testTypes(t)
	ctx := context.Background()

	var log []string
	source := &traceBehavior{name: "source", log: &log}
	sink := &traceBehavior{name: "sink", log: &log}

	sourceSig := testSig("source", func(s *Signature) { s.AddOutput(number) },
		func() Behavior { return source })
	sinkSig := testSig("sink", func(s *Signature) { s.AddInput(number) },
		func() Behavior { return sink })

	// Insert the consumer first so insertion order and evaluation order
	// disagree.
	g := NewGraph("order")
	b := g.AddNode(sinkSig)
	a := g.AddNode(sourceSig)
	require.NoError(t, g.ConnectInput(b, 0, a, 0))
	require.True(t, g.FinalizeNodes(ctx))

	inst := NewInstance()
	inst.Initialize(ctx, g)

	assert.Equal(t, []string{"source.init", "sink.init"}, log)
	assert.Equal(t, Generation(1), inst.Generation())
	assert.True(t, inst.Initialized())
}

func TestInstancePreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("execute before initialize", func(t *testing.T) {
		inst := NewInstance()
		assert.Panics(t, func() { inst.Execute(ctx) })
	})

	t.Run("initialize twice", func(t *testing.T) {
		g, _, _, _ := counterGraph(t, nil, "tick")
		inst := NewInstance()
		inst.Initialize(ctx, g)
		assert.Panics(t, func() { inst.Initialize(ctx, g) })
	})

	t.Run("initialize with an unfinalized graph", func(t *testing.T) {
		g := NewGraph("raw")
		inst := NewInstance()
		assert.Panics(t, func() { inst.Initialize(ctx, g) })
	})

	t.Run("execute after close", func(t *testing.T) {
		g, _, _, _ := counterGraph(t, nil, "tick")
		inst := NewInstance()
		inst.Initialize(ctx, g)
		inst.Close()
		assert.Panics(t, func() { inst.Execute(ctx) })
	})
}

func TestExecuteSkipsCleanNodes(t *testing.T) {
	ctx := context.Background()
	g, emit, _, rec := counterGraph(t, nil, "tick")

	inst := NewInstance()
	inst.Initialize(ctx, g)

	// Values written during setup were stamped at the pre-advance
	// generation, so nothing is dirty now.
	inst.Execute(ctx)
	inst.Execute(ctx)
	assert.Zero(t, emit.runs)
	assert.Empty(t, rec.seen)
}

func TestChangeCascadesInOnePass(t *testing.T) {
	ctx := context.Background()
	g, emit, acc, rec := counterGraph(t, nil, "tick")
	emitIndex := 0

	inst := NewInstance()
	inst.Initialize(ctx, g)

	inst.MarkDirty(emitIndex)
	inst.Execute(ctx)

	// One pass: the source ran, the accumulator saw the fresh value, the
	// recorder saw the fresh total.
	assert.Equal(t, 1, emit.runs)
	assert.Equal(t, float64(1), acc.total)
	assert.Equal(t, []string{"1"}, rec.seen)

	// The stamps from that pass are stale now; nothing reruns.
	inst.Execute(ctx)
	assert.Equal(t, 1, emit.runs)
	assert.Equal(t, []string{"1"}, rec.seen)
}

func TestUnconnectedOutputWriteIsDiscarded(t *testing.T) {
	number, _, _ := testTypes(t)
	ctx := context.Background()

	emit := &emitBehavior{value: 7}
	emitSig := testSig("emit", func(s *Signature) { s.AddOutput(number) },
		func() Behavior { return emit })

	g := NewGraph("loose")
	a := g.AddNode(emitSig)
	require.True(t, g.FinalizeNodes(ctx))

	inst := NewInstance()
	inst.Initialize(ctx, g)
	inst.MarkDirty(a)

	assert.NotPanics(t, func() { inst.Execute(ctx) })
	assert.Equal(t, 1, emit.runs)
	// An output nobody targeted got no storage at all.
	assert.Empty(t, inst.values)
}

func TestInstanceValuesAreIsolated(t *testing.T) {
	ctx := context.Background()
	g, emit, acc, rec := counterGraph(t, nil, "tick")

	first := NewInstance()
	first.Initialize(ctx, g)
	second := NewInstance()
	second.Initialize(ctx, g)

	emit.value = 10
	first.MarkDirty(0)
	first.Execute(ctx)
	require.Equal(t, []string{"10"}, rec.seen)

	// Forcing the accumulator on the second instance reads that
	// instance's own slot, which still holds the constructed default.
	second.MarkDirty(1)
	second.Execute(ctx)
	assert.Equal(t, []string{"10", "10"}, rec.seen)
	assert.Equal(t, float64(10), acc.total)
}

func TestBehaviorSharedAcrossInstances(t *testing.T) {
	// Behaviors are constructed once per node when the node is added, so
	// every instance of the graph drives the same objects. State a
	// behavior keeps on itself is therefore per graph, not per instance.
	ctx := context.Background()
	g, emit, acc, _ := counterGraph(t, nil, "tick")

	first := NewInstance()
	first.Initialize(ctx, g)
	second := NewInstance()
	second.Initialize(ctx, g)

	assert.Equal(t, 2, emit.inits)

	first.MarkDirty(0)
	first.Execute(ctx)
	second.MarkDirty(0)
	second.Execute(ctx)

	// The second instance's pass observes the first one's accumulation.
	assert.Equal(t, float64(2), acc.total)
}

func TestBroadcastStampsWithoutEvaluating(t *testing.T) {
	ctx := context.Background()
	broadcaster := NewBroadcaster()
	g, emit, _, rec := counterGraph(t, broadcaster, "tick")

	inst := NewInstance()
	inst.Initialize(ctx, g)

	broadcaster.Broadcast("tick")
	assert.Zero(t, emit.runs, "broadcast alone must not evaluate")

	inst.Execute(ctx)
	assert.Equal(t, 1, emit.runs)
	assert.Equal(t, []string{"1"}, rec.seen)
}

func TestBroadcastReachesOnlyItsListeners(t *testing.T) {
	number, _, _ := testTypes(t)
	ctx := context.Background()
	broadcaster := NewBroadcaster()

	left := &emitBehavior{value: 1, broadcaster: broadcaster}
	right := &emitBehavior{value: 2, broadcaster: broadcaster}

	leftSig := testSig("left", func(s *Signature) {
		s.AddOutput(number)
		s.AddListener("left")
	}, func() Behavior { return left })
	rightSig := testSig("right", func(s *Signature) {
		s.AddOutput(number)
		s.AddListener("right")
	}, func() Behavior { return right })

	g := NewGraph("routing")
	g.AddNode(leftSig)
	g.AddNode(rightSig)
	require.True(t, g.FinalizeNodes(ctx))

	inst := NewInstance()
	inst.Initialize(ctx, g)

	broadcaster.Broadcast("left")
	inst.Execute(ctx)
	assert.Equal(t, 1, left.runs)
	assert.Zero(t, right.runs)

	broadcaster.Broadcast("right")
	inst.Execute(ctx)
	assert.Equal(t, 1, left.runs)
	assert.Equal(t, 1, right.runs)
}

func TestCloseUnregistersListeners(t *testing.T) {
	ctx := context.Background()
	broadcaster := NewBroadcaster()
	g, _, _, _ := counterGraph(t, broadcaster, "tick")

	inst := NewInstance()
	inst.Initialize(ctx, g)
	require.Len(t, broadcaster.lists["tick"], 1)

	inst.Close()
	assert.Empty(t, broadcaster.lists["tick"])
}

func TestEventCounterLoop(t *testing.T) {
	ctx := context.Background()
	broadcaster := NewBroadcaster()
	g, emit, acc, rec := counterGraph(t, broadcaster, "tick")

	inst := NewInstance()
	inst.Initialize(ctx, g)

	const passes = 500
	for i := 0; i < passes; i++ {
		broadcaster.Broadcast("tick")
		inst.Execute(ctx)
	}

	assert.Equal(t, passes, emit.runs)
	assert.Equal(t, float64(passes), acc.total)

	want := make([]string, passes)
	for i := range want {
		want[i] = fmt.Sprintf("%d", i+1)
	}
	if diff := cmp.Diff(want, rec.seen); diff != "" {
		t.Errorf("recorded totals mismatch (-want +got):\n%s", diff)
	}
}
