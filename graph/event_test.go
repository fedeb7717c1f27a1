package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenerForTest(event EventID) *Listener {
	return &Listener{instance: &Instance{generation: 5}, event: event}
}

func TestBroadcasterRegisterIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	l := listenerForTest("tick")

	b.Register(l)
	b.Register(l)

	assert.Len(t, b.lists["tick"], 1)
	assert.Same(t, b, l.owner)
}

func TestBroadcasterRegisterMovesListener(t *testing.T) {
	first := NewBroadcaster()
	second := NewBroadcaster()
	l := listenerForTest("tick")

	first.Register(l)
	second.Register(l)

	assert.Empty(t, first.lists["tick"])
	require.Len(t, second.lists["tick"], 1)
	assert.Same(t, second, l.owner)
}

func TestBroadcastStampsAtOwningInstanceGeneration(t *testing.T) {
	b := NewBroadcaster()
	l := listenerForTest("tick")
	b.Register(l)

	b.Broadcast("tick")
	assert.Equal(t, Generation(5), l.stamp)

	// Distinct instances stamp at their own counters.
	other := &Listener{instance: &Instance{generation: 9}, event: "tick"}
	b.Register(other)
	b.Broadcast("tick")
	assert.Equal(t, Generation(9), other.stamp)
}

func TestBroadcastUnknownEventIsNoop(t *testing.T) {
	b := NewBroadcaster()
	assert.NotPanics(t, func() { b.Broadcast("nobody-home") })
}

func TestBroadcasterRemoveClearsOwner(t *testing.T) {
	b := NewBroadcaster()
	l := listenerForTest("tick")
	b.Register(l)

	b.remove(l)
	assert.Nil(t, l.owner)
	assert.Empty(t, b.lists["tick"])

	// Re-registration after removal works.
	b.Register(l)
	assert.Len(t, b.lists["tick"], 1)
}
