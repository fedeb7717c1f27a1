package graph

// EventID names an out-of-band event that listener-bearing nodes can
// subscribe to. Hosts declare ids as package-level constants; two
// subsystems that want distinct events must pick distinct names.
type EventID string

// Listener binds one event id to one node slot on one instance. It is
// created by Instance.Initialize and carries its own change stamp, which
// the dirty test reads alongside the node's edge stamps.
type Listener struct {
	instance *Instance
	event    EventID
	stamp    Generation

	// owner is the broadcaster whose list currently holds the listener,
	// nil while unregistered.
	owner *Broadcaster
}

// EventID returns the event the listener subscribes to.
func (l *Listener) EventID() EventID { return l.event }

// markDirty stamps the listener at its owning instance's current
// generation, so the next Execute on that instance sees the node as dirty.
func (l *Listener) markDirty() {
	l.stamp = l.instance.generation
}

// Broadcaster fans an event out to every listener registered for it.
// Broadcasting only stamps the listeners; no evaluation runs until the
// host calls Execute on the affected instances. The broadcaster does not
// own its listeners and must not be shared across goroutines with Execute
// without external serialization.
type Broadcaster struct {
	lists map[EventID][]*Listener
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{lists: make(map[EventID][]*Listener)}
}

// Register adds the listener to the list for its event id. A listener
// already on that list stays where it is; a listener registered elsewhere
// is moved here first. Registration is idempotent.
func (b *Broadcaster) Register(l *Listener) {
	if l.owner == b {
		for _, existing := range b.lists[l.event] {
			if existing == l {
				return
			}
		}
	}
	if l.owner != nil {
		l.owner.remove(l)
	}
	b.lists[l.event] = append(b.lists[l.event], l)
	l.owner = b
}

// Broadcast stamps every listener registered for the event at its owning
// instance's current generation. An event nobody listens for is a no-op.
func (b *Broadcaster) Broadcast(event EventID) {
	for _, l := range b.lists[event] {
		l.markDirty()
	}
}

// remove takes the listener out of its event list.
func (b *Broadcaster) remove(l *Listener) {
	list := b.lists[l.event]
	for i, existing := range list {
		if existing == l {
			b.lists[l.event] = append(list[:i], list[i+1:]...)
			break
		}
	}
	l.owner = nil
}
