package input

import "sync"

// EventKind identifies a host input event.
type EventKind uint8

const (
	EventPointerMove EventKind = iota
	EventPointerClick
	EventOrientation
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointer_move"
	case EventPointerClick:
		return "pointer_click"
	case EventOrientation:
		return "orientation"
	case EventResize:
		return "resize"
	}
	return "unknown"
}

// Event is a host input event. Field use depends on Kind:
// pointer events use X/Y and the viewport W/H, orientation uses
// Gamma/Beta, resize uses W/H.
type Event struct {
	Kind  EventKind
	X, Y  float64
	W, H  int
	Gamma float64
	Beta  float64
}

// Handler receives dispatched events.
type Handler func(Event)

type subscription struct {
	kind   EventKind
	fn     Handler
	active bool
}

// Bus queues events and delivers them in arrival order when Dispatch runs.
// Push may be called from any goroutine; Subscribe and Dispatch belong to
// the frame thread.
type Bus struct {
	mu    sync.Mutex
	queue []Event

	handlers map[EventKind][]*subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventKind][]*subscription)}
}

// Subscribe registers fn for events of kind and returns a func that removes it.
// The returned func is safe to call more than once.
func (b *Bus) Subscribe(kind EventKind, fn Handler) (unsubscribe func()) {
	sub := &subscription{kind: kind, fn: fn, active: true}
	b.handlers[kind] = append(b.handlers[kind], sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		list := b.handlers[kind]
		kept := make([]*subscription, 0, len(list))
		for _, s := range list {
			if s != sub {
				kept = append(kept, s)
			}
		}
		b.handlers[kind] = kept
	}
}

// Push enqueues an event for the next Dispatch.
func (b *Bus) Push(ev Event) {
	b.mu.Lock()
	b.queue = append(b.queue, ev)
	b.mu.Unlock()
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Subscribers returns the number of live handlers for kind.
func (b *Bus) Subscribers(kind EventKind) int {
	return len(b.handlers[kind])
}

// Dispatch delivers every queued event, oldest first, to the handlers for
// its kind in registration order. Events pushed by handlers during Dispatch
// are delivered in the same call. Returns the number of events delivered.
func (b *Bus) Dispatch() int {
	n := 0
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.queue = b.queue[:0]
			b.mu.Unlock()
			return n
		}
		ev := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		for _, sub := range b.handlers[ev.Kind] {
			if sub.active {
				sub.fn(ev)
			}
		}
		n++
	}
}
