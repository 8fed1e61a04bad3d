// Package frame provides the per-frame callback scheduler that drives the
// visual subsystems, plus scoped teardown helpers.
package frame

// Callback runs once per frame with the frame delta in seconds.
type Callback func(dt float64)

// Handle identifies a registered callback.
type Handle uint64

// Scheduler registers per-frame callbacks.
type Scheduler interface {
	Register(cb Callback) Handle
	Cancel(h Handle)
}

type entry struct {
	id Handle
	cb Callback
}

// Loop is a single-threaded Scheduler. Callbacks run in registration order
// on each Tick; a callback cancelled during a Tick does not run afterwards
// in that Tick.
type Loop struct {
	entries []*entry
	nextID  Handle
	frames  uint64
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Register adds cb and returns its handle.
func (l *Loop) Register(cb Callback) Handle {
	l.nextID++
	l.entries = append(l.entries, &entry{id: l.nextID, cb: cb})
	return l.nextID
}

// Cancel removes the callback with handle h. Unknown handles are ignored.
func (l *Loop) Cancel(h Handle) {
	for i, e := range l.entries {
		if e.id == h {
			e.cb = nil
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

// Tick runs every live callback once.
func (l *Loop) Tick(dt float64) {
	l.frames++
	snapshot := make([]*entry, len(l.entries))
	copy(snapshot, l.entries)
	for _, e := range snapshot {
		if e.cb != nil {
			e.cb(dt)
		}
	}
}

// Len returns the number of live callbacks.
func (l *Loop) Len() int { return len(l.entries) }

// Frames returns the number of ticks run.
func (l *Loop) Frames() uint64 { return l.frames }
