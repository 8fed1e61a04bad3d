package systems

import (
	"log/slog"

	"github.com/ams-law/goldsite/frame"
	"github.com/ams-law/goldsite/input"
)

// RippleLayer binds a field and its impulse mapper to host events and the
// frame scheduler. Everything acquired by Mount is released by Unmount.
type RippleLayer struct {
	Field    *RippleField
	Impulses *PointerImpulses

	// OnStep, if set, runs after every propagation step.
	OnStep func()

	viewW, viewH int
	scope        *frame.Scope
	steps        uint64
}

// NewRippleLayer creates an unmounted layer.
func NewRippleLayer(field *RippleField, impulses ImpulseParams) *RippleLayer {
	return &RippleLayer{
		Field:    field,
		Impulses: NewPointerImpulses(field, impulses),
	}
}

// Mount allocates the field for the viewport, subscribes to pointer and
// resize events, and registers the per-frame step. Mounting twice is a no-op.
func (l *RippleLayer) Mount(sched frame.Scheduler, bus *input.Bus, viewW, viewH int) {
	if l.scope != nil {
		return
	}
	l.scope = &frame.Scope{}
	l.resize(viewW, viewH)

	l.scope.Defer(bus.Subscribe(input.EventResize, func(ev input.Event) {
		l.resize(ev.W, ev.H)
	}))
	l.scope.Defer(bus.Subscribe(input.EventPointerMove, func(ev input.Event) {
		w, h := l.view(ev)
		l.Impulses.Move(ev.X, ev.Y, w, h)
	}))
	l.scope.Defer(bus.Subscribe(input.EventPointerClick, func(ev input.Event) {
		w, h := l.view(ev)
		l.Impulses.Click(ev.X, ev.Y, w, h)
	}))
	l.scope.Register(sched, func(float64) {
		l.Field.Step()
		l.steps++
		if l.OnStep != nil {
			l.OnStep()
		}
	})

	gw, gh := l.Field.Size()
	slog.Debug("ripple layer mounted", "view_w", viewW, "view_h", viewH, "grid_w", gw, "grid_h", gh)
}

// Unmount cancels the frame callback and removes every subscription.
func (l *RippleLayer) Unmount() {
	if l.scope == nil {
		return
	}
	l.scope.Close()
	l.scope = nil
	slog.Debug("ripple layer unmounted", "steps", l.steps)
}

// Mounted reports whether the layer is live.
func (l *RippleLayer) Mounted() bool { return l.scope != nil }

// Steps returns the number of propagation steps run.
func (l *RippleLayer) Steps() uint64 { return l.steps }

// Viewport returns the viewport size the field was last allocated for.
func (l *RippleLayer) Viewport() (int, int) { return l.viewW, l.viewH }

func (l *RippleLayer) resize(w, h int) {
	l.viewW, l.viewH = w, h
	l.Field.Resize(w, h)
}

func (l *RippleLayer) view(ev input.Event) (int, int) {
	if ev.W > 0 && ev.H > 0 {
		return ev.W, ev.H
	}
	return l.viewW, l.viewH
}
