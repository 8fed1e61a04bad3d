package input

import (
	"math"
	"testing"
)

func TestPointerMoveNormalizes(t *testing.T) {
	tr := NewTracker(DefaultTrackerParams())

	tr.PointerMove(0, 0, 800, 600)
	if tr.Target.X != -1 || tr.Target.Y != 1 {
		t.Errorf("top-left: expected (-1, 1), got (%v, %v)", tr.Target.X, tr.Target.Y)
	}

	tr.PointerMove(400, 300, 800, 600)
	if tr.Target.X != 0 || tr.Target.Y != 0 {
		t.Errorf("centre: expected (0, 0), got (%v, %v)", tr.Target.X, tr.Target.Y)
	}

	tr.PointerMove(2000, -50, 800, 600)
	if tr.Target.X != 1 || tr.Target.Y != 1 {
		t.Errorf("outside: expected clamp to (1, 1), got (%v, %v)", tr.Target.X, tr.Target.Y)
	}
}

func TestPointerMoveZeroViewportIgnored(t *testing.T) {
	tr := NewTracker(DefaultTrackerParams())
	tr.Target = Vec2{0.3, 0.3}
	tr.PointerMove(10, 10, 0, 600)
	if tr.Target != (Vec2{0.3, 0.3}) {
		t.Errorf("expected target unchanged, got %v", tr.Target)
	}
}

func TestOrientationClamps(t *testing.T) {
	tr := NewTracker(DefaultTrackerParams())

	tr.Orientation(15, 45)
	if tr.Target.X != 0.5 || tr.Target.Y != 0 {
		t.Errorf("expected (0.5, 0), got (%v, %v)", tr.Target.X, tr.Target.Y)
	}

	tr.Orientation(-90, 180)
	if tr.Target.X != -1 || tr.Target.Y != 1 {
		t.Errorf("expected clamp to (-1, 1), got (%v, %v)", tr.Target.X, tr.Target.Y)
	}
}

func TestSmoothingConvergesWithoutOvershoot(t *testing.T) {
	tr := NewTracker(DefaultTrackerParams())
	tr.SetTarget(Vec2{1, -0.5})

	prevX := tr.Current.X
	for i := 0; i < 500; i++ {
		tr.Update()
		if tr.Current.X > 1 || tr.Current.Y < -0.5 {
			t.Fatalf("step %d overshot: %v", i, tr.Current)
		}
		if tr.Current.X < prevX {
			t.Fatalf("step %d moved away from target: %v < %v", i, tr.Current.X, prevX)
		}
		prevX = tr.Current.X
	}
	if math.Abs(tr.Current.X-1) > 1e-6 || math.Abs(tr.Current.Y+0.5) > 1e-6 {
		t.Errorf("expected convergence to (1, -0.5), got %v", tr.Current)
	}
}

func TestLerpRespectsFactorBounds(t *testing.T) {
	if got := Lerp(2, 10, 0); got != 2 {
		t.Errorf("factor 0: expected 2, got %v", got)
	}
	if got := Lerp(2, 10, 1); got != 10 {
		t.Errorf("factor 1: expected 10, got %v", got)
	}
	if got := Smooth(Vec2{0, 0}, Vec2{4, -4}, 0.25); got != (Vec2{1, -1}) {
		t.Errorf("expected (1, -1), got %v", got)
	}
}

func TestSyntheticBounded(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Synthetic(float64(i)*0.1, 1)
		if math.Abs(v.X) > 1 || math.Abs(v.Y) > 0.5 {
			t.Fatalf("t=%v out of range: %v", float64(i)*0.1, v)
		}
	}
	if v := Synthetic(0, 1); v != (Vec2{}) {
		t.Errorf("expected zero at t=0, got %v", v)
	}
}

func TestClassifyDevice(t *testing.T) {
	cases := []struct {
		w     int
		touch bool
		want  DeviceClass
	}{
		{1280, false, DevicePointer},
		{768, false, DevicePointer},
		{767, false, DeviceTouch},
		{1920, true, DeviceTouch},
	}
	for _, c := range cases {
		if got := ClassifyDevice(c.w, 0, c.touch); got != c.want {
			t.Errorf("ClassifyDevice(%d, %v): expected %v, got %v", c.w, c.touch, c.want, got)
		}
	}
	if got := ClassifyDevice(900, 1024, false); got != DeviceTouch {
		t.Errorf("custom breakpoint: expected touch, got %v", got)
	}
}

func TestSelectSource(t *testing.T) {
	tests := []struct {
		device         DeviceClass
		hasOrientation bool
		want           TargetSource
	}{
		{DevicePointer, false, SourcePointer},
		{DevicePointer, true, SourcePointer},
		{DeviceTouch, false, SourceSynthetic},
		{DeviceTouch, true, SourceOrientation},
	}
	for _, tt := range tests {
		if got := SelectSource(tt.device, tt.hasOrientation); got != tt.want {
			t.Errorf("SelectSource(%v, %v): expected %v, got %v", tt.device, tt.hasOrientation, tt.want, got)
		}
	}
}

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(EventPointerMove, func(ev Event) { got = append(got, "a-move") })
	bus.Subscribe(EventPointerMove, func(ev Event) { got = append(got, "b-move") })
	bus.Subscribe(EventPointerClick, func(ev Event) { got = append(got, "click") })

	bus.Push(Event{Kind: EventPointerMove})
	bus.Push(Event{Kind: EventPointerClick})
	bus.Push(Event{Kind: EventPointerMove})

	if n := bus.Dispatch(); n != 3 {
		t.Errorf("expected 3 events dispatched, got %d", n)
	}

	want := []string{"a-move", "b-move", "click", "a-move", "b-move"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if bus.Pending() != 0 {
		t.Errorf("expected empty queue, got %d", bus.Pending())
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsub := bus.Subscribe(EventResize, func(Event) { calls++ })

	bus.Push(Event{Kind: EventResize})
	bus.Dispatch()
	unsub()
	unsub()
	bus.Push(Event{Kind: EventResize})
	bus.Dispatch()

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if n := bus.Subscribers(EventResize); n != 0 {
		t.Errorf("expected 0 subscribers, got %d", n)
	}
}

func TestBusUnsubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()
	var second func()
	secondCalls := 0

	bus.Subscribe(EventPointerClick, func(Event) { second() })
	second = bus.Subscribe(EventPointerClick, func(Event) { secondCalls++ })

	bus.Push(Event{Kind: EventPointerClick})
	bus.Dispatch()

	if secondCalls != 0 {
		t.Errorf("expected handler removed mid-dispatch to be skipped, got %d calls", secondCalls)
	}
}

func TestBusPushFromHandler(t *testing.T) {
	bus := NewBus()
	var order []EventKind
	bus.Subscribe(EventResize, func(ev Event) {
		order = append(order, ev.Kind)
		bus.Push(Event{Kind: EventPointerMove})
	})
	bus.Subscribe(EventPointerMove, func(ev Event) { order = append(order, ev.Kind) })

	bus.Push(Event{Kind: EventResize})
	bus.Dispatch()

	if len(order) != 2 || order[0] != EventResize || order[1] != EventPointerMove {
		t.Errorf("expected [resize pointer_move], got %v", order)
	}
}
