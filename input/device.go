package input

// DeviceClass distinguishes hosts with a persistent pointer from touch hosts.
type DeviceClass uint8

const (
	DevicePointer DeviceClass = iota
	DeviceTouch
)

// DefaultTouchBreakpoint is the viewport width below which a host is
// treated as touch-class.
const DefaultTouchBreakpoint = 768

func (d DeviceClass) String() string {
	if d == DeviceTouch {
		return "touch"
	}
	return "pointer"
}

// ClassifyDevice returns DeviceTouch for touch hosts and for viewports
// narrower than breakpoint. A non-positive breakpoint uses the default.
func ClassifyDevice(viewW, breakpoint int, touch bool) DeviceClass {
	if breakpoint <= 0 {
		breakpoint = DefaultTouchBreakpoint
	}
	if touch || viewW < breakpoint {
		return DeviceTouch
	}
	return DevicePointer
}

// TargetSource names what drives the tracker target.
type TargetSource uint8

const (
	SourcePointer TargetSource = iota
	SourceOrientation
	SourceSynthetic
)

func (s TargetSource) String() string {
	switch s {
	case SourceOrientation:
		return "orientation"
	case SourceSynthetic:
		return "synthetic"
	default:
		return "pointer"
	}
}

// SelectSource picks the tracker target source for a device class. Touch
// hosts ignore the pointer: they follow orientation readings once any have
// arrived and the synthetic path until then.
func SelectSource(device DeviceClass, hasOrientation bool) TargetSource {
	if device != DeviceTouch {
		return SourcePointer
	}
	if hasOrientation {
		return SourceOrientation
	}
	return SourceSynthetic
}
