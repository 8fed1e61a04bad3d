package frame

// Scope collects release funcs acquired by a mounted view and runs them all,
// last acquired first, on Close.
type Scope struct {
	releases []func()
	closed   bool
}

// Defer adds a release func. Adding to a closed scope releases immediately.
func (s *Scope) Defer(release func()) {
	if s.closed {
		release()
		return
	}
	s.releases = append(s.releases, release)
}

// Register schedules cb on sched and arranges for it to be cancelled on Close.
func (s *Scope) Register(sched Scheduler, cb Callback) Handle {
	h := sched.Register(cb)
	s.Defer(func() { sched.Cancel(h) })
	return h
}

// Close releases everything acquired so far. Safe to call more than once.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

// Closed reports whether Close has run.
func (s *Scope) Closed() bool { return s.closed }
