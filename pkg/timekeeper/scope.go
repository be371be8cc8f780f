package timekeeper

// Timer is anything backed by a StopWatch. Both *StopWatch and *Node are
// Timers.
type Timer interface {
	Watch() *StopWatch
}

// Scope times a region of code. If the stopwatch is already running when
// the scope starts, the scope does nothing at all; an enclosing scope over
// the same stopwatch owns the interval. This lets a timed function call
// itself recursively.
//
//	s := timekeeper.Start(node)
//	defer s.Stop()
type Scope struct {
	watch      *StopWatch
	shouldStop bool
}

// Start opens a scope over t
func Start(t Timer) *Scope {
	w := t.Watch()
	s := &Scope{watch: w}
	if !w.Running() {
		s.shouldStop = true
		w.Resume()
	}
	return s
}

// Stop closes the scope. Only the first call on a scope that resumed the
// stopwatch stops it; later calls are no-ops.
func (s *Scope) Stop() {
	if !s.shouldStop {
		return
	}
	s.shouldStop = false
	s.watch.Stop()
}

// Owner reports whether this scope resumed the stopwatch and will stop it
func (s *Scope) Owner() bool { return s.shouldStop }

// Time starts a scope and returns its Stop, for
//
//	defer timekeeper.Time(node)()
func Time(t Timer) func() {
	return Start(t).Stop
}

// Do runs fn inside a scope over t. The stopwatch is stopped however fn
// exits, including by panic.
func Do(t Timer, fn func() error) error {
	s := Start(t)
	defer s.Stop()
	return fn()
}
