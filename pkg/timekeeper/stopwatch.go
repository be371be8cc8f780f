package timekeeper

// StopWatch accumulates elapsed time and the number of intervals between
// Resume/Stop calls. The zero value is an idle stopwatch on DefaultSource.
//
// A StopWatch is not safe for concurrent use.
type StopWatch struct {
	clock   Clock
	elapsed Duration
	running bool
	count   int // how often the stopwatch was resumed
}

// NewStopWatch returns an idle stopwatch reading from src
func NewStopWatch(src Source) *StopWatch {
	return &StopWatch{clock: NewClock(src)}
}

// Resume starts a new interval. Panics if already running.
func (w *StopWatch) Resume() {
	if w.running {
		panic(&ProtocolError{Op: "resume", Count: w.count, Err: ErrAlreadyRunning})
	}
	w.running = true
	w.clock.Start()
	w.count++
}

// Stop closes the current interval and adds it to the total.
// Panics if not running.
func (w *StopWatch) Stop() {
	if !w.running {
		panic(&ProtocolError{Op: "stop", Count: w.count, Err: ErrNotRunning})
	}
	w.running = false
	w.elapsed = w.elapsed.Add(w.clock.Elapsed())
}

// Reset clears the total and the count. Panics if running.
func (w *StopWatch) Reset() {
	if w.running {
		panic(&ProtocolError{Op: "reset", Count: w.count, Err: ErrResetWhileRunning})
	}
	w.elapsed = Duration{}
	w.count = 0
}

// Count is the number of Resume calls since creation or the last Reset
func (w *StopWatch) Count() int { return w.count }

// Running reports whether an interval is open
func (w *StopWatch) Running() bool { return w.running }

// Elapsed is the total of all closed intervals. An open interval does not
// contribute until Stop.
func (w *StopWatch) Elapsed() Duration { return w.elapsed }

// Watch returns w itself so a StopWatch can be used as a Timer
func (w *StopWatch) Watch() *StopWatch { return w }
