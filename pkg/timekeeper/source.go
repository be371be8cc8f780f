package timekeeper

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessSource reads CPU times of the current process through gopsutil.
// It works on every platform gopsutil supports but its resolution is
// limited by the OS accounting tick (typically 10ms on Linux).
type ProcessSource struct {
	proc *process.Process

	mu         sync.Mutex
	lastUser   time.Duration
	lastSystem time.Duration
}

// NewProcessSource creates a source bound to os.Getpid()
func NewProcessSource() *ProcessSource {
	s := &ProcessSource{}
	// Without a process handle CPU reports zero counters
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		s.proc = proc
	}
	return s
}

// Now returns the monotonic wall clock
func (s *ProcessSource) Now() time.Time {
	return time.Now()
}

// CPU returns cumulative user and system time. A failed read repeats the
// previous sample so the counters never go backwards.
func (s *ProcessSource) CPU() (user, system time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return s.lastUser, s.lastSystem
	}
	times, err := s.proc.Times()
	if err != nil {
		return s.lastUser, s.lastSystem
	}
	user = secondsToDuration(times.User)
	system = secondsToDuration(times.System)
	if user > s.lastUser {
		s.lastUser = user
	}
	if system > s.lastSystem {
		s.lastSystem = system
	}
	return s.lastUser, s.lastSystem
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second)).Truncate(Resolution)
}

// ManualSource is a Source whose samples only move when told to.
// Tests and simulations use it to get exact durations.
type ManualSource struct {
	mu     sync.Mutex
	now    time.Time
	user   time.Duration
	system time.Duration
}

// NewManualSource starts at the given instant with zero CPU counters
func NewManualSource(start time.Time) *ManualSource {
	return &ManualSource{now: start}
}

// Advance moves all three counters forward
func (m *ManualSource) Advance(wall, user, system time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(wall)
	m.user += user
	m.system += system
}

// AdvanceBy moves the counters by d
func (m *ManualSource) AdvanceBy(d Duration) {
	m.Advance(d.Wall, d.User, d.System)
}

// Now returns the current manual instant
func (m *ManualSource) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// CPU returns the current manual counters
func (m *ManualSource) CPU() (user, system time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.system
}
