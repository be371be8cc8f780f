//go:build unix

package timekeeper

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// RusageSource reads user and system time from getrusage(RUSAGE_SELF),
// which reports at microsecond resolution. The zero value is ready to use.
type RusageSource struct {
	getrusage func(who int, ru *unix.Rusage) error

	mu         sync.Mutex
	lastUser   time.Duration
	lastSystem time.Duration
}

// Now returns the monotonic wall clock
func (s *RusageSource) Now() time.Time {
	return time.Now()
}

// CPU returns cumulative process user and system time. A failed read
// repeats the previous sample so the counters never go backwards.
func (s *RusageSource) CPU() (user, system time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	getrusage := s.getrusage
	if getrusage == nil {
		getrusage = unix.Getrusage
	}
	var ru unix.Rusage
	if err := getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return s.lastUser, s.lastSystem
	}
	s.lastUser = time.Duration(ru.Utime.Nano())
	s.lastSystem = time.Duration(ru.Stime.Nano())
	return s.lastUser, s.lastSystem
}

func newPlatformSource() Source {
	return &RusageSource{}
}
