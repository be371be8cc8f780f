package timekeeper

import (
	"sync"
	"time"
)

// Source supplies the raw samples a Clock works from. CPU must return
// process-wide, monotonically non-decreasing user and system counters.
type Source interface {
	Now() time.Time
	CPU() (user, system time.Duration)
}

var (
	defaultMu     sync.RWMutex
	defaultSource Source = newPlatformSource()
)

// DefaultSource returns the Source used by clocks that were not given one
func DefaultSource() Source {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSource
}

// SetDefaultSource replaces the package default and returns the previous one.
// Clocks that already resolved their source keep it.
func SetDefaultSource(src Source) Source {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultSource
	defaultSource = src
	return prev
}

// Clock samples a start instant and reports the Duration elapsed since then
type Clock struct {
	source      Source
	wallStart   time.Time
	userStart   time.Duration
	systemStart time.Duration
}

// NewClock returns a clock reading from src. A nil src means DefaultSource.
func NewClock(src Source) Clock {
	return Clock{source: src}
}

func (c *Clock) src() Source {
	if c.source == nil {
		c.source = DefaultSource()
	}
	return c.source
}

// Start overwrites the baseline with the current samples
func (c *Clock) Start() {
	src := c.src()
	c.wallStart = src.Now()
	c.userStart, c.systemStart = src.CPU()
}

// Elapsed returns now minus the baseline for each measurement.
// The baseline is left untouched.
func (c *Clock) Elapsed() Duration {
	src := c.src()
	user, system := src.CPU()
	wall := src.Now().Sub(c.wallStart)
	return Duration{
		Wall:   wall,
		User:   user - c.userStart,
		System: system - c.systemStart,
	}.Truncate(Resolution)
}
