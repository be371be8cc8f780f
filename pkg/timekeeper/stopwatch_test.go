package timekeeper

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManual() *ManualSource {
	return NewManualSource(time.Unix(1700000000, 0))
}

func dur(wallMS, userMS, sysMS int) Duration {
	return Duration{
		Wall:   time.Duration(wallMS) * time.Millisecond,
		User:   time.Duration(userMS) * time.Millisecond,
		System: time.Duration(sysMS) * time.Millisecond,
	}
}

func TestDurationArithmetic(t *testing.T) {
	d1 := dur(10, 5, 1)
	d2 := dur(3, 7, 2)

	assert.Equal(t, dur(13, 12, 3), d1.Add(d2))
	assert.Equal(t, d1.Add(d2), d2.Add(d1))
	assert.Equal(t, d1, d1.Add(d2).Sub(d2))
	assert.Equal(t, dur(7, -2, -1), d1.Sub(d2))
	assert.Equal(t, d1, d1.Add(Duration{}))
	assert.True(t, Duration{}.IsZero())
	assert.Equal(t, Duration{}, Sum())
	assert.Equal(t, dur(16, 19, 5), Sum(d1, d2, d2))
	assert.Equal(t, 6*time.Millisecond, d1.CPU())

	wall, user, system := d1.Microseconds()
	assert.Equal(t, int64(10000), wall)
	assert.Equal(t, int64(5000), user)
	assert.Equal(t, int64(1000), system)
}

func TestClockElapsed(t *testing.T) {
	src := newManual()
	c := NewClock(src)
	c.Start()

	src.Advance(5*time.Millisecond, 2*time.Millisecond, time.Millisecond)
	assert.Equal(t, dur(5, 2, 1), c.Elapsed())

	// Baseline is kept between reads
	src.Advance(5*time.Millisecond, 0, 0)
	assert.Equal(t, dur(10, 2, 1), c.Elapsed())

	c.Start()
	assert.True(t, c.Elapsed().IsZero())
}

func TestClockTruncatesToMicroseconds(t *testing.T) {
	src := newManual()
	c := NewClock(src)
	c.Start()
	src.Advance(1500*time.Nanosecond, 999*time.Nanosecond, 2001*time.Nanosecond)

	assert.Equal(t, Duration{Wall: time.Microsecond, User: 0, System: 2 * time.Microsecond}, c.Elapsed())
}

func TestStopWatchAccumulates(t *testing.T) {
	src := newManual()
	w := NewStopWatch(src)

	assert.False(t, w.Running())
	assert.Equal(t, 0, w.Count())
	assert.True(t, w.Elapsed().IsZero())

	intervals := []Duration{dur(10, 4, 1), dur(3, 3, 0), dur(7, 0, 2)}
	var want Duration
	for i, iv := range intervals {
		w.Resume()
		assert.True(t, w.Running())
		src.AdvanceBy(iv)
		// An open interval does not show up yet
		assert.Equal(t, want, w.Elapsed())
		w.Stop()
		want = want.Add(iv)
		assert.Equal(t, i+1, w.Count())
		assert.Equal(t, want, w.Elapsed())
	}

	// Time passing while idle is not counted
	src.Advance(time.Second, time.Second, time.Second)
	assert.Equal(t, want, w.Elapsed())

	w.Reset()
	assert.Equal(t, 0, w.Count())
	assert.True(t, w.Elapsed().IsZero())
}

func TestStopWatchProtocolViolations(t *testing.T) {
	tests := []struct {
		name string
		run  func(w *StopWatch)
		want error
	}{
		{"resume while running", func(w *StopWatch) { w.Resume(); w.Resume() }, ErrAlreadyRunning},
		{"stop while idle", func(w *StopWatch) { w.Stop() }, ErrNotRunning},
		{"double stop", func(w *StopWatch) { w.Resume(); w.Stop(); w.Stop() }, ErrNotRunning},
		{"reset while running", func(w *StopWatch) { w.Resume(); w.Reset() }, ErrResetWhileRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewStopWatch(newManual())
			var got interface{}
			func() {
				defer func() { got = recover() }()
				tt.run(w)
			}()
			require.NotNil(t, got, "expected a panic")
			err, ok := got.(error)
			require.True(t, ok, "panic value %v is not an error", got)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)

			var perr *ProtocolError
			require.True(t, errors.As(err, &perr))
		})
	}
}

func TestZeroValueStopWatchUsesDefaultSource(t *testing.T) {
	src := newManual()
	prev := SetDefaultSource(src)
	defer SetDefaultSource(prev)

	var w StopWatch
	w.Resume()
	src.Advance(2*time.Millisecond, time.Millisecond, 0)
	w.Stop()
	assert.Equal(t, dur(2, 1, 0), w.Elapsed())
}
