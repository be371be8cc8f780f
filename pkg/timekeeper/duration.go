package timekeeper

import "time"

// Resolution is the tick size every Duration is truncated to
const Resolution = time.Microsecond

// Duration bundles the three elapsed-time measurements of an interval.
// The zero value is the additive identity. Fields are signed so that
// unaccounted time may go negative.
type Duration struct {
	Wall   time.Duration
	User   time.Duration
	System time.Duration
}

// Add returns d + o componentwise
func (d Duration) Add(o Duration) Duration {
	return Duration{
		Wall:   d.Wall + o.Wall,
		User:   d.User + o.User,
		System: d.System + o.System,
	}
}

// Sub returns d - o componentwise
func (d Duration) Sub(o Duration) Duration {
	return Duration{
		Wall:   d.Wall - o.Wall,
		User:   d.User - o.User,
		System: d.System - o.System,
	}
}

// IsZero reports whether all three measurements are zero
func (d Duration) IsZero() bool {
	return d == Duration{}
}

// Truncate rounds every field toward zero to a multiple of m
func (d Duration) Truncate(m time.Duration) Duration {
	return Duration{
		Wall:   d.Wall.Truncate(m),
		User:   d.User.Truncate(m),
		System: d.System.Truncate(m),
	}
}

// Microseconds returns the three fields as integer microsecond counts
func (d Duration) Microseconds() (wall, user, system int64) {
	return d.Wall.Microseconds(), d.User.Microseconds(), d.System.Microseconds()
}

// CPU returns user + system time
func (d Duration) CPU() time.Duration {
	return d.User + d.System
}

// Sum adds up ds. Sum() is the zero Duration.
func Sum(ds ...Duration) Duration {
	var total Duration
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// unaccounted is the single derivation of "time not attributed to any
// child" shared by Node and Result. Groups have no own time and report zero.
func unaccounted(group bool, own Duration, children []Duration) Duration {
	if group {
		return Duration{}
	}
	for _, c := range children {
		own = own.Sub(c)
	}
	return own
}
