package chip8

import "time"

/// TimerInterval is the period of the delay and sound timers (60 Hz).
///
const TimerInterval = time.Second / 60

/// Timers are the delay and sound countdown registers.
///
type Timers struct {
	Delay byte
	Sound byte
}

/// Decrement both timers once, stopping at zero.
///
func (t *Timers) Decrement() {
	if t.Delay > 0 {
		t.Delay--
	}
	if t.Sound > 0 {
		t.Sound--
	}
}

/// Tone is true while the sound timer is running.
///
func (t *Timers) Tone() bool {
	return t.Sound > 0
}

/// Clock counts down Timers at 60 Hz of wall-clock time, no matter how
/// often it is ticked.
///
type Clock struct {
	/// Now returns the current time. Tests replace it.
	///
	Now func() time.Time

	// time of the last timer decrement
	ref time.Time
}

/// NewClock returns a clock referenced to the current time. If now is
/// nil, time.Now is used.
///
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}

	return &Clock{
		Now: now,
		ref: now(),
	}
}

/// Tick decrements the timers if at least one interval has elapsed since
/// the last decrement. The reference time only advances by a single
/// interval so that loop overhead doesn't accumulate as drift; a host
/// that fell behind catches up one decrement per tick. Returns true if
/// the timers were decremented.
///
func (c *Clock) Tick(t *Timers) bool {
	if c.Now().Sub(c.ref) < TimerInterval {
		return false
	}

	c.ref = c.ref.Add(TimerInterval)
	t.Decrement()

	return true
}

/// Resync moves the reference time to now, dropping any elapsed time.
/// Used when emulation is paused.
///
func (c *Clock) Resync() {
	c.ref = c.Now()
}
