package chip8

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

/// A clock that only moves when told to.
///
type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFakeTime() *fakeTime {
	return &fakeTime{now: time.Date(2020, 1, 7, 0, 0, 0, 0, time.UTC)}
}

func TestTimersFloorAtZero(t *testing.T) {
	timers := Timers{Delay: 1, Sound: 0}

	timers.Decrement()
	timers.Decrement()

	assert.Equal(t, byte(0), timers.Delay)
	assert.Equal(t, byte(0), timers.Sound)
	assert.False(t, timers.Tone())
}

func TestTickAtMostOncePerInterval(t *testing.T) {
	ft := newFakeTime()
	c := NewClock(ft.Now)
	timers := Timers{Delay: 200, Sound: 200}

	// tick 1000 times a second for one second
	for i := 0; i < 1000; i++ {
		ft.Advance(time.Millisecond)
		c.Tick(&timers)
	}

	// 1000ms is 60 full intervals
	assert.Equal(t, byte(140), timers.Delay)
	assert.Equal(t, byte(140), timers.Sound)
}

func TestTickBeforeInterval(t *testing.T) {
	ft := newFakeTime()
	c := NewClock(ft.Now)
	timers := Timers{Delay: 3}

	ft.Advance(TimerInterval - 1)
	assert.False(t, c.Tick(&timers))
	assert.Equal(t, byte(3), timers.Delay)

	ft.Advance(1)
	assert.True(t, c.Tick(&timers))
	assert.Equal(t, byte(2), timers.Delay)

	// same instant, nothing more
	assert.False(t, c.Tick(&timers))
	assert.Equal(t, byte(2), timers.Delay)
}

func TestTickDoesNotDrift(t *testing.T) {
	ft := newFakeTime()
	c := NewClock(ft.Now)
	timers := Timers{Delay: 10}

	// a late tick still only moves the reference by one interval, so
	// the next tick comes sooner
	ft.Advance(TimerInterval + TimerInterval/2)
	assert.True(t, c.Tick(&timers))

	ft.Advance(TimerInterval / 2)
	assert.True(t, c.Tick(&timers))
	assert.Equal(t, byte(8), timers.Delay)
}

func TestTickCatchesUpOnePerCall(t *testing.T) {
	ft := newFakeTime()
	c := NewClock(ft.Now)
	timers := Timers{Sound: 10}

	ft.Advance(3 * TimerInterval)

	assert.True(t, c.Tick(&timers))
	assert.Equal(t, byte(9), timers.Sound)
	assert.True(t, timers.Tone())

	assert.True(t, c.Tick(&timers))
	assert.True(t, c.Tick(&timers))
	assert.False(t, c.Tick(&timers))
	assert.Equal(t, byte(7), timers.Sound)
}

func TestResync(t *testing.T) {
	ft := newFakeTime()
	c := NewClock(ft.Now)
	timers := Timers{Delay: 10}

	ft.Advance(time.Second)
	c.Resync()

	assert.False(t, c.Tick(&timers))
	assert.Equal(t, byte(10), timers.Delay)
}
