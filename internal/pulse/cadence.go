// Package pulse implements the timed pulse engine: a cadence controller
// that paces ticks on a monotonic clock, and a transmitter that renders
// and writes one alternating-sign frame per tick.
//
// The clock and the scheduler yield are injectable so tests never sleep.
package pulse

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// ErrInvalidRate reports a pulse rate outside 1..1000 Hz.
var ErrInvalidRate = errors.New("rate must be in 1..1000 Hz")

// MaxRateHz caps the pulse rate so the tick period never drops below 1ms.
const MaxRateHz = 1000

// Cadence paces the send loop. Ticks fire no closer than one period
// apart, measured on the monotonic clock.
type Cadence struct {
	period   time.Duration
	lastTick time.Time

	now   func() time.Time
	yield func()
}

// NewCadence validates rateHz and derives the tick period as
// 1000ms/rateHz with integer truncation.
func NewCadence(rateHz int) (*Cadence, error) {
	if rateHz <= 0 || rateHz > MaxRateHz {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRate, rateHz)
	}
	return &Cadence{
		period: time.Duration(1000/rateHz) * time.Millisecond,
		now:    time.Now,
		yield:  runtime.Gosched,
	}, nil
}

// Period returns the derived tick interval.
func (c *Cadence) Period() time.Duration {
	return c.period
}

// Wait blocks until at least one period has elapsed since the previous
// tick, then records and returns the fire time. The first call seeds the
// reference point, so the first tick fires one full period after the
// loop starts.
//
// The wait is a poll-and-yield spin, not a sleep: OS sleep granularity
// is coarser than the 1ms minimum period.
func (c *Cadence) Wait() time.Time {
	if c.lastTick.IsZero() {
		c.lastTick = c.now()
	}
	for c.now().Sub(c.lastTick) < c.period {
		c.yield()
	}
	t := c.now()
	c.lastTick = t
	return t
}
