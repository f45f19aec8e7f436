// Package led drives a TX activity LED on a GPIO output line.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package led

import (
	"time"

	"github.com/AndFroSwe/ExcSerial/internal/status"
)

// Blinker sets a GPIO output line.
type Blinker interface {
	// Set drives the line high (true) or low (false).
	Set(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Activity blinks a line while pulses are flowing. It polls tracker
// snapshots and toggles the line whenever the send count has advanced
// since the last poll; otherwise the line is held dark.
type Activity struct {
	line     Blinker
	tracker  *status.Tracker
	interval time.Duration

	lastSent uint64
	lit      bool

	stop chan struct{}
	done chan struct{}
}

// NewActivity returns a driver that polls the tracker at the given
// interval. Call Start to begin driving the line.
func NewActivity(line Blinker, tracker *status.Tracker, interval time.Duration) *Activity {
	return &Activity{
		line:     line,
		tracker:  tracker,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling goroutine.
func (a *Activity) Start() {
	go a.run()
}

// Stop halts polling and leaves the line dark. It blocks until the
// polling goroutine has exited.
func (a *Activity) Stop() {
	close(a.stop)
	<-a.done
}

func (a *Activity) run() {
	defer close(a.done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			_ = a.line.Set(false)
			return
		case <-ticker.C:
			a.step()
		}
	}
}

// step advances the blink state from one tracker snapshot.
func (a *Activity) step() {
	snap := a.tracker.Snapshot()

	switch {
	case snap.State == status.StateRunning && snap.MessagesSent != a.lastSent:
		a.lastSent = snap.MessagesSent
		a.lit = !a.lit
	default:
		a.lit = false
	}
	_ = a.line.Set(a.lit)
}
