// Package stop provides the cooperative cancellation flag for the send
// loop: set once by a signal handler, polled every loop iteration.
package stop

import "sync/atomic"

// Flag is a set-once stop request, safe for concurrent use. Request is
// idempotent; the flag is never reset.
type Flag struct {
	requested atomic.Bool
}

// NewFlag returns a flag in the not-requested state.
func NewFlag() *Flag {
	return &Flag{}
}

// Request marks the stop as requested. Safe to call from a signal
// handling goroutine while the loop is reading.
func (f *Flag) Request() {
	f.requested.Store(true)
}

// Requested reports whether a stop has been requested.
func (f *Flag) Requested() bool {
	return f.requested.Load()
}
