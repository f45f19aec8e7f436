// Package status carries the run's observable state: the structured
// events the send loop emits, the sinks that render them, and a tracker
// whose snapshots feed the HTTP page, the MQTT mirror and the activity
// LED.
package status

import "time"

// Kind identifies a structured event from the send loop.
type Kind string

const (
	KindConfigured     Kind = "CONFIGURED"
	KindSending        Kind = "SENDING"
	KindProgress       Kind = "PROGRESS"
	KindShuttingDown   Kind = "SHUTTING_DOWN"
	KindTransmitFailed Kind = "TRANSMIT_FAILED"
)

// Event is one structured notification. Only the fields relevant to its
// Kind are set.
type Event struct {
	Timestamp time.Time
	Kind      Kind

	// Port is set on Configured and Sending.
	Port string

	// Magnitude, RateHz and PeriodMs are set on Sending.
	Magnitude int
	RateHz    int
	PeriodMs  int64

	// MessagesSent is set on Progress, ShuttingDown and TransmitFailed.
	MessagesSent uint64

	// Description carries the failure text on TransmitFailed.
	Description string
}

// Emitter renders events for a human or mirrors them elsewhere. How an
// event is formatted is entirely the emitter's concern.
type Emitter interface {
	Emit(Event) error
}

// Fanout emits to every member in order. The first error is returned
// after all members have been tried.
type Fanout []Emitter

func (f Fanout) Emit(ev Event) error {
	var first error
	for _, em := range f {
		if err := em.Emit(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
