package status

import (
	"sync"
	"time"
)

// RunState is the send loop's lifecycle state. It is blank until the
// loop starts.
type RunState string

const (
	StateRunning    RunState = "RUNNING"
	StateStopping   RunState = "STOPPING"
	StateTerminated RunState = "TERMINATED"
)

// Config holds the resolved run configuration, for display only.
type Config struct {
	Port      string
	Baud      int
	Magnitude int
	RateHz    int
	PeriodMs  int64
	StatusMs  int64
	Broker    string
	HTTPAddr  string
	LEDPin    int
}

// Snapshot is a point-in-time copy of the run's observable state. It is
// a value type: readers hold it without locking.
type Snapshot struct {
	State         RunState
	MessagesSent  uint64
	LastSendAt    time.Time
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns how long the run had been up at snapshot time.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker records run state for readers outside the send loop: HTTP
// handlers, MQTT lifecycle payloads and the LED driver. The loop writes
// it; its correctness never depends on it.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker starts tracking with the given start time and resolved
// configuration.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{snap: Snapshot{StartTime: startTime, Config: cfg}}
}

// SetState records a loop state transition.
func (t *Tracker) SetState(state RunState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.State = state
}

// RecordSend records a successful transmission.
func (t *Tracker) RecordSend(messagesSent uint64, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.MessagesSent = messagesSent
	t.snap.LastSendAt = at
}

// SetMQTTConnected records broker connectivity.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.MQTTConnected = connected
}

// Snapshot returns a copy of the current state with Now stamped.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s := t.snap
	s.Now = time.Now()
	return s
}
