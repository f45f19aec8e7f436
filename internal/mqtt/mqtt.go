// Package mqtt mirrors the run's status events to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/AndFroSwe/ExcSerial/internal/status"
)

// TopicEvents is the MQTT topic for pulse progress events.
const TopicEvents = "diag/excserial/events"

// TopicSystem is the MQTT topic for run lifecycle events.
const TopicSystem = "diag/excserial/system"

// Payload represents the progress message payload structure.
type Payload struct {
	Pulse PulsePayload `json:"pulse"`
}

// PulsePayload contains the progress event details.
type PulsePayload struct {
	Timestamp    string `json:"timestamp"`
	Event        string `json:"event"`
	MessagesSent uint64 `json:"messages_sent,omitempty"`
}

// FormatEventPayload creates the JSON payload for a progress event.
func FormatEventPayload(ev status.Event) ([]byte, error) {
	payload := Payload{
		Pulse: PulsePayload{
			Timestamp:    ev.Timestamp.UTC().Format(time.RFC3339),
			Event:        string(ev.Kind),
			MessagesSent: ev.MessagesSent,
		},
	}
	return json.Marshal(payload)
}

// willPayload is registered as the last will: the broker publishes it if
// the connection drops without a clean disconnect.
func willPayload(now time.Time) []byte {
	data, _ := json.Marshal(Payload{
		Pulse: PulsePayload{
			Timestamp: now.UTC().Format(time.RFC3339),
			Event:     "CONNECTION_LOST",
		},
	})
	return data
}

// route maps an event kind to its topic, QoS and retain flag. Progress is
// data (QoS 0, at-most-once); lifecycle events ride the system topic at
// QoS 1, with Sending and the terminal events retained so a late
// subscriber sees the run's last known condition.
func route(kind status.Kind) (topic string, qos byte, retained bool) {
	switch kind {
	case status.KindProgress:
		return TopicEvents, 0, false
	case status.KindSending, status.KindShuttingDown, status.KindTransmitFailed:
		return TopicSystem, 1, true
	default:
		return TopicSystem, 1, false
	}
}
