package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	State         string     `json:"state"`
	MessagesSent  uint64     `json:"messages_sent"`
	LastSendAt    string     `json:"last_send_at,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of the run configuration.
type ConfigJSON struct {
	Port      string `json:"port"`
	Baud      int    `json:"baud"`
	Magnitude int    `json:"magnitude"`
	RateHz    int    `json:"rate_hz"`
	PeriodMs  int64  `json:"period_ms"`
	StatusMs  int64  `json:"status_ms"`
	HTTPAddr  string `json:"http_addr,omitempty"`
	LEDPin    int    `json:"led_pin"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "STARTING"
	}

	inner := StatusInner{
		State:         state,
		MessagesSent:  snap.MessagesSent,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			Port:      snap.Config.Port,
			Baud:      snap.Config.Baud,
			Magnitude: snap.Config.Magnitude,
			RateHz:    snap.Config.RateHz,
			PeriodMs:  snap.Config.PeriodMs,
			StatusMs:  snap.Config.StatusMs,
			HTTPAddr:  snap.Config.HTTPAddr,
			LEDPin:    snap.Config.LEDPin,
		},
	}
	if !snap.LastSendAt.IsZero() {
		inner.LastSendAt = snap.LastSendAt.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for an MQTT lifecycle
// event, carrying the full snapshot.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
