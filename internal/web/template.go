package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/AndFroSwe/ExcSerial/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrStarting": func(s string) string {
		if s == "" {
			return "STARTING"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>ExcSerial</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.running { color: green; font-weight: bold; }
.stopped { color: red; }
.starting { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.disabled { color: #888; }
</style>
</head>
<body>
<h1>ExcSerial</h1>

<h2>Pulse Stream</h2>
<table>
<tr><th>State</th><td class="{{if eq (stateOrStarting (printf "%s" .State)) "RUNNING"}}running{{else if eq (stateOrStarting (printf "%s" .State)) "STARTING"}}starting{{else}}stopped{{end}}">{{stateOrStarting (printf "%s" .State)}}</td></tr>
<tr><th>Messages Sent</th><td>{{.MessagesSent}}</td></tr>
<tr><th>Last Send</th><td>{{if .LastSendAt.IsZero}}never{{else}}{{.LastSendAt.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
</table>

<h2>Serial Link</h2>
<table>
<tr><th>Port</th><td>{{.Config.Port}}</td></tr>
<tr><th>Baud</th><td>{{.Config.Baud}}</td></tr>
<tr><th>Magnitude</th><td>{{.Config.Magnitude}}</td></tr>
<tr><th>Rate</th><td>{{.Config.RateHz}} Hz</td></tr>
<tr><th>Period</th><td>{{.Config.PeriodMs}}ms</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if not .Config.Broker}}disabled{{else if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if not .Config.Broker}}disabled{{else if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Status Every</th><td>{{.Config.StatusMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
{{if ge .Config.LEDPin 0}}<tr><th>LED Pin</th><td>GPIO{{.Config.LEDPin}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// renderHTML writes the status page for one snapshot.
func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has an Uptime() method but the template needs a value.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
