package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": formatUptime,
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
	"syncClass": func(s clock.SyncStatus) string {
		switch s {
		case clock.StatusSet:
			return "on"
		case clock.StatusNeedsSync:
			return "unknown"
		default:
			return "disconnected"
		}
	},
	"display": status.DisplayTime,
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="10">
<title>Alarm Clock</title>
<style>
body { font-family: monospace; max-width: 36em; margin: 2em auto; padding: 0 1em; background: #111; color: #ddd; }
h1 { font-size: 1.2em; }
h2 { font-size: 1em; color: #aaa; }
table { border-collapse: collapse; width: 100%; }
td, th { text-align: left; padding: 3px 6px; border-bottom: 1px solid #333; }
th { width: 35%; font-weight: normal; color: #aaa; }
.face { font-size: 4em; color: #f33; margin: 0.3em 0; white-space: pre; }
.on, .connected { color: #4c4; }
.off { color: #777; }
.unknown { color: #fa0; }
.disconnected { color: #f44; }
</style>
</head>
<body>
<h1>Alarm Clock</h1>

<p id="face" class="face">{{display .Clock.Time}}</p>

<h2>Clock</h2>
<table>
<tr><th>Time</th><td id="clock-time">{{.Clock.Time.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sync</th><td id="sync" class="{{syncClass .Clock.Status}}">{{.Clock.Status}}</td></tr>
<tr><th>Last sync</th><td>{{if .Clock.LastSync.IsZero}}never{{else}}{{.Clock.LastSync.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
<tr><th>Relay</th><td id="relay" class="{{if .Clock.Relay}}on{{else}}off{{end}}">{{onOff .Clock.Relay}}</td></tr>
<tr><th>Buzzer</th><td id="buzzer" class="{{if .Clock.Buzzer}}on{{else}}off{{end}}">{{onOff .Clock.Buzzer}}</td></tr>
<tr><th>Lights</th><td id="lights" class="{{if .Clock.Lights}}on{{else}}off{{end}}">{{onOff .Clock.Lights}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
<tr><th>Serial</th><td>{{.Config.Serial}} @ {{.Config.Baud}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Syncs</th><td>{{.Counts.Syncs}}</td></tr>
<tr><th>Rejected</th><td>{{.Counts.Rejected}}</td></tr>
<tr><th>Telemetry</th><td>{{.Counts.Telemetry}}{{if .LastLine}} (last {{.LastLine}}){{end}}</td></tr>
<tr><th>Left</th><td>{{.Counts.Left}}</td></tr>
<tr><th>Right</th><td>{{.Counts.Right}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Settle</th><td>{{.Config.SettleMs}}ms</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Sync interval</th><td>{{.Config.SyncIntervalMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">Metrics</a></p>
</body>
</html>
`

// formatUptime renders d to the second, omitting leading zero units.
func formatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	parts := []struct {
		n    int64
		unit string
	}{
		{secs / 86400, "d"},
		{secs / 3600 % 24, "h"},
		{secs / 60 % 60, "m"},
	}
	var b strings.Builder
	for _, p := range parts {
		if p.n > 0 || b.Len() > 0 {
			fmt.Fprintf(&b, "%d%s ", p.n, p.unit)
		}
	}
	fmt.Fprintf(&b, "%ds", secs%60)
	return b.String()
}

type page struct {
	status.Snapshot
	Uptime time.Duration
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	indexTmpl.Execute(w, page{Snapshot: snap, Uptime: snap.Uptime()})
}
