package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sweeney/alarm-clock/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Clock         ClockJSON    `json:"clock"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ClockJSON is the JSON representation of the clock state.
type ClockJSON struct {
	Time     string `json:"time"`
	Display  string `json:"display"`
	Sync     string `json:"sync"`
	LastSync string `json:"last_sync,omitempty"`
	LastLine string `json:"last_line,omitempty"`
	Relay    bool   `json:"relay"`
	Buzzer   bool   `json:"buzzer"`
	Lights   bool   `json:"lights"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Syncs     int `json:"syncs"`
	Rejected  int `json:"rejected"`
	Telemetry int `json:"telemetry"`
	Left      int `json:"left"`
	Right     int `json:"right"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Serial         string `json:"serial"`
	Baud           int    `json:"baud"`
	SettleMs       int64  `json:"settle_ms"`
	TickMs         int64  `json:"tick_ms"`
	SyncIntervalMs int64  `json:"sync_interval_ms"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	HTTPAddr       string `json:"http_addr"`
}

// DisplayTime renders the time as the four digits show it, e.g. " 2:30".
func DisplayTime(t time.Time) string {
	return fmt.Sprintf("%2d:%02d", logic.Hour12(t.Hour()), t.Minute())
}

func buildInner(snap Snapshot) StatusInner {
	c := ClockJSON{
		Time:     snap.Clock.Time.UTC().Format(time.RFC3339),
		Display:  DisplayTime(snap.Clock.Time),
		Sync:     snap.Clock.Status.String(),
		LastLine: snap.LastLine,
		Relay:    snap.Clock.Relay,
		Buzzer:   snap.Clock.Buzzer,
		Lights:   snap.Clock.Lights,
	}
	if !snap.Clock.LastSync.IsZero() {
		c.LastSync = snap.Clock.LastSync.UTC().Format(time.RFC3339)
	}

	return StatusInner{
		Clock:         c,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Syncs:     snap.Counts.Syncs,
			Rejected:  snap.Counts.Rejected,
			Telemetry: snap.Counts.Telemetry,
			Left:      snap.Counts.Left,
			Right:     snap.Counts.Right,
		},
		Config: ConfigJSON{
			Serial:         snap.Config.Serial,
			Baud:           snap.Config.Baud,
			SettleMs:       snap.Config.SettleMs,
			TickMs:         snap.Config.TickMs,
			SyncIntervalMs: snap.Config.SyncIntervalMs,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
