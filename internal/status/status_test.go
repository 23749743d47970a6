package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/alarm-clock/internal/clock"
	"github.com/sweeney/alarm-clock/internal/logic"
)

type staticSource clock.Snapshot

func (s staticSource) Snapshot() clock.Snapshot { return clock.Snapshot(s) }

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{SettleMs: 5, TickMs: 1000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"}
	tr := NewTracker(start, cfg, nil)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.SettleMs != 5 {
		t.Errorf("Config.SettleMs: got %d, want 5", snap.Config.SettleMs)
	}
	if snap.Config.HTTPAddr != ":80" {
		t.Errorf("Config.HTTPAddr: got %q, want %q", snap.Config.HTTPAddr, ":80")
	}
	if snap.Clock.Status != clock.StatusNotSet {
		t.Errorf("expected NOT_SET without a clock source, got %s", snap.Clock.Status)
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestSnapshotReadsClockSource(t *testing.T) {
	at := time.Date(2023, 10, 15, 14, 30, 22, 0, time.UTC)
	src := staticSource{Time: at, Status: clock.StatusSet, Relay: true}
	tr := NewTracker(time.Now(), Config{}, src)

	snap := tr.Snapshot()
	if !snap.Clock.Time.Equal(at) {
		t.Errorf("Clock.Time: got %v, want %v", snap.Clock.Time, at)
	}
	if snap.Clock.Status != clock.StatusSet {
		t.Errorf("Clock.Status: got %s, want SET", snap.Clock.Status)
	}
	if !snap.Clock.Relay {
		t.Error("expected Clock.Relay=true")
	}
}

func TestRecordCounts(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)

	tr.RecordSync()
	tr.RecordSync()
	tr.RecordRejected()
	tr.RecordTelemetry("20231015143100")
	tr.RecordButton(logic.ButtonLeft)
	tr.RecordButton(logic.ButtonRight)
	tr.RecordButton(logic.ButtonRight)

	snap := tr.Snapshot()
	want := Counts{Syncs: 2, Rejected: 1, Telemetry: 1, Left: 1, Right: 2}
	if snap.Counts != want {
		t.Errorf("Counts: got %+v, want %+v", snap.Counts, want)
	}
	if snap.LastLine != "20231015143100" {
		t.Errorf("LastLine: got %q", snap.LastLine)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)

	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	net := &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"}
	tr.SetNetwork(net)

	snap := tr.Snapshot()
	if snap.Network == nil {
		t.Fatal("expected non-nil Network")
	}
	if snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want %q", snap.Network.IP, "192.168.1.42")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{}, nil)

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, nil)
	tr.RecordSync()

	snap1 := tr.Snapshot()
	tr.RecordSync()

	if snap1.Counts.Syncs != 1 {
		t.Error("snapshot should be a copy; Counts was modified")
	}
}

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		hour, minute int
		want         string
	}{
		{0, 0, "12:00"},
		{9, 5, " 9:05"},
		{12, 30, "12:30"},
		{14, 30, " 2:30"},
		{23, 59, "11:59"},
	}
	for _, tt := range tests {
		got := DisplayTime(time.Date(2026, 1, 1, tt.hour, tt.minute, 0, 0, time.UTC))
		if got != tt.want {
			t.Errorf("DisplayTime(%02d:%02d): got %q, want %q", tt.hour, tt.minute, got, tt.want)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Clock: clock.Snapshot{
			Time:     time.Date(2023, 10, 15, 14, 30, 22, 0, time.UTC),
			Status:   clock.StatusSet,
			LastSync: start.Add(14 * time.Minute),
			Relay:    true,
			Lights:   true,
		},
		Counts:        Counts{Syncs: 5, Left: 2},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{SettleMs: 5, TickMs: 1000, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPAddr: ":80"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	c := parsed.Status.Clock
	if c.Time != "2023-10-15T14:30:22Z" {
		t.Errorf("Clock.Time: got %q", c.Time)
	}
	if c.Display != " 2:30" {
		t.Errorf("Clock.Display: got %q, want %q", c.Display, " 2:30")
	}
	if c.Sync != "SET" {
		t.Errorf("Clock.Sync: got %q, want SET", c.Sync)
	}
	if c.LastSync != "2026-01-01T00:14:00Z" {
		t.Errorf("Clock.LastSync: got %q", c.LastSync)
	}
	if !c.Relay || c.Buzzer || !c.Lights {
		t.Errorf("unexpected flags: %+v", c)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if !parsed.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if parsed.Status.Counts.Syncs != 5 || parsed.Status.Counts.Left != 2 {
		t.Errorf("unexpected counts: %+v", parsed.Status.Counts)
	}
	if parsed.Status.Config.TickMs != 1000 {
		t.Errorf("Config.TickMs: got %d", parsed.Status.Config.TickMs)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("expected empty Reason for web format, got %q", parsed.Status.Reason)
	}
}

func TestFormatJSONNeverSynced(t *testing.T) {
	snap := Snapshot{
		Clock:     clock.Snapshot{Time: time.Unix(0, 0).UTC(), Status: clock.StatusNotSet},
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(FormatJSON(snap), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	c := raw["status"]["clock"].(map[string]interface{})
	if c["sync"] != "NOT_SET" {
		t.Errorf("sync: got %v, want NOT_SET", c["sync"])
	}
	if c["display"] != "12:00" {
		t.Errorf("display: got %v, want 12:00", c["display"])
	}
	if _, exists := c["last_sync"]; exists {
		t.Error("last_sync should be omitted before the first sync")
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Clock:         clock.Snapshot{Status: clock.StatusNeedsSync},
		Counts:        Counts{Telemetry: 3},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if parsed.Status.Clock.Sync != "NEEDS_SYNC" {
		t.Errorf("Clock.Sync: got %q, want NEEDS_SYNC", parsed.Status.Clock.Sync)
	}
	if parsed.Status.Counts.Telemetry != 3 {
		t.Errorf("Counts.Telemetry: got %d, want 3", parsed.Status.Counts.Telemetry)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	// Verify "reason" is not in the raw JSON output
	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
}

func TestFormatJSONWithNetwork(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC),
		Network:   &NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "MyNet"},
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	json.Unmarshal(data, &parsed)

	if parsed.Status.Network == nil {
		t.Fatal("expected Network in JSON")
	}
	if parsed.Status.Network.IP != "192.168.1.42" {
		t.Errorf("Network.IP: got %q, want 192.168.1.42", parsed.Status.Network.IP)
	}
	if parsed.Status.Network.SSID != "MyNet" {
		t.Errorf("Network.SSID: got %q, want MyNet", parsed.Status.Network.SSID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{}, staticSource{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.RecordSync()
			tr.RecordButton(logic.ButtonLeft)
			tr.SetMQTTConnected(i%2 == 0)
			tr.SetNetwork(&NetworkInfo{IP: "1.2.3.4"})
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
